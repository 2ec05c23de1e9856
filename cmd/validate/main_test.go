package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_CleanFile(t *testing.T) {
	data := []byte("35.0|135.7|10|5.2|Kyoto, Japan\n-33.4|-70.6|35|7.1|Santiago, Chile\n")
	var out bytes.Buffer

	code := run(&out, "clean.txt", data, false)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "All validations passed.")
	assert.Contains(t, out.String(), "2 loaded, 0 skipped")
}

func TestRun_MalformedLineFails(t *testing.T) {
	data := []byte("35.0|135.7|10|5.2|Kyoto, Japan\nnot|a|quake\n")
	var out bytes.Buffer

	code := run(&out, "bad.txt", data, false)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "line 2")
	assert.Contains(t, out.String(), "Validation FAILED.")
}

func TestRun_LenientSkipsMalformedLine(t *testing.T) {
	data := []byte("35.0|135.7|10|5.2|Kyoto, Japan\nnot|a|quake\n")
	var out bytes.Buffer

	code := run(&out, "bad.txt", data, true)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "line 2 skipped")
	assert.Contains(t, out.String(), "1 loaded, 1 skipped")
}

func TestRun_OutOfRangeLatitude(t *testing.T) {
	data := []byte("95.0|135.7|10|5.2|Nowhere\n")
	var out bytes.Buffer

	code := run(&out, "range.txt", data, false)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "latitude 95 outside [-90, 90]")
}

func TestValidateIndex_ReportsStaleCity(t *testing.T) {
	// Once Japan is a key, Osaka is filed under the country only.
	data := []byte("35.0|135.7|10|5.2|Kyoto, Japan\n34.6|135.5|12|4.8|Osaka, Japan\n")
	var out bytes.Buffer

	code := run(&out, "stale.txt", data, false)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "1 record(s) not reachable by city name alone")
}
