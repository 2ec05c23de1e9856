package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// FieldSeparator delimits fields within a catalog line. Escaping is not supported.
	FieldSeparator = "|"

	minFields = 5
)

// Field positions within a catalog line.
const (
	fieldLatitude = iota
	fieldLongitude
	fieldDepth
	fieldMagnitude
	fieldDescription
)

var errTooFewFields = fmt.Errorf("expected at least %d fields", minFields)

// ParseError reports a malformed catalog line. Line is the 1-based line number
// when known (set by the loader), otherwise 0.
type ParseError struct {
	Line  int
	Text  string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse quake line")
	if e.Line > 0 {
		fmt.Fprintf(&b, " %d", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %s", e.Field)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseLine converts one "lat|lon|depth|magnitude|description" line into an
// Earthquake. Fields beyond the fifth are ignored by the record but still
// matter to PlaceDescriptor.
func ParseLine(line string) (Earthquake, error) {
	fields := strings.Split(line, FieldSeparator)
	if len(fields) < minFields {
		return Earthquake{}, &ParseError{Text: line, Err: errTooFewFields}
	}

	lat, err := parseNumber(line, "latitude", fields[fieldLatitude])
	if err != nil {
		return Earthquake{}, err
	}
	lon, err := parseNumber(line, "longitude", fields[fieldLongitude])
	if err != nil {
		return Earthquake{}, err
	}
	depth, err := parseNumber(line, "depth", fields[fieldDepth])
	if err != nil {
		return Earthquake{}, err
	}
	mag, err := parseNumber(line, "magnitude", fields[fieldMagnitude])
	if err != nil {
		return Earthquake{}, err
	}

	return NewEarthquake(lat, lon, mag,
		WithDepth(depth),
		WithDescription(fields[fieldDescription]),
	), nil
}

// PlaceDescriptor returns the last field of a line, which is the key the
// location index files the line under.
func PlaceDescriptor(line string) string {
	if i := strings.LastIndex(line, FieldSeparator); i >= 0 {
		return line[i+len(FieldSeparator):]
	}
	return line
}

func parseNumber(line, field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ParseError{Text: line, Field: field, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Text: line, Field: field, Err: errors.New("value is not finite")}
	}
	return v, nil
}
