// Command validate checks an earthquake data file before it is served. It
// reports malformed lines, out-of-range values, and records the place index
// cannot reach by their full descriptor.
//
// Usage:
//
//	go run ./cmd/validate -data all-earthquakes.txt
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/store"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// parsedLine is a data line that parsed cleanly.
type parsedLine struct {
	lineNum int
	text    string
	quake   domain.Earthquake
}

func main() {
	dataFile := flag.String("data", "", "path to the earthquake data file")
	lenient := flag.Bool("lenient", false, "treat malformed lines as warnings")
	flag.Parse()

	if *dataFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*dataFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read data file: %v\n", err)
		os.Exit(1)
	}

	if code := run(os.Stdout, *dataFile, data, *lenient); code != 0 {
		os.Exit(code)
	}
}

func run(out io.Writer, source string, data []byte, lenient bool) int {
	fmt.Fprintf(out, "=== Earthquake Data Validation: %s ===\n\n", source)

	parsePhase, lines := validateParse(data, lenient)

	// The store is built leniently so the remaining phases can still run
	// over the lines that did parse.
	catalog, err := store.Read(bytes.NewReader(data), source, store.Options{Lenient: true})
	if err != nil {
		fmt.Fprintf(out, "FATAL: load catalog: %v\n", err)
		return 1
	}

	phases := []*phase{
		parsePhase,
		validateRanges(lines),
		validateIndex(catalog, lines),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-36s %s\n", p.name, status)
	}

	fmt.Fprintf(out, "\nRecords: %d loaded, %d skipped, %d place keys\n",
		catalog.Count(), catalog.Skipped(), len(catalog.Places()))

	for _, p := range phases {
		for _, n := range p.notes {
			fmt.Fprintf(out, "  Note: %s\n", n)
		}
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Parse ──

func validateParse(data []byte, lenient bool) (*phase, []parsedLine) {
	p := &phase{name: "Phase 1: Parse"}
	var lines []parsedLine

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := scanner.Text()
		q, err := domain.ParseLine(text)
		if err != nil {
			if lenient {
				p.notef("line %d skipped: %v", lineNum, err)
			} else {
				p.errorf("line %d: %v", lineNum, err)
			}
			continue
		}
		lines = append(lines, parsedLine{lineNum: lineNum, text: text, quake: q})
	}
	if err := scanner.Err(); err != nil {
		p.errorf("read: %v", err)
	}
	return p, lines
}

// ── Phase 2: Value Ranges ──

func validateRanges(lines []parsedLine) *phase {
	p := &phase{name: "Phase 2: Value Ranges"}
	for _, l := range lines {
		q := l.quake
		if q.Latitude() < -90 || q.Latitude() > 90 {
			p.errorf("line %d: latitude %g outside [-90, 90]", l.lineNum, q.Latitude())
		}
		if q.Longitude() < -180 || q.Longitude() > 180 {
			p.errorf("line %d: longitude %g outside [-180, 180]", l.lineNum, q.Longitude())
		}
		if q.Magnitude() < 0 {
			p.errorf("line %d: negative magnitude %g", l.lineNum, q.Magnitude())
		}
	}
	return p
}

// ── Phase 3: Place Index ──

func validateIndex(catalog *store.Store, lines []parsedLine) *phase {
	p := &phase{name: "Phase 3: Place Index"}
	if catalog.Count() != len(lines) {
		p.errorf("catalog holds %d records, %d lines parsed", catalog.Count(), len(lines))
		return p
	}

	stale := 0
	for _, l := range lines {
		descriptor := domain.PlaceDescriptor(l.text)
		found, ok := catalog.ByPlace(descriptor)
		if !ok || !slices.Contains(found, l.quake) {
			p.errorf("line %d: not reachable by place %q", l.lineNum, descriptor)
		}

		city, _, isPair := strings.Cut(descriptor, domain.PlaceSeparator)
		if !isPair {
			continue
		}
		if byCity, ok := catalog.ByPlace(city); !ok || !slices.Contains(byCity, l.quake) {
			stale++
		}
	}
	if stale > 0 {
		p.notef("%d record(s) not reachable by city name alone", stale)
	}
	return p
}
