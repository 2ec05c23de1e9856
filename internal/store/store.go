// Package store holds the in-memory earthquake catalog. A Store is built once
// from a data file and is read-only afterwards, so it can be shared between
// goroutines without locking.
package store

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// maxLineBytes bounds a single catalog line.
const maxLineBytes = 1 << 20

// ErrLineTooLong marks a line longer than maxLineBytes. It is reported as a
// ParseError, so lenient loads skip the line and carry on.
var ErrLineTooLong = fmt.Errorf("line exceeds %d bytes", maxLineBytes)

// ErrIndexOutOfRange is returned by ByIndex for positions outside [0, Count()).
var ErrIndexOutOfRange = errors.New("quake index out of range")

// Options controls how a catalog is loaded.
type Options struct {
	// Lenient skips malformed lines instead of aborting the load.
	Lenient bool
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Store is an ordered earthquake catalog with a place-name index.
type Store struct {
	quakes   []domain.Earthquake
	index    *domain.LocationIndex
	source   string
	loadedAt time.Time
	skipped  int
}

// Load reads the catalog at path. A file that cannot be opened or read fails
// the load; malformed lines fail it too unless opts.Lenient is set.
func Load(path string, opts Options) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quake data: %w", err)
	}
	defer f.Close()

	return Read(f, path, opts)
}

// Read builds a catalog from r, one record per line, in order. source names
// the input in logs and errors.
func Read(r io.Reader, source string, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	start := clock.Now()

	s := &Store{
		index:  domain.NewLocationIndex(),
		source: source,
	}

	br := bufio.NewReaderSize(r, 64*1024)

	lineNo := 0
	for {
		line, tooLong, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read quake data %s: %w", source, err)
		}
		lineNo++

		var quake domain.Earthquake
		if tooLong {
			err = &domain.ParseError{Err: ErrLineTooLong}
		} else {
			quake, err = domain.ParseLine(line)
		}
		if err != nil {
			var perr *domain.ParseError
			if errors.As(err, &perr) {
				perr.Line = lineNo
			}
			if !opts.Lenient {
				return nil, fmt.Errorf("load %s: %w", source, err)
			}
			logger.Warn("skipping malformed line", "source", source, "line", lineNo, "error", err)
			s.skipped++
			if opts.Metrics != nil {
				opts.Metrics.LinesSkipped.Inc()
			}
			continue
		}

		s.index.Add(domain.PlaceDescriptor(line), len(s.quakes))
		s.quakes = append(s.quakes, quake)
	}

	s.loadedAt = clock.Now()
	elapsed := s.loadedAt.Sub(start)

	if opts.Metrics != nil {
		opts.Metrics.RecordsLoaded.Add(float64(len(s.quakes)))
		opts.Metrics.PlaceKeys.Set(float64(s.index.Len()))
		opts.Metrics.LoadDuration.Observe(elapsed.Seconds())
	}
	logger.Info("quake catalog loaded",
		"source", source,
		"records", len(s.quakes),
		"places", s.index.Len(),
		"skipped", s.skipped,
		"duration", elapsed,
	)

	return s, nil
}

// readLine returns the next line without its "\n" or "\r\n" terminator, or
// io.EOF when r is exhausted. A line longer than maxLineBytes is consumed in
// full without being buffered and reported with tooLong set.
func readLine(r *bufio.Reader) (line string, tooLong bool, err error) {
	var (
		buf  []byte
		read int
	)
	for {
		chunk, err := r.ReadSlice('\n')
		read += len(chunk)
		if !tooLong {
			buf = append(buf, chunk...)
			// Allow room for the terminator before giving up on the line.
			if len(buf) > maxLineBytes+2 {
				tooLong, buf = true, nil
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) {
			if read == 0 {
				return "", false, io.EOF
			}
		} else if err != nil {
			return "", false, err
		}
		break
	}
	if tooLong {
		return "", true, nil
	}

	buf = bytes.TrimSuffix(buf, []byte("\n"))
	buf = bytes.TrimSuffix(buf, []byte("\r"))
	if len(buf) > maxLineBytes {
		return "", true, nil
	}
	return string(buf), false, nil
}

// Count returns the number of records in load order.
func (s *Store) Count() int {
	return len(s.quakes)
}

// ByIndex returns the i-th record in file order.
func (s *Store) ByIndex(i int) (domain.Earthquake, error) {
	if i < 0 || i >= len(s.quakes) {
		return domain.Earthquake{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(s.quakes))
	}
	return s.quakes[i], nil
}

// ByPlace returns every record filed under the exact place name. ok is false
// when no such place exists, which is distinct from a found place.
func (s *Store) ByPlace(name string) (quakes []domain.Earthquake, ok bool) {
	refs, ok := s.index.Lookup(name)
	if !ok {
		return nil, false
	}
	quakes = make([]domain.Earthquake, len(refs))
	for i, ref := range refs {
		quakes[i] = s.quakes[ref]
	}
	return quakes, true
}

// All returns a copy of every record in load order.
func (s *Store) All() []domain.Earthquake {
	return slices.Clone(s.quakes)
}

// Places returns every indexed place name in lexical order.
func (s *Store) Places() []string {
	return s.index.Keys()
}

// Markers projects every record onto a width x height viewport. Records filed
// under the highlight place are flagged; an empty highlight flags nothing.
func (s *Store) Markers(width, height float64, highlight string) []domain.Marker {
	flagged := make(map[int]bool)
	if highlight != "" {
		refs, _ := s.index.Lookup(highlight)
		for _, ref := range refs {
			flagged[ref] = true
		}
	}

	markers := make([]domain.Marker, len(s.quakes))
	for i, q := range s.quakes {
		markers[i] = domain.NewMarker(q, i, width, height)
		markers[i].Highlighted = flagged[i]
	}
	return markers
}

// HitTest returns the topmost record whose marker contains the point (x, y).
// Later records are drawn over earlier ones, so the scan runs backwards.
func (s *Store) HitTest(x, y, width, height float64) (domain.Earthquake, int, bool) {
	for i := len(s.quakes) - 1; i >= 0; i-- {
		if domain.NewMarker(s.quakes[i], i, width, height).Contains(x, y) {
			return s.quakes[i], i, true
		}
	}
	return domain.Earthquake{}, -1, false
}

// Source returns the path or name the catalog was loaded from.
func (s *Store) Source() string { return s.source }

// LoadedAt returns when loading finished.
func (s *Store) LoadedAt() time.Time { return s.loadedAt }

// Skipped returns the number of malformed lines skipped in lenient mode.
func (s *Store) Skipped() int { return s.skipped }

// CheckReadiness reports an error while the catalog holds no records.
func (s *Store) CheckReadiness(_ context.Context) error {
	if len(s.quakes) == 0 {
		return fmt.Errorf("quake catalog %s is empty", s.source)
	}
	return nil
}
