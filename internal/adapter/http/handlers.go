package http

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/store"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Pagination contains offset-based pagination info.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

type quakeList struct {
	Data       []domain.Earthquake `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

type placeResult struct {
	Place string              `json:"place"`
	Count int                 `json:"count"`
	Data  []domain.Earthquake `json:"data"`
}

type placeMiss struct {
	APIError
	Suggestion *domain.GeocodingResult `json:"suggestion,omitempty"`
}

type markerSet struct {
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Highlight string          `json:"highlight,omitempty"`
	Data      []domain.Marker `json:"data"`
}

type hitResult struct {
	Index int               `json:"index"`
	Label string            `json:"label"`
	Quake domain.Earthquake `json:"quake"`
}

func (s *Server) handleListQuakes(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		errBadRequest(w, "offset must be a non-negative integer")
		return
	}
	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil || limit <= 0 {
		errBadRequest(w, "limit must be a positive integer")
		return
	}
	limit = min(limit, maxLimit)

	total := s.deps.Catalog.Count()
	end := min(offset+limit, total)
	items := make([]domain.Earthquake, 0, max(end-offset, 0))
	for i := offset; i < end; i++ {
		q, err := s.deps.Catalog.ByIndex(i)
		if err != nil {
			break
		}
		items = append(items, q)
	}

	writeJSON(w, http.StatusOK, quakeList{
		Data:       items,
		Pagination: Pagination{Offset: offset, Limit: limit, Total: total},
	})
}

func (s *Server) handleGetQuake(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		errBadRequest(w, "index must be an integer")
		return
	}

	q, err := s.deps.Catalog.ByIndex(i)
	if errors.Is(err, store.ErrIndexOutOfRange) {
		errNotFound(w, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("quake lookup failed", "index", i, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "quake lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleListPlaces(w http.ResponseWriter, _ *http.Request) {
	places := s.deps.Catalog.Places()
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  places,
		"total": len(places),
	})
}

func (s *Server) handleGetPlace(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	quakes, ok := s.deps.Catalog.ByPlace(name)
	if !ok {
		s.countLookup("miss")
		miss := placeMiss{
			APIError: APIError{
				Status:  http.StatusNotFound,
				Code:    "not_found",
				Message: fmt.Sprintf("no earthquakes recorded for %q", name),
			},
			Suggestion: domain.SuggestPlace(r.Context(), name, s.deps.Geocoder, s.logger),
		}
		writeJSON(w, http.StatusNotFound, miss)
		return
	}

	s.countLookup("hit")
	writeJSON(w, http.StatusOK, placeResult{Place: name, Count: len(quakes), Data: quakes})
}

func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	width, height, ok := s.viewport(w, r)
	if !ok {
		return
	}
	highlight := r.URL.Query().Get("highlight")

	markers := s.deps.Catalog.Markers(width, height, highlight)
	for _, m := range markers {
		if !m.Finite() {
			s.logger.Error("marker projection overflowed", "index", m.Ref, "width", width, "height", height)
			writeError(w, http.StatusInternalServerError, "internal_error", "marker projection is not finite")
			return
		}
	}

	writeJSON(w, http.StatusOK, markerSet{
		Width:     width,
		Height:    height,
		Highlight: highlight,
		Data:      markers,
	})
}

func (s *Server) handleHitTest(w http.ResponseWriter, r *http.Request) {
	width, height, ok := s.viewport(w, r)
	if !ok {
		return
	}
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil || !isFinite(x) || !isFinite(y) {
		errBadRequest(w, "x and y are required finite numbers")
		return
	}

	q, i, found := s.deps.Catalog.HitTest(x, y, width, height)
	if !found {
		errNotFound(w, "no earthquake at point")
		return
	}
	writeJSON(w, http.StatusOK, hitResult{Index: i, Label: q.Description(), Quake: q})
}

// viewport reads width/height query parameters, falling back to the configured
// map size. It writes a 400 and returns false on invalid input.
func (s *Server) viewport(w http.ResponseWriter, r *http.Request) (width, height float64, ok bool) {
	width, errW := queryFloat(r, "width", s.deps.MapWidth)
	height, errH := queryFloat(r, "height", s.deps.MapHeight)
	if errW != nil || errH != nil || !isFinite(width) || !isFinite(height) || width <= 0 || height <= 0 {
		errBadRequest(w, "width and height must be positive finite numbers")
		return 0, 0, false
	}
	return width, height, true
}

func (s *Server) countLookup(result string) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.PlaceLookups.WithLabelValues(result).Inc()
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func queryFloat(r *http.Request, key string, def float64) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}
