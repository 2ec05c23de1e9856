package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Earthquake is a single catalog entry. It is immutable once constructed;
// fields are only reachable through accessors.
type Earthquake struct {
	latitude    float64
	longitude   float64
	magnitude   float64
	depth       float64
	description string
}

// Option sets a secondary attribute during construction.
type Option func(*Earthquake)

// WithDepth sets the depth in kilometers below sea level.
func WithDepth(km float64) Option {
	return func(e *Earthquake) { e.depth = km }
}

// WithDescription sets the free-text location descriptor.
func WithDescription(s string) Option {
	return func(e *Earthquake) { e.description = s }
}

// NewEarthquake builds a fully populated record. Depth defaults to 0 and the
// description to "" when the corresponding option is omitted.
func NewEarthquake(lat, lon, magnitude float64, opts ...Option) Earthquake {
	e := Earthquake{latitude: lat, longitude: lon, magnitude: magnitude}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Latitude returns degrees north of the equator.
func (e Earthquake) Latitude() float64 { return e.latitude }

// Longitude returns degrees east of the prime meridian.
func (e Earthquake) Longitude() float64 { return e.longitude }

// Magnitude returns the event magnitude.
func (e Earthquake) Magnitude() float64 { return e.magnitude }

// Depth returns kilometers below sea level.
func (e Earthquake) Depth() float64 { return e.depth }

// Description returns the free-text location descriptor.
func (e Earthquake) Description() string { return e.description }

// ID returns a deterministic identifier derived from the record's fields at
// full precision. Identical records produce identical IDs, so downstream
// consumers can upsert the catalog idempotently.
func (e Earthquake) ID() string {
	input := fmt.Sprintf("%g|%g|%g|%g|%s", e.latitude, e.longitude, e.depth, e.magnitude, e.description)
	hash := sha256.Sum256([]byte(input))
	return "quake-" + hex.EncodeToString(hash[:8])
}

// quakeJSON is the wire form shared by the HTTP API and the Kafka publisher.
type quakeJSON struct {
	ID          string  `json:"id"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Depth       float64 `json:"depth"`
	Magnitude   float64 `json:"magnitude"`
	Description string  `json:"description"`
}

// MarshalJSON encodes the wire form, including the derived id.
func (e Earthquake) MarshalJSON() ([]byte, error) {
	return json.Marshal(quakeJSON{
		ID:          e.ID(),
		Latitude:    e.latitude,
		Longitude:   e.longitude,
		Depth:       e.depth,
		Magnitude:   e.magnitude,
		Description: e.description,
	})
}

// UnmarshalJSON decodes the wire form. The id field is ignored because it is
// always recomputed from the other fields.
func (e *Earthquake) UnmarshalJSON(data []byte) error {
	var q quakeJSON
	if err := json.Unmarshal(data, &q); err != nil {
		return fmt.Errorf("decode earthquake: %w", err)
	}
	*e = NewEarthquake(q.Latitude, q.Longitude, q.Magnitude,
		WithDepth(q.Depth),
		WithDescription(q.Description),
	)
	return nil
}
