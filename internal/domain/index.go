package domain

import (
	"slices"
	"strings"
)

// PlaceSeparator splits a "city, country" descriptor.
const PlaceSeparator = ", "

// CityIndexMayBeStale records a known property of LocationIndex: once a
// country key exists, later "city, country" lines are filed under the country
// only, so a lookup by city can miss records added after that point.
const CityIndexMayBeStale = true

// LocationIndex maps place names to positions of records in load order.
// Positions are references into the owner's record slice; the index never
// holds copies of records.
type LocationIndex struct {
	places map[string][]int
}

// NewLocationIndex returns an empty index.
func NewLocationIndex() *LocationIndex {
	return &LocationIndex{places: make(map[string][]int)}
}

// Add files ref under descriptor and, for "city, country" descriptors,
// under exactly one of country or city:
//
//   - country already indexed: append to country, leave city untouched
//   - city already indexed: append to city
//   - neither: create both with ref as the sole entry
//
// A bare descriptor is its own place key and is filed once.
func (ix *LocationIndex) Add(descriptor string, ref int) {
	ix.places[descriptor] = append(ix.places[descriptor], ref)

	city, country, ok := strings.Cut(descriptor, PlaceSeparator)
	if !ok {
		return
	}

	switch {
	case ix.has(country):
		ix.places[country] = append(ix.places[country], ref)
	case ix.has(city):
		ix.places[city] = append(ix.places[city], ref)
	default:
		ix.places[country] = []int{ref}
		ix.places[city] = []int{ref}
	}
}

// Lookup returns the refs filed under the exact name. ok is false when the
// name is not a key.
func (ix *LocationIndex) Lookup(name string) (refs []int, ok bool) {
	refs, ok = ix.places[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(refs), true
}

// Len returns the number of distinct place keys.
func (ix *LocationIndex) Len() int {
	return len(ix.places)
}

// Keys returns every place key in lexical order.
func (ix *LocationIndex) Keys() []string {
	keys := make([]string, 0, len(ix.places))
	for k := range ix.places {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (ix *LocationIndex) has(name string) bool {
	_, ok := ix.places[name]
	return ok
}
