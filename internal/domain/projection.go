package domain

import "math"

// BaseDiameter is the marker diameter, in pixels, of a magnitude 1 event.
const BaseDiameter = 1.0

// Project maps a coordinate onto a width x height viewport using a linear
// (equirectangular) mapping with the origin at the viewport center. The map
// image behind the markers must use the same mapping. Out-of-range
// coordinates are not clamped and land outside the viewport.
func Project(lat, lon, width, height float64) (x, y float64) {
	screenLat := lat * height / 180
	screenLong := lon * width / 360
	return width/2 + screenLong, height/2 - screenLat
}

// Diameter scales a marker linearly with magnitude. There is no upper bound.
func Diameter(magnitude float64) float64 {
	return BaseDiameter * magnitude
}

// Marker is a drawable representation of a record. X and Y are the top-left
// corner of the marker's bounding box, which is the projected coordinate.
type Marker struct {
	Ref         int     `json:"index"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Diameter    float64 `json:"diameter"`
	Highlighted bool    `json:"highlighted"`
}

// NewMarker projects e onto the viewport. ref is the record's position in
// load order.
func NewMarker(e Earthquake, ref int, width, height float64) Marker {
	x, y := Project(e.Latitude(), e.Longitude(), width, height)
	return Marker{
		Ref:      ref,
		X:        x,
		Y:        y,
		Diameter: Diameter(e.Magnitude()),
	}
}

// Finite reports whether every coordinate of the marker is a finite number.
// Extreme inputs can overflow the projection to infinity.
func (m Marker) Finite() bool {
	for _, v := range [...]float64{m.X, m.Y, m.Diameter} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Contains reports whether the point lies within the ellipse inscribed in the
// marker's bounding box. Markers with a non-positive diameter contain nothing.
func (m Marker) Contains(px, py float64) bool {
	if m.Diameter <= 0 {
		return false
	}
	r := m.Diameter / 2
	dx := (px - (m.X + r)) / r
	dy := (py - (m.Y + r)) / r
	return dx*dx+dy*dy <= 1
}
