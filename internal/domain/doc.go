// Package domain models an earthquake catalog loaded from a flat text file.
//
// # Data Format
//
// One record per line, no header, fields separated by "|":
//
//	<latitude>|<longitude>|<depth>|<magnitude>|<description>
//	35.6895|139.6917|10|6.1|Tokyo, Japan
//
// Latitude and longitude are signed decimal degrees. Depth is kilometers below
// sea level. Magnitude is moment magnitude (Mw). Numeric fields may carry
// surrounding whitespace. A "|" inside a field cannot be escaped.
//
// # Place Descriptors
//
// The last field of a line is its place descriptor. Descriptors of the form
// "<city>, <country>" are split on the first ", " and additionally filed under
// one of the two parts; see [LocationIndex.Add] and [CityIndexMayBeStale].
//
// # Projection
//
// Markers use a linear latitude/longitude to pixel mapping centered on the
// viewport ([Project]), with a diameter proportional to magnitude ([Diameter]).
package domain
