package domain

import (
	"context"
	"log/slog"
	"strings"
)

// SuggestPlace asks the geocoder where a place that missed the location index
// might be, so a map client can still pan to it. It returns nil when geocoder
// is nil, the query is blank, the lookup fails or the provider has no match.
// Failures are logged and otherwise ignored.
func SuggestPlace(ctx context.Context, query string, geocoder Geocoder, logger *slog.Logger) *GeocodingResult {
	if geocoder == nil {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	result, err := geocoder.ForwardGeocode(ctx, query)
	if err != nil {
		logger.Warn("forward geocoding failed", "query", query, "error", err)
		return nil
	}
	if result.FormattedAddress == "" && result.Lat == 0 && result.Lon == 0 {
		return nil
	}
	return &result
}
