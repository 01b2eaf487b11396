package transform

import (
	"strings"

	"thibou/internal/catalog"
	"thibou/internal/nookipedia"
)

// BuildAvailability converts per-month time text for both hemispheres into
// the canonical availability table. Months whose value is empty or "NA" are
// omitted, as are months the policy rejects.
func BuildAvailability(north, south nookipedia.RawHemisphere, policy Policy) catalog.Availability {
	availability := catalog.NewAvailability()
	fillHemisphere(availability.North, north.TimesByMonth, policy)
	fillHemisphere(availability.South, south.TimesByMonth, policy)
	return availability
}

func fillHemisphere(dst map[string]catalog.TimeRange, times map[string]string, policy Policy) {
	for month, text := range times {
		if unavailable(text) {
			continue
		}
		if window, ok := ParseTimeRange(text, policy); ok {
			dst[month] = window
		}
	}
}

func unavailable(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" || strings.EqualFold(trimmed, "NA")
}
