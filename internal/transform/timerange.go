package transform

import (
	"strconv"
	"strings"

	"thibou/internal/catalog"
)

// Policy controls how a time range is resolved when the text cannot be
// parsed and when the window crosses midnight.
type Policy struct {
	// FullDayOnFailure substitutes {0,23} for unparseable text instead of
	// omitting the entry.
	FullDayOnFailure bool
	// WrapOvernight adds 24 to the end hour when it is earlier than the begin.
	WrapOvernight bool
}

var (
	// BugPolicy keeps every month: unparseable text becomes a full day and
	// overnight windows are stored as-is.
	BugPolicy = Policy{FullDayOnFailure: true}
	// FishPolicy drops unparseable months and wraps overnight windows.
	FishPolicy = Policy{WrapOvernight: true}
)

var dashes = []string{"–", "—", "-"}

// ParseTimeRange parses text such as "4 AM – 9 PM" or "All day" into a
// TimeRange. The boolean is false when the entry must be omitted.
func ParseTimeRange(text string, policy Policy) (catalog.TimeRange, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.EqualFold(trimmed, "all day") {
		return catalog.FullDay, true
	}

	begin, end, ok := splitRange(trimmed)
	if !ok {
		return failure(policy)
	}
	beginHour, ok := parseHour(begin)
	if !ok {
		return failure(policy)
	}
	endHour, ok := parseHour(end)
	if !ok {
		return failure(policy)
	}
	if policy.WrapOvernight && endHour < beginHour {
		endHour += 24
	}
	return catalog.TimeRange{Begin: beginHour, End: endHour}, true
}

func failure(policy Policy) (catalog.TimeRange, bool) {
	if policy.FullDayOnFailure {
		return catalog.FullDay, true
	}
	return catalog.TimeRange{}, false
}

// splitRange splits on the first dash variant present in text and requires
// exactly two sides.
func splitRange(text string) (string, string, bool) {
	for _, dash := range dashes {
		if !strings.Contains(text, dash) {
			continue
		}
		parts := strings.Split(text, dash)
		if len(parts) != 2 {
			return "", "", false
		}
		return parts[0], parts[1], true
	}
	return "", "", false
}

// parseHour reads a leading integer and an optional AM/PM marker.
func parseHour(side string) (int, bool) {
	side = strings.ToUpper(strings.TrimSpace(side))
	digits := 0
	for digits < len(side) && side[digits] >= '0' && side[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	hour, err := strconv.Atoi(side[:digits])
	if err != nil {
		return 0, false
	}
	rest := side[digits:]

	switch {
	case strings.Contains(rest, "PM"):
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour != 12 {
			hour += 12
		}
	case strings.Contains(rest, "AM"):
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			hour = 0
		}
	default:
		if hour > 23 {
			return 0, false
		}
	}
	return hour, true
}
