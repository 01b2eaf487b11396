package catalog

// TimeRange is a daily availability window in 24h hours. End may exceed 23
// when the window wraps past midnight.
type TimeRange struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// FullDay is the window used for "All day" availability.
var FullDay = TimeRange{Begin: 0, End: 23}

// Hemisphere names used as availability keys.
const (
	North = "north"
	South = "south"
)

// Availability maps month labels ("1".."12") to a TimeRange per hemisphere.
// Both maps are always non-nil so they serialize as {} rather than null.
type Availability struct {
	North map[string]TimeRange `json:"north"`
	South map[string]TimeRange `json:"south"`
}

// NewAvailability returns an Availability with empty, non-nil hemisphere maps.
func NewAvailability() Availability {
	return Availability{
		North: map[string]TimeRange{},
		South: map[string]TimeRange{},
	}
}
