package transform

import "strings"

const (
	defaultBugLocation  = "ground"
	defaultFishLocation = "river"
	defaultWeather      = "any"
	defaultRarity       = "common"
)

var bugLocations = map[string]string{
	"Flying":                                      "flying",
	"Flying near flowers":                         "flying",
	"Flying near blue, purple, and black flowers": "flying",
	"Flying near light sources":                   "flying",
	"Flying near water":                           "flying",
	"Flying near trash or rotten turnips":         "flying",

	"On trees (any kind)":                             "trees",
	"On trees (hardwood and cedar)":                   "trees",
	"On palm trees":                                   "trees",
	"Shaking trees":                                   "trees",
	"Shaking trees (hardwood and cedar)":              "trees",
	"Shaking non-fruit hardwood trees or cedar trees": "trees",
	"Disguised under trees":                           "trees",

	"On the ground":     "ground",
	"Underground":       "ground",
	"Pushing snowballs": "ground",

	"On flowers":       "flowers",
	"On white flowers": "flowers",

	"On rivers and ponds": "water",

	"On beach rocks":      "rocks",
	"On rocks and bushes": "rocks",
	"From hitting rocks":  "rocks",

	"On tree stumps": "stumps",

	"On villagers": "villagers",

	"On/near spoiled turnips/candy/lollipops": "special",
	"Disguised on shoreline":                  "special",
}

var fishLocations = map[string]string{
	"River":            "river",
	"Pond":             "pond",
	"Sea":              "sea",
	"Pier":             "pier",
	"River (clifftop)": "river",
	"River (mouth)":    "river",
	"Sea (raining)":    "sea",
}

var weatherConditions = map[string]string{
	"Any weather":     "any",
	"Any except rain": "any",
	"Rain only":       "rain",
}

// NormalizeBugLocation maps a source location to a bug location category.
// Unknown locations fall back to "ground".
func NormalizeBugLocation(location string) string {
	return lookup(bugLocations, location, defaultBugLocation)
}

// NormalizeFishLocation maps a source location to a fish location category.
// Unknown locations fall back to "river".
func NormalizeFishLocation(location string) string {
	return lookup(fishLocations, location, defaultFishLocation)
}

// NormalizeWeather maps a source weather condition to "any" or "rain".
func NormalizeWeather(weather string) string {
	return lookup(weatherConditions, weather, defaultWeather)
}

// NormalizeRarity lowercases the rarity and joins words with underscores.
// Empty input yields "common".
func NormalizeRarity(rarity string) string {
	trimmed := strings.TrimSpace(rarity)
	if trimmed == "" {
		return defaultRarity
	}
	return strings.Join(strings.Fields(strings.ToLower(trimmed)), "_")
}

func lookup(table map[string]string, key, fallback string) string {
	if value, ok := table[strings.TrimSpace(key)]; ok {
		return value
	}
	return fallback
}
