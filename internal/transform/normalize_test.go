package transform_test

import (
	"testing"

	"thibou/internal/transform"
)

func TestNormalizeBugLocation(t *testing.T) {
	tests := map[string]string{
		"Flying near light sources":               "flying",
		"Shaking trees (hardwood and cedar)":      "trees",
		"Pushing snowballs":                       "ground",
		"On white flowers":                        "flowers",
		"On rivers and ponds":                     "water",
		"From hitting rocks":                      "rocks",
		"On tree stumps":                          "stumps",
		"On villagers":                            "villagers",
		"On/near spoiled turnips/candy/lollipops": "special",
		"Inside a volcano":                        "ground",
		"":                                        "ground",
	}
	for input, want := range tests {
		if got := transform.NormalizeBugLocation(input); got != want {
			t.Fatalf("unexpected location for %q: got %q want %q", input, got, want)
		}
	}
}

func TestNormalizeFishLocation(t *testing.T) {
	tests := map[string]string{
		"River (clifftop)": "river",
		"River (mouth)":    "river",
		"Sea (raining)":    "sea",
		"Pond":             "pond",
		"Pier":             "pier",
		"Lake":             "river",
	}
	for input, want := range tests {
		if got := transform.NormalizeFishLocation(input); got != want {
			t.Fatalf("unexpected location for %q: got %q want %q", input, got, want)
		}
	}
}

func TestNormalizeWeather(t *testing.T) {
	tests := map[string]string{
		"Any weather":     "any",
		"Any except rain": "any",
		"Rain only":       "rain",
		"Snow":            "any",
	}
	for input, want := range tests {
		if got := transform.NormalizeWeather(input); got != want {
			t.Fatalf("unexpected weather for %q: got %q want %q", input, got, want)
		}
	}
}

func TestNormalizeRarity(t *testing.T) {
	tests := map[string]string{
		"":           "common",
		"   ":        "common",
		"Common":     "common",
		"Ultra rare": "ultra_rare",
		"Very Rare":  "very_rare",
	}
	for input, want := range tests {
		if got := transform.NormalizeRarity(input); got != want {
			t.Fatalf("unexpected rarity for %q: got %q want %q", input, got, want)
		}
	}
}
