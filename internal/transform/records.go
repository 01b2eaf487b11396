package transform

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"thibou/internal/catalog"
	"thibou/internal/nookipedia"
)

const (
	defaultTitleColor = "333333"
	defaultTextColor  = "000000"
	defaultFossilRoom = 1
	defaultPartSize   = 1.0
	unknownMonth      = "01"
)

var months = map[string]string{
	"January":   "01",
	"February":  "02",
	"March":     "03",
	"April":     "04",
	"May":       "05",
	"June":      "06",
	"July":      "07",
	"August":    "08",
	"September": "09",
	"October":   "10",
	"November":  "11",
	"December":  "12",
}

// Bug maps a source bug to its canonical record.
func Bug(raw nookipedia.RawBug) catalog.Bug {
	return catalog.Bug{
		Name:     catalog.EmptySkeleton(raw.Name),
		Location: NormalizeBugLocation(raw.Location),
		Weather:  NormalizeWeather(raw.Weather),
		Price: catalog.BugPrice{
			Shop:  int(raw.SellNook),
			Flick: int(raw.SellFlick),
		},
		Rarity:       NormalizeRarity(raw.Rarity),
		Availability: BuildAvailability(raw.North, raw.South, BugPolicy),
	}
}

// Fish maps a source fish to its canonical record.
func Fish(raw nookipedia.RawFish) catalog.Fish {
	return catalog.Fish{
		Name:     catalog.EnglishOnly(raw.Name),
		Location: NormalizeFishLocation(raw.Location),
		Price: catalog.FishPrice{
			CJ:   int(raw.SellCJ),
			Shop: int(raw.SellNook),
		},
		Availability: BuildAvailability(raw.North, raw.South, FishPolicy),
		Rarity:       NormalizeRarity(raw.Rarity),
	}
}

// Villager maps a source villager to its canonical record.
func Villager(raw nookipedia.RawVillager) catalog.Villager {
	lower := cases.Lower(language.Und)
	appearances := raw.Appearances
	if appearances == nil {
		appearances = []string{}
	}
	return catalog.Villager{
		Name:         catalog.EmptySkeleton(raw.Name),
		TitleColor:   orDefault(raw.TitleColor, defaultTitleColor),
		TextColor:    orDefault(raw.TextColor, defaultTextColor),
		ID:           raw.ID,
		Species:      lower.String(raw.Species),
		Personality:  lower.String(raw.Personality),
		Gender:       lower.String(raw.Gender),
		BirthdayDate: BirthdayDate(raw.BirthdayMonth, int(raw.BirthdayDay)),
		Sign:         lower.String(raw.Sign),
		Quote:        catalog.EnglishOnly(raw.Quote),
		Islander:     raw.Islander,
		Debut:        raw.Debut,
		Appearances:  appearances,
	}
}

// BirthdayDate formats a birthday as "DD-MM". Unknown month names map to "01".
func BirthdayDate(month string, day int) string {
	monthNumber, ok := months[strings.TrimSpace(month)]
	if !ok {
		monthNumber = unknownMonth
	}
	return fmt.Sprintf("%02d-%s", day, monthNumber)
}

// Fossil maps a source fossil group to its canonical record.
func Fossil(raw nookipedia.RawFossil) catalog.Fossil {
	parts := make([]catalog.FossilPart, 0, len(raw.Fossils))
	total := 0
	for _, part := range raw.Fossils {
		sell := int(part.Sell)
		parts = append(parts, catalog.FossilPart{
			Name:     PartSlot(part.Name),
			FullName: PartDisplayName(part.Name),
			Sell:     sell,
			Width:    floatOrDefault(part.Width, defaultPartSize),
			Length:   floatOrDefault(part.Length, defaultPartSize),
		})
		total += sell
	}
	room := defaultFossilRoom
	if raw.Room != nil {
		room = *raw.Room
	}
	return catalog.Fossil{
		Name:       catalog.EnglishOnly(raw.Name),
		Room:       room,
		Parts:      parts,
		TotalPrice: total,
		PartsCount: len(parts),
	}
}

// PartSlot lowercases a fossil part name and replaces spaces with
// underscores. The result doubles as the part's image slot.
func PartSlot(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// PartDisplayName capitalizes every word of a fossil part name.
func PartDisplayName(name string) string {
	return cases.Title(language.Und).String(strings.Join(strings.Fields(name), " "))
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func floatOrDefault(value *float64, fallback float64) float64 {
	if value == nil {
		return fallback
	}
	return *value
}
