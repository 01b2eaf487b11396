package nookipedia

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Int decodes an integer that the API may send as a JSON number or a quoted
// string ("21"). Empty strings and null decode to 0.
type Int int

func (n *Int) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			*n = 0
			return nil
		}
		value, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("decode integer %q: %w", text, err)
		}
		*n = Int(value)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	if value, err := number.Int64(); err == nil {
		*n = Int(value)
		return nil
	}
	value, err := number.Float64()
	if err != nil {
		return fmt.Errorf("decode integer %s: %w", number, err)
	}
	*n = Int(value)
	return nil
}

// RawHemisphere is the per-hemisphere availability block of fish and bugs.
// TimesByMonth maps month labels ("1".."12") to free text such as "4 AM – 9 PM",
// "All day" or "NA".
type RawHemisphere struct {
	Months       string            `json:"months"`
	TimesByMonth map[string]string `json:"times_by_month"`
}

// RawVillager is a villager as returned by /villagers.
type RawVillager struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	URL           string   `json:"url"`
	ImageURL      string   `json:"image_url"`
	TitleColor    string   `json:"title_color"`
	TextColor     string   `json:"text_color"`
	Species       string   `json:"species"`
	Personality   string   `json:"personality"`
	Gender        string   `json:"gender"`
	BirthdayMonth string   `json:"birthday_month"`
	BirthdayDay   Int      `json:"birthday_day"`
	Sign          string   `json:"sign"`
	Quote         string   `json:"quote"`
	Islander      bool     `json:"islander"`
	Debut         string   `json:"debut"`
	Appearances   []string `json:"appearances"`
}

// RawFish is a fish as returned by /nh/fish.
type RawFish struct {
	Name      string        `json:"name"`
	Number    Int           `json:"number"`
	URL       string        `json:"url"`
	ImageURL  string        `json:"image_url"`
	RenderURL string        `json:"render_url"`
	Location  string        `json:"location"`
	Rarity    string        `json:"rarity"`
	SellNook  Int           `json:"sell_nook"`
	SellCJ    Int           `json:"sell_cj"`
	North     RawHemisphere `json:"north"`
	South     RawHemisphere `json:"south"`
}

// RawBug is a bug as returned by /nh/bugs.
type RawBug struct {
	Name      string        `json:"name"`
	Number    Int           `json:"number"`
	URL       string        `json:"url"`
	ImageURL  string        `json:"image_url"`
	RenderURL string        `json:"render_url"`
	Location  string        `json:"location"`
	Weather   string        `json:"weather"`
	Rarity    string        `json:"rarity"`
	SellNook  Int           `json:"sell_nook"`
	SellFlick Int           `json:"sell_flick"`
	North     RawHemisphere `json:"north"`
	South     RawHemisphere `json:"south"`
}

// RawFossilPart is one standalone or grouped fossil piece.
type RawFossilPart struct {
	Name     string   `json:"name"`
	URL      string   `json:"url"`
	ImageURL string   `json:"image_url"`
	Sell     Int      `json:"sell"`
	Width    *float64 `json:"width"`
	Length   *float64 `json:"length"`
}

// RawFossil is a fossil group as returned by /nh/fossils/all.
type RawFossil struct {
	Name    string          `json:"name"`
	URL     string          `json:"url"`
	Room    *int            `json:"room"`
	Fossils []RawFossilPart `json:"fossils"`
}
