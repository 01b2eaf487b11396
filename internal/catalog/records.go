package catalog

import (
	"bytes"
	"encoding/json"
	"strings"
)

// BugPrice holds the per-channel sell values of a bug.
type BugPrice struct {
	Shop  int `json:"shop"`
	Flick int `json:"flick"`
}

// Bug is the canonical bug record submitted to the content API.
type Bug struct {
	Name         Names        `json:"name"`
	Location     string       `json:"location"`
	Weather      string       `json:"weather"`
	Price        BugPrice     `json:"price"`
	Rarity       string       `json:"rarity"`
	Availability Availability `json:"availability"`
}

// FishPrice holds the per-channel sell values of a fish.
type FishPrice struct {
	CJ   int `json:"cj"`
	Shop int `json:"shop"`
}

// Fish is the canonical fish record submitted to the content API.
type Fish struct {
	Name         Names        `json:"name"`
	Location     string       `json:"location"`
	Price        FishPrice    `json:"price"`
	Availability Availability `json:"availability"`
	Rarity       string       `json:"rarity"`
}

// Villager is the canonical villager record submitted to the content API.
type Villager struct {
	Name         Names    `json:"name"`
	TitleColor   string   `json:"title_color"`
	TextColor    string   `json:"text_color"`
	ID           string   `json:"id"`
	Species      string   `json:"species"`
	Personality  string   `json:"personality"`
	Gender       string   `json:"gender"`
	BirthdayDate string   `json:"birthday_date"`
	Sign         string   `json:"sign"`
	Quote        Names    `json:"quote"`
	Islander     bool     `json:"islander"`
	Debut        string   `json:"debut"`
	Appearances  []string `json:"appearances"`
}

// FossilPart is one piece of a multi-part fossil.
type FossilPart struct {
	Name     string  `json:"name"`
	FullName string  `json:"full_name"`
	Sell     int     `json:"sell"`
	Width    float64 `json:"width"`
	Length   float64 `json:"length"`
}

// Fossil is the canonical fossil record submitted to the content API.
type Fossil struct {
	Name       Names        `json:"name"`
	Room       int          `json:"room"`
	Parts      []FossilPart `json:"parts"`
	TotalPrice int          `json:"total_price"`
	PartsCount int          `json:"parts_count"`
}

// House is the villager house cosmetic summary written during enrichment.
// Only parts with a known name are present.
type House struct {
	Roof   string `json:"roof,omitempty"`
	Siding string `json:"siding,omitempty"`
	Door   string `json:"door,omitempty"`
}

// IsZero reports whether no house part is known.
func (h House) IsZero() bool {
	return h.Roof == "" && h.Siding == "" && h.Door == ""
}

// Unranked is the popularity rank of a villager absent from the rank table.
const Unranked = "unranked"

// RankValue is a popularity rank. The API and the rank file may carry it as
// a JSON string or number; both decode to the same text.
type RankValue string

func (r *RankValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*r = RankValue(strings.TrimSpace(text))
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*r = RankValue(number.String())
	return nil
}

// StoredRecord is the subset of a server-side record enrichment works with.
type StoredRecord struct {
	ID             string    `json:"_id"`
	Name           Names     `json:"name"`
	House          *House    `json:"house,omitempty"`
	PopularityRank RankValue `json:"popularity_rank,omitempty"`
}

// Rank returns the stored popularity rank, defaulting to Unranked.
func (r StoredRecord) Rank() string {
	if r.PopularityRank == "" {
		return Unranked
	}
	return string(r.PopularityRank)
}
