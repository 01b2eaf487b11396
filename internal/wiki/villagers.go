package wiki

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"thibou/internal/catalog"
	"thibou/internal/logging"
	"thibou/internal/services"
)

// Villager pages.
const (
	VillagerNamesPath  = "/wiki/List_of_villager_names_in_other_languages"
	VillagerHousesPath = "/wiki/Villager_house/New_Horizons"
)

// villagerColumns is the column order of the villager names table.
var villagerColumns = []string{
	catalog.LangEN, catalog.LangJP, catalog.LangES, catalog.LangFR, catalog.LangDE,
	catalog.LangIT, catalog.LangKO, catalog.LangZH, catalog.LangNL, catalog.LangRU,
}

var (
	simplifiedChinese = regexp.MustCompile(`Simplified:\s*([^\n\r]+?)(?:\s*Traditional:|$)`)
	hanCharacters     = regexp.MustCompile(`\p{Han}`)
	houseTableStyle   = regexp.MustCompile(`border-collapse:\s*collapse.*background:\s*#fff`)
)

// VillagerNames reads the villager names table and returns localized names
// keyed by English name. Only rows wanted accepts and rows carrying at least
// one translation are returned.
func (c *Client) VillagerNames(ctx context.Context, wanted func(name string) bool) (map[string]catalog.Names, error) {
	doc, err := c.Document(ctx, VillagerNamesPath)
	if err != nil {
		return nil, err
	}
	table := doc.Find("table.styled.color-villager").First()
	if table.Length() == 0 {
		return nil, services.Wrap(services.ErrStructure, component, "villager names", "names table not found", nil)
	}

	result := map[string]catalog.Names{}
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < len(villagerColumns) {
			return
		}
		names := villagerRow(cells)
		english := names.English()
		if english == "" || (wanted != nil && !wanted(english)) || !names.HasTranslation() {
			return
		}
		result[english] = names
	})
	c.logger.Info("villager names parsed", logging.Int("villagers", len(result)))
	return result, nil
}

func villagerRow(cells *goquery.Selection) catalog.Names {
	names := catalog.Names{}
	englishCell := cells.Eq(0)
	english := collapse(englishCell.Find("a").First().Text())
	if english == "" {
		english = collapse(strings.ReplaceAll(englishCell.Text(), "*", ""))
	}
	if english == "" || english == notAvailable {
		return names
	}
	names[catalog.LangEN] = english

	for i, lang := range villagerColumns[1:] {
		cell := cells.Eq(i + 1)
		var text string
		if lang == catalog.LangZH {
			text = SimplifiedChinese(cell.Text())
		} else {
			text = usable(cell.Text())
		}
		if text != "" {
			names[lang] = text
		}
	}
	return names
}

// SimplifiedChinese extracts the simplified spelling from a cell that may
// list both "Simplified:" and "Traditional:" variants. Cells without markers
// yield their first line containing Han characters.
func SimplifiedChinese(text string) string {
	if usable(text) == "" {
		return ""
	}
	if match := simplifiedChinese.FindStringSubmatch(text); match != nil {
		return usable(match[1])
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Traditional:") || strings.HasPrefix(line, "Simplified:") {
			continue
		}
		if hanCharacters.MatchString(line) {
			return usable(line)
		}
	}
	return ""
}

// HousePart is one exterior part of a villager house.
type HousePart struct {
	Name     string
	ImageURL string
}

// HouseInfo is the scraped house data of one villager.
type HouseInfo struct {
	Name        string
	IconURL     string
	InteriorURL string
	ExteriorURL string
	// Parts is keyed by lowercase part type (roof, siding, door, shape, ...).
	Parts map[string]HousePart
}

// Summary returns the house-info object written to the villager record.
func (h HouseInfo) Summary() catalog.House {
	return catalog.House{
		Roof:   h.Parts["roof"].Name,
		Siding: h.Parts["siding"].Name,
		Door:   h.Parts["door"].Name,
	}
}

// Houses reads the villager house table and returns house data keyed by
// villager name for every row wanted accepts.
func (c *Client) Houses(ctx context.Context, wanted func(name string) bool) (map[string]HouseInfo, error) {
	doc, err := c.Document(ctx, VillagerHousesPath)
	if err != nil {
		return nil, err
	}
	var table *goquery.Selection
	doc.Find("table[style]").EachWithBreak(func(_ int, candidate *goquery.Selection) bool {
		if houseTableStyle.MatchString(candidate.AttrOr("style", "")) {
			table = candidate
			return false
		}
		return true
	})
	if table == nil {
		return nil, services.Wrap(services.ErrStructure, component, "houses", "house table not found", nil)
	}

	result := map[string]HouseInfo{}
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < 4 {
			return
		}
		info, ok := c.houseRow(cells)
		if !ok || (wanted != nil && !wanted(info.Name)) {
			return
		}
		result[info.Name] = info
	})
	c.logger.Info("villager houses parsed", logging.Int("villagers", len(result)))
	return result, nil
}

func (c *Client) houseRow(cells *goquery.Selection) (HouseInfo, bool) {
	nameCell := cells.Eq(0)
	name := strings.TrimSpace(nameCell.Find("a[title]").First().AttrOr("title", ""))
	if name == "" {
		return HouseInfo{}, false
	}
	info := HouseInfo{
		Name:        name,
		IconURL:     c.ImageURL(nameCell.Find("img").First().AttrOr("src", "")),
		InteriorURL: c.ImageURL(cells.Eq(1).Find("img").First().AttrOr("src", "")),
		ExteriorURL: c.ImageURL(cells.Eq(2).Find("img").First().AttrOr("src", "")),
		Parts:       map[string]HousePart{},
	}
	cells.Eq(3).Find("table").First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		partCells := row.ChildrenFiltered("td")
		if partCells.Length() < 2 {
			return
		}
		partType := strings.ToLower(strings.TrimRight(collapse(partCells.Eq(0).Text()), ":"))
		if partType == "" {
			return
		}
		info.Parts[partType] = HousePart{
			Name:     collapse(partCells.Eq(1).Text()),
			ImageURL: c.ImageURL(partCells.Eq(1).Find("img").First().AttrOr("src", "")),
		}
	})
	return info, true
}
