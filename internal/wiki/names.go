package wiki

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"thibou/internal/catalog"
	"thibou/internal/logging"
	"thibou/internal/services"
)

// Listing pages carrying a sortable table of entity links.
const (
	FishListingPath = "/wiki/Fish"
	BugListingPath  = "/wiki/Bug"
)

const notAvailable = "N/A"

// Link is one entry of a listing table.
type Link struct {
	Name string
	URL  string
}

// flagLanguages maps infobox flag classes to language codes.
var flagLanguages = map[string]string{
	"infobox-flag-ja":  catalog.LangJP,
	"infobox-flag-ko":  catalog.LangKO,
	"infobox-flag-it":  catalog.LangIT,
	"infobox-flag-de":  catalog.LangDE,
	"infobox-flag-zh":  catalog.LangZH,
	"infobox-flag-zht": catalog.LangZH,
	"infobox-flag-fr":  catalog.LangFR,
	"infobox-flag-es":  catalog.LangES,
	"infobox-flag-esl": catalog.LangES,
	"infobox-flag-nl":  catalog.LangNL,
	"infobox-flag-ru":  catalog.LangRU,
}

const traditionalChineseFlag = "infobox-flag-zht"

// tableLanguages maps the alt text of language icons in the
// "Names in other languages" table to language codes.
var tableLanguages = map[string]string{
	"japanese":             catalog.LangJP,
	"korean":               catalog.LangKO,
	"chinese (simplified)": catalog.LangZH,
	"russian":              catalog.LangRU,
	"dutch":                catalog.LangNL,
	"german":               catalog.LangDE,
	"spanish":              catalog.LangES,
	"french":               catalog.LangFR,
	"italian":              catalog.LangIT,
}

// SortableTableLinks extracts the first-cell anchor of every row of the first
// sortable table, in page order. A page without the table is a structure
// error.
func (c *Client) SortableTableLinks(doc *goquery.Document) ([]Link, error) {
	table := doc.Find("table.sortable").First()
	if table.Length() == 0 {
		return nil, services.Wrap(services.ErrStructure, component, "listing", "sortable table not found", nil)
	}
	var links []Link
	seen := map[string]struct{}{}
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		anchor := row.ChildrenFiltered("td").First().Find("a[href]").First()
		if anchor.Length() == 0 {
			return
		}
		name := collapse(anchor.Text())
		href, _ := anchor.Attr("href")
		if name == "" || strings.TrimSpace(href) == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		links = append(links, Link{Name: name, URL: c.Resolve(href)})
	})
	return links, nil
}

// DetailNames extracts localized names from an entity page. The infobox flag
// region is read first; pages without it fall back to the "Names in other
// languages" table. Empty and "N/A" values are skipped and English is never
// returned.
func DetailNames(doc *goquery.Document) catalog.Names {
	if names := flagNames(doc); len(names) > 0 {
		return names
	}
	return tableNames(doc)
}

func flagNames(doc *goquery.Document) catalog.Names {
	names := catalog.Names{}
	doc.Find("td#lang1 div[class*='infobox-flag']").Each(func(_ int, flag *goquery.Selection) {
		classes := strings.Fields(flag.AttrOr("class", ""))
		lang := ""
		traditional := false
		for _, class := range classes {
			if code, ok := flagLanguages[class]; ok {
				lang = code
				traditional = class == traditionalChineseFlag
				break
			}
		}
		if lang == "" {
			return
		}
		text := usable(flag.NextAllFiltered("span").First().Text())
		if text == "" {
			return
		}
		if traditional && names[catalog.LangZH] != "" {
			return
		}
		names[lang] = text
	})
	return names
}

func tableNames(doc *goquery.Document) catalog.Names {
	names := catalog.Names{}
	heading := doc.Find("span#Names_in_other_languages").First()
	if heading.Length() == 0 {
		return names
	}
	table := followingTable(heading.Parent())
	if table == nil {
		return names
	}
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < 2 {
			return
		}
		alt, ok := cells.Eq(0).Find("img[alt]").First().Attr("alt")
		if !ok {
			return
		}
		lang, ok := tableLanguages[strings.ToLower(strings.TrimSpace(alt))]
		if !ok {
			return
		}
		if text := usable(cells.Eq(1).Text()); text != "" {
			names[lang] = text
		}
	})
	return names
}

// followingTable returns the first table after start in document order,
// looking at later siblings and their descendants.
func followingTable(start *goquery.Selection) *goquery.Selection {
	var found *goquery.Selection
	start.NextAll().EachWithBreak(func(_ int, sibling *goquery.Selection) bool {
		if goquery.NodeName(sibling) == "table" {
			found = sibling
			return false
		}
		if nested := sibling.Find("table").First(); nested.Length() > 0 {
			found = nested
			return false
		}
		return true
	})
	return found
}

func usable(text string) string {
	text = collapse(text)
	if text == "" || text == notAvailable {
		return ""
	}
	return text
}

// TranslatedNames reads the listing at listingPath, visits the detail page of
// every entry wanted accepts, and returns the localized names found, keyed by
// the listing name. A failing detail page is logged and skipped; entries
// without any translation are dropped. Listing failures abort the scrape.
func (c *Client) TranslatedNames(ctx context.Context, listingPath string, wanted func(name string) bool) (map[string]catalog.Names, error) {
	listing, err := c.Document(ctx, listingPath)
	if err != nil {
		return nil, err
	}
	links, err := c.SortableTableLinks(listing)
	if err != nil {
		return nil, err
	}

	selected := make([]Link, 0, len(links))
	for _, link := range links {
		if wanted == nil || wanted(link.Name) {
			selected = append(selected, link)
		}
	}
	c.logger.Info("listing parsed",
		logging.String("page", listingPath),
		logging.Int("links", len(links)),
		logging.Int("wanted", len(selected)),
	)

	result := make(map[string]catalog.Names, len(selected))
	sampler := logging.NewProgressSampler(10)
	for i, link := range selected {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if sampler.ShouldLog(i+1, len(selected)) {
			c.logger.Info("scraping detail pages", logging.Int("done", i+1), logging.Int("total", len(selected)))
		}
		doc, err := c.Document(ctx, link.URL)
		if err != nil {
			logging.WarnWithContext(c.logger, "detail page unavailable", "wiki_detail_failed",
				logging.String(logging.FieldEntity, link.Name),
				logging.String("url", link.URL),
				logging.Error(err),
				logging.String(logging.FieldImpact, "record keeps its current names"),
			)
			continue
		}
		names := DetailNames(doc)
		if !names.HasTranslation() {
			c.logger.Debug("no translations on detail page", logging.String(logging.FieldEntity, link.Name))
			continue
		}
		result[link.Name] = names
	}
	return result, nil
}
