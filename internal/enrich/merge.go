package enrich

import "thibou/internal/catalog"

// MergeNames overlays the non-empty translated slots of scraped onto a copy
// of existing. English is never taken from scraped. The boolean reports
// whether the result differs from existing; merging the same data twice
// reports no change the second time.
func MergeNames(existing, scraped catalog.Names) (catalog.Names, bool) {
	merged := existing.Clone()
	for _, lang := range catalog.TranslatedLanguages {
		if value := scraped[lang]; value != "" {
			merged[lang] = value
		}
	}
	return merged, !merged.Equal(existing)
}
