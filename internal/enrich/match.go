package enrich

import (
	"strings"

	"golang.org/x/text/cases"

	"thibou/internal/catalog"
)

var (
	folder       = cases.Fold()
	apostrophize = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'", "`", "'")
)

// Key is the default matching key: trimmed, internal whitespace collapsed,
// and Unicode case-folded. Diacritics are kept, so "Mira" and "Mirá" differ.
func Key(name string) string {
	return folder.String(strings.Join(strings.Fields(name), " "))
}

// ApostropheKey is Key with typographic apostrophes and backticks mapped to
// ASCII. Bug names on the wiki mix both spellings.
func ApostropheKey(name string) string {
	return Key(apostrophize.Replace(name))
}

// Matcher resolves scraped display names to live records.
type Matcher struct {
	key   func(string) string
	index map[string]catalog.StoredRecord
}

// NewMatcher indexes records by the English name under key. When two records
// share a key the first one wins. A nil key means Key.
func NewMatcher(records []catalog.StoredRecord, key func(string) string) *Matcher {
	if key == nil {
		key = Key
	}
	index := make(map[string]catalog.StoredRecord, len(records))
	for _, record := range records {
		k := key(record.Name.English())
		if k == "" {
			continue
		}
		if _, ok := index[k]; ok {
			continue
		}
		index[k] = record
	}
	return &Matcher{key: key, index: index}
}

// Lookup returns the record whose English name matches name.
func (m *Matcher) Lookup(name string) (catalog.StoredRecord, bool) {
	record, ok := m.index[m.key(name)]
	return record, ok
}

// Has reports whether name matches a record.
func (m *Matcher) Has(name string) bool {
	_, ok := m.Lookup(name)
	return ok
}

// Len returns the number of indexed records.
func (m *Matcher) Len() int { return len(m.index) }
