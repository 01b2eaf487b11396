package catalog

import (
	"fmt"
	"strings"
)

// Kind identifies one of the entity types the tool populates.
type Kind string

const (
	KindVillager Kind = "villager"
	KindFish     Kind = "fish"
	KindBug      Kind = "bug"
	KindFossil   Kind = "fossil"
)

// Kinds lists every supported entity type in CLI order.
var Kinds = []Kind{KindVillager, KindFish, KindBug, KindFossil}

// Resource returns the content API path segment for the kind.
func (k Kind) Resource() string { return string(k) }

// ListKey returns the envelope key the content API uses when listing records.
func (k Kind) ListKey() string {
	switch k {
	case KindFish:
		return "fishes"
	default:
		return string(k) + "s"
	}
}

// CreateKey returns the envelope key wrapping a freshly created record.
func (k Kind) CreateKey() string { return string(k) }

// Command returns the plural CLI name of the kind (villagers, fishes, bugs, fossils).
func (k Kind) Command() string { return k.ListKey() }

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	for _, kind := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ParseKind accepts singular or plural forms, case-insensitively.
func ParseKind(value string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, kind := range Kinds {
		if normalized == string(kind) || normalized == kind.Command() {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown entity type %q", value)
}
