package enrich

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"thibou/internal/catalog"
	"thibou/internal/services"
)

// LoadRanks reads a JSON object mapping villager names to popularity ranks.
// Ranks may be strings or numbers. A missing or malformed file is an error.
func LoadRanks(path string) (map[string]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "enrich", "load ranks", "rank file path is empty", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "enrich", "load ranks", path+" not found", nil)
		}
		return nil, services.Wrap(services.ErrExternal, "enrich", "load ranks", path, err)
	}
	var raw map[string]catalog.RankValue
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, services.Wrap(services.ErrValidation, "enrich", "load ranks", "invalid JSON in "+path, err)
	}
	ranks := make(map[string]string, len(raw))
	for name, rank := range raw {
		if rank == "" {
			continue
		}
		ranks[name] = string(rank)
	}
	return ranks, nil
}
