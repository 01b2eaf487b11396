package enrich

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"thibou/internal/catalog"
	"thibou/internal/logging"
	"thibou/internal/services"
)

// Lister returns the live records of a kind.
type Lister interface {
	List(ctx context.Context, kind catalog.Kind) ([]catalog.StoredRecord, error)
}

// Outcome is what applying scraped data to one record did. Changed refers to
// record fields only; image uploads are counted apart.
type Outcome struct {
	Changed        bool
	ImagesUploaded int
	ImageFailures  int
}

// Step describes one enrichment pass over the live records of Kind.
type Step[T any] struct {
	Name string
	Kind catalog.Kind
	// Key normalizes names for matching; nil means Key.
	Key func(string) string
	// Scrape returns data keyed by display name. wanted reports whether a
	// name matches a live record so scrapers can skip needless fetches.
	Scrape func(ctx context.Context, wanted func(name string) bool) (map[string]T, error)
	// Apply writes data to a matched record.
	Apply func(ctx context.Context, record catalog.StoredRecord, data T) (Outcome, error)
}

// Summary counts what a step did. Unmatched counts live records for which
// nothing was scraped.
type Summary struct {
	Step           string
	Records        int
	Scraped        int
	Matched        int
	Updated        int
	Unchanged      int
	Unmatched      int
	Failed         int
	ImagesUploaded int
	ImageFailures  int
}

// Run executes step: list live records, scrape, match by name, and apply.
// Listing and scrape failures abort the step; apply failures only cost their
// record.
func Run[T any](ctx context.Context, lister Lister, step Step[T], logger *slog.Logger) (Summary, error) {
	summary := Summary{Step: step.Name}
	ctx = services.WithStep(services.WithKind(ctx, string(step.Kind)), step.Name)
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "enrich"))

	records, err := lister.List(ctx, step.Kind)
	if err != nil {
		return summary, services.Wrap(services.ErrExternal, "enrich", step.Name, "list records", err)
	}
	summary.Records = len(records)
	matcher := NewMatcher(records, step.Key)

	scraped, err := step.Scrape(ctx, matcher.Has)
	if err != nil {
		return summary, err
	}
	summary.Scraped = len(scraped)
	logger.Info("scrape finished", logging.Int("records", summary.Records), logging.Int("scraped", summary.Scraped))

	applied := make(map[string]struct{}, len(scraped))
	for _, name := range slices.Sorted(maps.Keys(scraped)) {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		record, ok := matcher.Lookup(name)
		if !ok {
			logger.Debug("scraped entry has no live record", logging.String(logging.FieldEntity, name))
			continue
		}
		if _, done := applied[record.ID]; done {
			continue
		}
		applied[record.ID] = struct{}{}
		summary.Matched++

		recordCtx := services.WithEntity(ctx, record.Name.English())
		recordLogger := logging.WithContext(recordCtx, logger)
		outcome, err := step.Apply(recordCtx, record, scraped[name])
		summary.ImagesUploaded += outcome.ImagesUploaded
		summary.ImageFailures += outcome.ImageFailures
		if err != nil {
			summary.Failed++
			logging.WarnWithContext(recordLogger, "enrichment write failed", "enrich_apply_failed",
				logging.String(logging.FieldRecordID, record.ID),
				logging.Error(err),
				logging.String(logging.FieldImpact, "record keeps its previous values"),
			)
			continue
		}
		if outcome.Changed {
			summary.Updated++
			recordLogger.Info("record enriched", logging.String(logging.FieldRecordID, record.ID))
		} else {
			summary.Unchanged++
			recordLogger.Debug("record already up to date")
		}
	}
	summary.Unmatched = summary.Records - summary.Matched

	logger.Info(
		"enrichment finished",
		logging.Int("matched", summary.Matched),
		logging.Int("updated", summary.Updated),
		logging.Int("unchanged", summary.Unchanged),
		logging.Int("unmatched", summary.Unmatched),
		logging.Int("failed", summary.Failed),
		logging.Int("images_uploaded", summary.ImagesUploaded),
	)
	return summary, nil
}
