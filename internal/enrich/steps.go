package enrich

import (
	"context"
	"log/slog"

	"thibou/internal/catalog"
	"thibou/internal/logging"
	"thibou/internal/upload"
	"thibou/internal/wiki"
)

// Step names as they appear in logs and reports.
const (
	StepTranslations = "translations"
	StepHouses       = "houses"
	StepRanks        = "ranks"
)

// Writer is the subset of the content API enrichment writes through.
type Writer interface {
	UpdateNames(ctx context.Context, kind catalog.Kind, id string, names catalog.Names) error
	UpdateHouse(ctx context.Context, id string, house catalog.House) error
	UpdatePopularityRank(ctx context.Context, id, rank string) error
	UploadImage(ctx context.Context, kind catalog.Kind, id, slot, dataURI string) error
}

// NamesScraper returns localized names keyed by display name.
type NamesScraper func(ctx context.Context, wanted func(name string) bool) (map[string]catalog.Names, error)

// NamesStep merges scraped translations into the records of kind and writes
// back only when something changed.
func NamesStep(kind catalog.Kind, key func(string) string, scrape NamesScraper, writer Writer) Step[catalog.Names] {
	return Step[catalog.Names]{
		Name:   StepTranslations,
		Kind:   kind,
		Key:    key,
		Scrape: scrape,
		Apply: func(ctx context.Context, record catalog.StoredRecord, scraped catalog.Names) (Outcome, error) {
			merged, changed := MergeNames(record.Name, scraped)
			if !changed {
				return Outcome{}, nil
			}
			if err := writer.UpdateNames(ctx, kind, record.ID, merged); err != nil {
				return Outcome{}, err
			}
			return Outcome{Changed: true}, nil
		},
	}
}

// HouseScraper returns villager house data keyed by villager name.
type HouseScraper func(ctx context.Context, wanted func(name string) bool) (map[string]wiki.HouseInfo, error)

// houseImageParts are the exterior parts whose artwork is uploaded.
var houseImageParts = []string{"shape", "roof", "siding", "door"}

// HouseImageJobs lists the image uploads for one villager house in upload
// order, skipping parts without artwork.
func HouseImageJobs(info wiki.HouseInfo) []upload.ImageJob {
	candidates := []upload.ImageJob{
		{Slot: "small", URL: info.IconURL},
		{Slot: "interior", URL: info.InteriorURL},
		{Slot: "exterior", URL: info.ExteriorURL},
	}
	for _, part := range houseImageParts {
		candidates = append(candidates, upload.ImageJob{Slot: part, URL: info.Parts[part].ImageURL})
	}
	jobs := candidates[:0]
	for _, job := range candidates {
		if job.URL != "" {
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// HouseStep writes the house summary of each villager when it is known and
// differs from the stored one, then uploads the house artwork. Each image is
// isolated: a failed download or upload is logged and counted only.
func HouseStep(scrape HouseScraper, writer Writer, images upload.ImageSource, logger *slog.Logger) Step[wiki.HouseInfo] {
	logger = logging.NewComponentLogger(logger, "enrich")
	return Step[wiki.HouseInfo]{
		Name:   StepHouses,
		Kind:   catalog.KindVillager,
		Scrape: scrape,
		Apply: func(ctx context.Context, record catalog.StoredRecord, info wiki.HouseInfo) (Outcome, error) {
			var outcome Outcome
			house := info.Summary()
			if !house.IsZero() && (record.House == nil || *record.House != house) {
				if err := writer.UpdateHouse(ctx, record.ID, house); err != nil {
					return outcome, err
				}
				outcome.Changed = true
			}
			if images == nil {
				return outcome, nil
			}
			recordLogger := logging.WithContext(ctx, logger)
			for _, job := range HouseImageJobs(info) {
				if err := upload.UploadImage(ctx, writer, images, catalog.KindVillager, record.ID, job); err != nil {
					outcome.ImageFailures++
					logging.WarnWithContext(recordLogger, "house image upload failed", "house_image_failed",
						logging.String("slot", job.Slot),
						logging.String("url", job.URL),
						logging.Error(err),
						logging.String(logging.FieldImpact, "villager kept without this image"),
					)
					continue
				}
				outcome.ImagesUploaded++
			}
			return outcome, nil
		},
	}
}

// RankStep writes popularity ranks from table, keyed by villager name, when
// they differ from the stored rank. Villagers missing from the table are
// left alone.
func RankStep(table map[string]string, writer Writer) Step[string] {
	return Step[string]{
		Name: StepRanks,
		Kind: catalog.KindVillager,
		Scrape: func(_ context.Context, wanted func(string) bool) (map[string]string, error) {
			ranks := make(map[string]string, len(table))
			for name, rank := range table {
				if wanted == nil || wanted(name) {
					ranks[name] = rank
				}
			}
			return ranks, nil
		},
		Apply: func(ctx context.Context, record catalog.StoredRecord, rank string) (Outcome, error) {
			if record.Rank() == rank {
				return Outcome{}, nil
			}
			if err := writer.UpdatePopularityRank(ctx, record.ID, rank); err != nil {
				return Outcome{}, err
			}
			return Outcome{Changed: true}, nil
		},
	}
}
