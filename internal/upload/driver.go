package upload

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"thibou/internal/catalog"
	"thibou/internal/logging"
	"thibou/internal/services"
)

// ImageStore attaches encoded images to existing records.
type ImageStore interface {
	UploadImage(ctx context.Context, kind catalog.Kind, id, slot, dataURI string) error
}

// Store is the subset of the content API the driver writes to.
type Store interface {
	ImageStore
	Create(ctx context.Context, kind catalog.Kind, record any) (string, error)
}

// ImageSource turns a remote image URL into an uploadable data URI.
type ImageSource interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ImageJob is one image to attach to a created record.
type ImageJob struct {
	Slot string
	URL  string
}

// Item is one source record queued for upload.
type Item struct {
	// Name is the display name used in progress output.
	Name string
	// SourceID identifies the record upstream (villager id, critterpedia number).
	SourceID string
	// Transform produces the canonical record. An error fails the item.
	Transform func() (any, error)
	Images    []ImageJob
}

// RecordFailure describes an item that could not be created.
type RecordFailure struct {
	Name     string
	SourceID string
	Err      error
}

// Result summarizes a driver run. IDs are in creation order and exclude
// failed items.
type Result struct {
	IDs           []string
	Attempted     int
	Succeeded     int
	Failed        int
	ImageFailures int
	Failures      []RecordFailure
}

// Driver creates records one at a time and attaches their images.
type Driver struct {
	kind   catalog.Kind
	store  Store
	images ImageSource
	logger *slog.Logger
}

// NewDriver constructs a Driver for kind. images may be nil to skip media.
func NewDriver(kind catalog.Kind, store Store, images ImageSource, logger *slog.Logger) *Driver {
	return &Driver{
		kind:   kind,
		store:  store,
		images: images,
		logger: logging.NewComponentLogger(logger, "upload"),
	}
}

// Run processes items sequentially. Record failures are isolated; image
// failures are counted but never fail their record. Cancellation stops the
// loop before the next item.
func (d *Driver) Run(ctx context.Context, items []Item) Result {
	result := Result{IDs: make([]string, 0, len(items))}
	total := len(items)
	ctx = services.WithKind(ctx, string(d.kind))
	d.logger.Info("upload started", logging.Int("records", total))

	for i, item := range items {
		if ctx.Err() != nil {
			d.logger.Warn("upload interrupted", logging.Int("remaining", total-i), logging.Error(ctx.Err()))
			break
		}
		result.Attempted++
		itemCtx := services.WithEntity(ctx, item.Name)
		logger := logging.WithContext(itemCtx, d.logger)
		logger.Info(fmt.Sprintf("Processing %s %d/%d: %s", d.kind, i+1, total, item.Name))

		id, err := d.create(itemCtx, item)
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, RecordFailure{Name: item.Name, SourceID: item.SourceID, Err: err})
			logging.WarnWithContext(logger, "record creation failed", "record_create_failed",
				logging.String("source_id", item.SourceID),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the content API response and the source record"),
			)
			continue
		}
		result.Succeeded++
		result.IDs = append(result.IDs, id)
		logger.Info("record created", logging.String(logging.FieldRecordID, id))

		result.ImageFailures += d.uploadImages(itemCtx, logger, id, item.Images)
	}

	d.logger.Info(
		"upload finished",
		logging.Int("attempted", result.Attempted),
		logging.Int("succeeded", result.Succeeded),
		logging.Int("failed", result.Failed),
		logging.Int("image_failures", result.ImageFailures),
	)
	return result
}

func (d *Driver) create(ctx context.Context, item Item) (string, error) {
	if item.Transform == nil {
		return "", services.Wrap(services.ErrValidation, "upload", "transform", "no transform for "+item.Name, nil)
	}
	record, err := item.Transform()
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "upload", "transform", item.Name, err)
	}
	return d.store.Create(ctx, d.kind, record)
}

func (d *Driver) uploadImages(ctx context.Context, logger *slog.Logger, id string, jobs []ImageJob) int {
	if d.images == nil {
		return 0
	}
	failures := 0
	for _, job := range jobs {
		if strings.TrimSpace(job.URL) == "" {
			continue
		}
		if err := UploadImage(ctx, d.store, d.images, d.kind, id, job); err != nil {
			failures++
			logging.WarnWithContext(logger, "image upload failed", "image_upload_failed",
				logging.String("slot", job.Slot),
				logging.String("url", job.URL),
				logging.Error(err),
				logging.String(logging.FieldImpact, "record kept without this image"),
			)
			continue
		}
		logger.Debug("image uploaded", logging.String("slot", job.Slot))
	}
	return failures
}

// UploadImage fetches one image and attaches it to record id.
func UploadImage(ctx context.Context, store ImageStore, images ImageSource, kind catalog.Kind, id string, job ImageJob) error {
	dataURI, err := images.Fetch(ctx, job.URL)
	if err != nil {
		return err
	}
	return store.UploadImage(ctx, kind, id, job.Slot, dataURI)
}
