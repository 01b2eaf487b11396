package populate

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"thibou/internal/catalog"
	"thibou/internal/config"
	"thibou/internal/contentapi"
	"thibou/internal/enrich"
	"thibou/internal/imaging"
	"thibou/internal/logging"
	"thibou/internal/nookipedia"
	"thibou/internal/services"
	"thibou/internal/upload"
	"thibou/internal/wiki"
)

const userAgent = "thibou-populate/0.1"

// Source fetches raw listings from the Nookipedia content API.
type Source interface {
	Villagers(ctx context.Context) ([]nookipedia.RawVillager, error)
	Fish(ctx context.Context) ([]nookipedia.RawFish, error)
	Bugs(ctx context.Context) ([]nookipedia.RawBug, error)
	Fossils(ctx context.Context) ([]nookipedia.RawFossil, error)
}

// ContentAPI is the destination API surface a run needs.
type ContentAPI interface {
	upload.Store
	enrich.Lister
	enrich.Writer
	Authenticate(ctx context.Context) error
	CanWrite(kind catalog.Kind) bool
}

// Scraper reads the wiki pages used for enrichment.
type Scraper interface {
	TranslatedNames(ctx context.Context, listingPath string, wanted func(name string) bool) (map[string]catalog.Names, error)
	VillagerNames(ctx context.Context, wanted func(name string) bool) (map[string]catalog.Names, error)
	Houses(ctx context.Context, wanted func(name string) bool) (map[string]wiki.HouseInfo, error)
}

// Dependencies are the collaborators of a Populator. Images may be nil to
// skip all media.
type Dependencies struct {
	Source Source
	API    ContentAPI
	Wiki   Scraper
	Images upload.ImageSource
}

// Options toggles enrichment steps.
type Options struct {
	SkipTranslations bool
	SkipHouses       bool
	SkipRanks        bool
	// RanksPath is the popularity rank table read by the rank step.
	RanksPath string
}

// Populator runs one populate pass per entity kind.
type Populator struct {
	deps   Dependencies
	opts   Options
	logger *slog.Logger
	now    func() time.Time
	runID  func() string
}

// New builds a Populator backed by the real API clients described by cfg.
func New(cfg *config.Config, opts Options, logger *slog.Logger) (*Populator, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "populate", "init", "config is required", nil)
	}
	if opts.RanksPath == "" {
		opts.RanksPath = cfg.Ranks.Path
	}

	source, err := nookipedia.New(nookipedia.Config{
		APIKey:        cfg.Source.APIKey,
		BaseURL:       cfg.Source.BaseURL,
		AcceptVersion: cfg.Source.AcceptVersion,
		UserAgent:     userAgent,
		HTTPClient:    &http.Client{Timeout: cfg.APITimeout()},
	})
	if err != nil {
		return nil, err
	}
	api, err := contentapi.New(contentapi.Config{
		BaseURL:    cfg.API.BaseURL,
		SystemKey:  cfg.API.SystemKey,
		HTTPClient: &http.Client{Timeout: cfg.APITimeout()},
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	scraper, err := wiki.New(wiki.Config{
		BaseURL:           cfg.Wiki.BaseURL,
		ImageBaseURL:      cfg.Wiki.ImageBaseURL,
		UserAgent:         cfg.Wiki.UserAgent,
		RequestsPerSecond: cfg.Wiki.RequestsPerSecond,
		HTTPClient:        &http.Client{Timeout: cfg.APITimeout()},
		Logger:            logger,
	})
	if err != nil {
		return nil, err
	}
	images := imaging.New(imaging.Config{
		MaxSize:   cfg.Images.MaxSize,
		Timeout:   cfg.ImageTimeout(),
		UserAgent: cfg.Wiki.UserAgent,
	})

	return NewWithDependencies(Dependencies{
		Source: source,
		API:    api,
		Wiki:   scraper,
		Images: images,
	}, opts, logger), nil
}

// NewWithDependencies builds a Populator from explicit collaborators.
func NewWithDependencies(deps Dependencies, opts Options, logger *slog.Logger) *Populator {
	return &Populator{
		deps:   deps,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "populate"),
		now:    time.Now,
		runID:  uuid.NewString,
	}
}

// StepReport is the outcome of one enrichment step.
type StepReport struct {
	Name    string
	Skipped bool
	Summary enrich.Summary
	Err     error
}

// Report summarizes a populate run.
type Report struct {
	Kind     catalog.Kind
	RunID    string
	Upload   upload.Result
	Steps    []StepReport
	Duration time.Duration
}

// StepFailures counts enrichment steps that ended with an error.
func (r Report) StepFailures() int {
	failures := 0
	for _, step := range r.Steps {
		if step.Err != nil {
			failures++
		}
	}
	return failures
}

// Run authenticates, fetches the source listing of kind, uploads every
// record with its images, then runs the enrichment steps of kind. Record and
// step failures are logged and kept in the report; authentication and
// source failures end the run and are returned.
func (p *Populator) Run(ctx context.Context, kind catalog.Kind) (Report, error) {
	start := p.now()
	report := Report{Kind: kind, RunID: p.runID()}
	if !kind.Valid() {
		return report, services.Wrap(services.ErrValidation, "populate", "run", "unknown kind "+string(kind), nil)
	}
	ctx = services.WithKind(services.WithRunID(ctx, report.RunID), string(kind))
	logger := logging.WithContext(ctx, p.logger)

	logger.Info("populate started",
		logging.Bool("translations", !p.opts.SkipTranslations),
		logging.Bool("houses", !p.opts.SkipHouses),
		logging.Bool("ranks", !p.opts.SkipRanks),
	)

	if err := p.deps.API.Authenticate(ctx); err != nil {
		report.Duration = p.now().Sub(start)
		return report, err
	}
	if !p.deps.API.CanWrite(kind) {
		logging.WarnWithContext(logger, "system token lacks write scope", "token_scope_missing",
			logging.String(logging.FieldErrorHint, "grant the system key "+string(kind)+":write"),
			logging.String(logging.FieldImpact, "record creation will likely be rejected"),
		)
	}

	items, err := p.items(ctx, kind)
	if err != nil {
		report.Duration = p.now().Sub(start)
		return report, services.Wrap(services.ErrExternal, "populate", "fetch source", string(kind), err)
	}
	logger.Info("source fetched", logging.Int("records", len(items)))

	report.Upload = upload.NewDriver(kind, p.deps.API, p.deps.Images, p.logger).Run(ctx, items)
	if err := ctx.Err(); err != nil {
		report.Duration = p.now().Sub(start)
		return report, err
	}

	for _, step := range p.plan(kind) {
		stepReport := step(ctx)
		if err := ctx.Err(); err != nil {
			report.Steps = append(report.Steps, stepReport)
			report.Duration = p.now().Sub(start)
			return report, err
		}
		if stepReport.Err != nil {
			logging.WarnWithContext(logger, "enrichment step failed", "enrich_step_failed",
				logging.String(logging.FieldStep, stepReport.Name),
				logging.Error(stepReport.Err),
				logging.String(logging.FieldImpact, "records keep their uploaded values for this step"),
			)
		}
		report.Steps = append(report.Steps, stepReport)
	}

	report.Duration = p.now().Sub(start)
	logger.Info("populate finished",
		logging.Int("created", report.Upload.Succeeded),
		logging.Int("failed", report.Upload.Failed),
		logging.Int("step_failures", report.StepFailures()),
		logging.Duration("duration", report.Duration),
	)
	return report, nil
}

// stepRunner runs one enrichment step and reports its outcome.
type stepRunner func(ctx context.Context) StepReport

func (p *Populator) plan(kind catalog.Kind) []stepRunner {
	switch kind {
	case catalog.KindVillager:
		return []stepRunner{
			p.planned(enrich.StepHouses, p.opts.SkipHouses, func(ctx context.Context) (enrich.Summary, error) {
				step := enrich.HouseStep(p.deps.Wiki.Houses, p.deps.API, p.deps.Images, p.logger)
				return enrich.Run(ctx, p.deps.API, step, p.logger)
			}),
			p.planned(enrich.StepTranslations, p.opts.SkipTranslations, func(ctx context.Context) (enrich.Summary, error) {
				step := enrich.NamesStep(kind, enrich.Key, p.deps.Wiki.VillagerNames, p.deps.API)
				return enrich.Run(ctx, p.deps.API, step, p.logger)
			}),
			p.planned(enrich.StepRanks, p.opts.SkipRanks, func(ctx context.Context) (enrich.Summary, error) {
				ranks, err := enrich.LoadRanks(p.opts.RanksPath)
				if err != nil {
					return enrich.Summary{Step: enrich.StepRanks}, err
				}
				return enrich.Run(ctx, p.deps.API, enrich.RankStep(ranks, p.deps.API), p.logger)
			}),
		}
	case catalog.KindFish:
		return []stepRunner{p.translations(kind, wiki.FishListingPath, enrich.Key)}
	case catalog.KindBug:
		return []stepRunner{p.translations(kind, wiki.BugListingPath, enrich.ApostropheKey)}
	default:
		return nil
	}
}

func (p *Populator) translations(kind catalog.Kind, listingPath string, key func(string) string) stepRunner {
	return p.planned(enrich.StepTranslations, p.opts.SkipTranslations, func(ctx context.Context) (enrich.Summary, error) {
		scrape := func(ctx context.Context, wanted func(string) bool) (map[string]catalog.Names, error) {
			return p.deps.Wiki.TranslatedNames(ctx, listingPath, wanted)
		}
		return enrich.Run(ctx, p.deps.API, enrich.NamesStep(kind, key, scrape, p.deps.API), p.logger)
	})
}

func (p *Populator) planned(name string, skipped bool, run func(ctx context.Context) (enrich.Summary, error)) stepRunner {
	return func(ctx context.Context) StepReport {
		if skipped {
			logging.WithContext(ctx, p.logger).Info("enrichment step skipped", logging.String(logging.FieldStep, name))
			return StepReport{Name: name, Skipped: true}
		}
		if p.deps.Wiki == nil && name != enrich.StepRanks {
			return StepReport{Name: name, Err: services.Wrap(services.ErrConfiguration, "populate", name, "no wiki scraper configured", nil)}
		}
		summary, err := run(ctx)
		return StepReport{Name: name, Summary: summary, Err: err}
	}
}
