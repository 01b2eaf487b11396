package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"thibou/internal/catalog"
	"thibou/internal/config"
	"thibou/internal/logging"
	"thibou/internal/notifications"
	"thibou/internal/populate"
	"thibou/internal/runlock"
	"thibou/internal/services"
)

// runner executes one populate pass.
type runner interface {
	Run(ctx context.Context, kind catalog.Kind) (populate.Report, error)
}

type runnerFactory func(cfg *config.Config, opts populate.Options, logger *slog.Logger) (runner, error)

func newPopulateRunner(cfg *config.Config, opts populate.Options, logger *slog.Logger) (runner, error) {
	populator, err := populate.New(cfg, opts, logger)
	if err != nil {
		return nil, err
	}
	return populator, nil
}

type kindFlags struct {
	avoidTranslations bool
	avoidHouses       bool
	avoidRanks        bool
	ranksPath         string
}

func newKindCommand(ctx *commandContext, kind catalog.Kind) *cobra.Command {
	var flags kindFlags

	cmd := &cobra.Command{
		Use:   kind.Command(),
		Short: fmt.Sprintf("Upload every %s and enrich the uploaded records", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runKind(cmd, ctx, cfg, kind, flags)
		},
	}

	if kind != catalog.KindFossil {
		cmd.Flags().BoolVar(&flags.avoidTranslations, "avoid-translations", false, "Skip the translated names step")
	}
	if kind == catalog.KindVillager {
		cmd.Flags().BoolVar(&flags.avoidHouses, "avoid-enhancements", false, "Skip the villager house step")
		cmd.Flags().BoolVar(&flags.avoidRanks, "avoid-rank-enhancements", false, "Skip the popularity rank step")
		cmd.Flags().StringVar(&flags.ranksPath, "ranks", "", "Popularity rank JSON file (overrides ranks.path)")
	}
	return cmd
}

func runKind(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, kind catalog.Kind, flags kindFlags) error {
	opts := populate.Options{
		SkipTranslations: flags.avoidTranslations,
		SkipHouses:       flags.avoidHouses,
		SkipRanks:        flags.avoidRanks,
		RanksPath:        cfg.Ranks.Path,
	}
	if path := strings.TrimSpace(flags.ranksPath); path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return fmt.Errorf("resolve rank file: %w", err)
		}
		opts.RanksPath = expanded
	}

	lock, err := runlock.Acquire(cfg.Paths.LockPath)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	logger, err := ctx.logger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	notifier := notifications.NewService(cfg)

	populator, err := ctx.newRunner(cfg, opts, logger)
	if err != nil {
		return err
	}

	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}
	report, runErr := populator.Run(runCtx, kind)

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	if runErr != nil {
		hint := "rerun once the content or source API is reachable"
		if services.IsFatal(runErr) {
			hint = "check api.system_key, source.api_key and the config file"
		}
		logging.ErrorWithContext(logger, "populate aborted", "populate_aborted",
			logging.String(logging.FieldKind, string(kind)),
			logging.Error(runErr),
			logging.String(logging.FieldErrorHint, hint),
		)
		if report.Upload.Attempted > 0 || len(report.Steps) > 0 {
			for _, line := range reportLines(report, colorize) {
				fmt.Fprintln(out, line)
			}
		}
		if err := notifier.NotifyRunFailed(runCtx, kind.Command(), runErr); err != nil {
			logging.WarnWithContext(logger, "notification failed", "notification_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "no push for this failure"),
			)
		}
		return fmt.Errorf("populate %s: %w", kind.Command(), runErr)
	}

	for _, line := range reportLines(report, colorize) {
		fmt.Fprintln(out, line)
	}

	failed := report.Upload.Failed + report.StepFailures()
	if err := notifier.NotifyRunCompleted(runCtx, kind.Command(), report.Upload.Succeeded, failed, report.Duration); err != nil {
		logging.WarnWithContext(logger, "notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no push for this run"),
		)
	}
	return nil
}
