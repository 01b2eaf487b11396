package main

import (
	"github.com/spf13/cobra"

	"thibou/internal/catalog"
)

func newRootCommand() *cobra.Command {
	return newRootCommandWithRunner(newPopulateRunner)
}

func newRootCommandWithRunner(factory runnerFactory) *cobra.Command {
	var configFlag, logLevelFlag, logFormatFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)
	ctx.newRunner = factory

	rootCmd := &cobra.Command{
		Use:           "populate",
		Short:         "Populate the Thibou content API from Nookipedia",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format override (console, json)")

	for _, kind := range catalog.Kinds {
		rootCmd.AddCommand(newKindCommand(ctx, kind))
	}
	rootCmd.AddCommand(newTypesCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
