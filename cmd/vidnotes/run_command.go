package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vidnotes/internal/logging"
	"vidnotes/internal/notifications"
	"vidnotes/internal/pipeline"
	"vidnotes/internal/runlock"
	"vidnotes/internal/services"
	"vidnotes/internal/state"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process new recordings once and exit",
		Long: "List the watch folder, generate a learning document for every new recording, " +
			"publish Markdown and HTML to the output folder, and record what was processed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runID := uuid.NewString()
			logger, err := logging.NewFromConfig(cfg, runID)
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}

			lock, err := runlock.Acquire(cfg.State.Path)
			if err != nil {
				return err
			}
			defer lock.Release()

			settings, err := pipeline.SettingsFromConfig(cfg)
			if err != nil {
				return err
			}
			settings.DryRun = dryRun

			store, err := ctx.backends.remote(cfg, logger)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "remote", "open", cfg.Remote.Backend, err)
			}
			processed, err := state.Open(cfg.State.Backend, cfg.State.Path, logger)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "state", "open", cfg.State.Path, err)
			}
			defer processed.Close()

			deps := pipeline.Deps{
				Store:    store,
				State:    processed,
				Notifier: notifications.NewService(cfg),
			}
			if !dryRun {
				media, err := ctx.backends.media(cmd.Context(), cfg, logger)
				if err != nil {
					return err
				}
				defer media.Close()
				deps.Media = media
				deps.Model = media
			}

			runner := pipeline.New(settings, deps, pipeline.WithLogger(logger), pipeline.WithRunID(runID))
			summary, runErr := runner.Run(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderSummary(summary, shouldColorize(out)))
			return runErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the recordings that would be processed without uploading anything")
	return cmd
}
