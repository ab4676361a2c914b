package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidnotes/internal/logging"
	"vidnotes/internal/preflight"
	"vidnotes/internal/remote"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories, credentials, prompt files and remote folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}

			var store remote.Store
			if opened, err := ctx.backends.remote(cfg, logging.NewNop()); err != nil {
				fmt.Fprintln(out, renderStatusLine("Remote backend", statusError, err.Error(), colorize))
			} else {
				store = opened
			}

			results := preflight.RunAll(cmd.Context(), cfg, store)
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if store == nil || preflight.Failed(results) {
				return errors.New("preflight checks failed")
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}
