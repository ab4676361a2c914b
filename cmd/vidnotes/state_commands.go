package main

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vidnotes/internal/config"
	"vidnotes/internal/logging"
	"vidnotes/internal/runlock"
	"vidnotes/internal/state"
)

func newStateCommand(ctx *commandContext) *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and edit the processed set",
	}
	stateCmd.AddCommand(newStateListCommand(ctx))
	stateCmd.AddCommand(newStateForgetCommand(ctx))
	return stateCmd
}

func openState(cfg *config.Config) (state.Store, error) {
	return state.Open(cfg.State.Backend, cfg.State.Path, logging.NewNop())
}

func newStateListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recordings already processed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := openState(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			lister, ok := store.(state.RecordLister)
			if !ok {
				return fmt.Errorf("state backend %q cannot list records", cfg.State.Backend)
			}
			records, err := lister.Records(cmd.Context())
			if err != nil {
				return fmt.Errorf("read processed set: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No processed recordings")
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{rec.Path, formatRecordedAt(rec.ProcessedAt)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Path", "Processed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
				[]string{fmt.Sprintf("Total: %d", len(rows)), ""},
			))
			return nil
		},
	}
}

func newStateForgetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <remote-path>...",
		Short: "Remove recordings from the processed set so the next run picks them up again",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			lock, err := runlock.Acquire(cfg.State.Path)
			if err != nil {
				return err
			}
			defer lock.Release()

			store, err := openState(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			set, err := store.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("read processed set: %w", err)
			}
			out := cmd.OutOrStdout()
			var missing []string
			removed := 0
			for _, arg := range args {
				p := normalizeRemotePath(arg)
				if set.Remove(p) {
					removed++
					fmt.Fprintf(out, "Forgot %s\n", p)
				} else {
					missing = append(missing, p)
				}
			}
			if removed > 0 {
				if err := store.Save(cmd.Context(), set); err != nil {
					return fmt.Errorf("save processed set: %w", err)
				}
			}
			if len(missing) > 0 {
				return errors.New("not in processed set: " + strings.Join(missing, ", "))
			}
			return nil
		},
	}
}

func normalizeRemotePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func formatRecordedAt(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
