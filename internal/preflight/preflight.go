package preflight

import (
	"context"
	"path/filepath"

	"vidnotes/internal/config"
	"vidnotes/internal/remote"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for cfg. The remote folder checks are
// skipped when store is nil, which happens when credentials are missing.
func RunAll(ctx context.Context, cfg *config.Config, store remote.Store) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir),
		CheckDirectoryAccess("State directory", filepath.Dir(cfg.State.Path)),
		CheckCredentials(cfg),
		CheckPromptFiles(cfg),
	}
	if store != nil {
		results = append(results,
			CheckRemoteFolder(ctx, store, "Watch folder", cfg.Remote.WatchDir),
			CheckRemoteFolder(ctx, store, "Output folder", cfg.Remote.OutputDir),
		)
	}
	results = append(results, CheckScratchUsage(cfg.Paths.ScratchDir, cfg.ScratchMaxAge()))
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
