// Package fetcher downloads candidate recordings into the local scratch
// directory.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"vidnotes/internal/logging"
	"vidnotes/internal/remote"
	"vidnotes/internal/textutil"
)

// ScratchPrefix starts every downloaded scratch file name.
const ScratchPrefix = "video_"

// Fetcher copies remote entries to local scratch files.
type Fetcher struct {
	store      remote.Store
	scratchDir string
	logger     *slog.Logger
}

// New constructs a Fetcher writing into scratchDir.
func New(store remote.Store, scratchDir string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		store:      store,
		scratchDir: scratchDir,
		logger:     logging.NewComponentLogger(logger, "fetcher"),
	}
}

// ScratchPath returns where Fetch stores entry. Distinct remote IDs never
// share a path.
func (f *Fetcher) ScratchPath(entry remote.Entry) string {
	name := textutil.SanitizeFileName(entry.Name)
	if name == "" {
		name = "recording"
	}
	return filepath.Join(f.scratchDir, ScratchPrefix+textutil.SanitizeToken(entry.ID)+"_"+name)
}

// Fetch downloads entry and returns the local path. A partially written file
// is removed when the download fails.
func (f *Fetcher) Fetch(ctx context.Context, entry remote.Entry) (string, error) {
	if err := os.MkdirAll(f.scratchDir, 0o755); err != nil {
		return "", fmt.Errorf("create scratch directory: %w", err)
	}
	localPath := f.ScratchPath(entry)
	file, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}

	started := time.Now()
	downloadErr := f.store.Download(ctx, entry.Path, file)
	closeErr := file.Close()
	if err := errors.Join(downloadErr, closeErr); err != nil {
		if rmErr := os.Remove(localPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logging.WarnWithContext(f.logger, "failed to remove partial download", "fetch_cleanup_failed",
				logging.Path(localPath),
				logging.Error(rmErr),
				logging.String(logging.FieldErrorHint, "check scratch_dir permissions"),
				logging.String(logging.FieldImpact, "stale scratch file left until next cleanup"),
			)
		}
		return "", fmt.Errorf("download %s: %w", entry.Path, err)
	}

	logging.WithContext(ctx, f.logger).Info("downloaded candidate",
		logging.String("remote_path", entry.Path),
		logging.String("local_path", localPath),
		logging.Int64("size", entry.Size),
		logging.Duration("elapsed", time.Since(started)),
		logging.String(logging.FieldEventType, "fetch_complete"),
	)
	return localPath, nil
}
