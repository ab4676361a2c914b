package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"vidnotes/internal/fileutil"
	"vidnotes/internal/logging"
)

// JSONFileStore keeps the processed set as a JSON array of paths.
type JSONFileStore struct {
	path   string
	logger *slog.Logger
}

// NewJSONFileStore returns a store backed by the file at path. The file is
// created on first Save.
func NewJSONFileStore(path string, logger *slog.Logger) *JSONFileStore {
	return &JSONFileStore{path: path, logger: logging.NewComponentLogger(logger, "state")}
}

// Path returns the backing file.
func (s *JSONFileStore) Path() string { return s.path }

// Load reads the processed set. A missing or empty file yields an empty set.
// An undecodable file is logged and also yields an empty set so a corrupted
// state file never blocks a run.
func (s *JSONFileStore) Load(ctx context.Context) (*ProcessedSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewProcessedSet(), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return NewProcessedSet(), nil
	}

	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		logging.WarnWithContext(s.logger, "state file unreadable; starting with empty processed set", "state_decode_failed",
			logging.Path(s.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect or delete the state file"),
			logging.String(logging.FieldImpact, "previously processed videos may be processed again"),
		)
		return NewProcessedSet(), nil
	}

	set := NewProcessedSet(paths...)
	s.logger.Debug("loaded processed set", logging.Int("entry_count", set.Len()), logging.Path(s.path))
	return set, nil
}

// Save writes the set atomically via a temp file and rename.
func (s *JSONFileStore) Save(ctx context.Context, set *ProcessedSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	paths := set.Paths()
	if paths == nil {
		paths = []string{}
	}
	data, err := json.MarshalIndent(paths, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := fileutil.WriteAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("save state file: %w", err)
	}
	return nil
}

// Records lists the stored paths without timestamps.
func (s *JSONFileStore) Records(ctx context.Context) ([]Record, error) {
	set, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, set.Len())
	for _, p := range set.Paths() {
		records = append(records, Record{Path: p})
	}
	return records, nil
}

// Close is a no-op for file-backed state.
func (s *JSONFileStore) Close() error { return nil }
