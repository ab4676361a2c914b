package state

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Store loads and saves the processed set.
type Store interface {
	Load(ctx context.Context) (*ProcessedSet, error)
	Save(ctx context.Context, set *ProcessedSet) error
	Close() error
}

// Record is a processed path with the time it was first recorded. JSON-backed
// records carry a zero time.
type Record struct {
	Path        string
	ProcessedAt time.Time
}

// RecordLister is implemented by stores that can report per-path details.
type RecordLister interface {
	Records(ctx context.Context) ([]Record, error)
}

// Open returns the backend named by backend ("json" or "sqlite") at path.
func Open(backend, path string, logger *slog.Logger) (Store, error) {
	switch backend {
	case "", "json":
		return NewJSONFileStore(path, logger), nil
	case "sqlite":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("state: unsupported backend %q", backend)
	}
}
