package remote

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

var (
	// ErrNotFound reports that a remote path does not exist.
	ErrNotFound = errors.New("remote path not found")
	// ErrPermission reports that the credentials cannot access a remote path.
	ErrPermission = errors.New("remote permission denied")
)

// Entry is one listed item in a remote folder.
type Entry struct {
	ID         string
	Name       string
	ParentPath string
	Path       string
	Modified   time.Time
	Size       int64
	MIMEType   string
	IsDir      bool
}

// Ext returns the lower-cased extension of the entry name, including the dot.
func (e Entry) Ext() string {
	return strings.ToLower(path.Ext(e.Name))
}

// BaseName returns the entry name without its extension.
func (e Entry) BaseName() string {
	return strings.TrimSuffix(e.Name, path.Ext(e.Name))
}

// Info describes a stat result.
type Info struct {
	Path  string
	IsDir bool
}

// Store is the file store the pipeline watches and publishes into.
type Store interface {
	// List returns the immediate children of dir, non-recursively.
	List(ctx context.Context, dir string) ([]Entry, error)
	// Stat reports whether p exists and whether it is a folder.
	Stat(ctx context.Context, p string) (Info, error)
	// Download streams the content at p into w.
	Download(ctx context.Context, p string, w io.Writer) error
	// Upload writes r to p. When overwrite is false an existing object is an error.
	Upload(ctx context.Context, r io.Reader, p string, overwrite bool) error
}

// Join builds a remote path from a folder and a file name using forward
// slashes regardless of the host OS.
func Join(dir, name string) string {
	if dir == "" {
		return name
	}
	return path.Join(dir, name)
}
