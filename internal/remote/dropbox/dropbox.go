package dropbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	sdk "github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"

	"vidnotes/internal/logging"
	"vidnotes/internal/remote"
)

// filesAPI is the subset of files.Client used by Store.
type filesAPI interface {
	ListFolder(arg *files.ListFolderArg) (*files.ListFolderResult, error)
	ListFolderContinue(arg *files.ListFolderContinueArg) (*files.ListFolderResult, error)
	GetMetadata(arg *files.GetMetadataArg) (files.IsMetadata, error)
	Download(arg *files.DownloadArg) (*files.FileMetadata, io.ReadCloser, error)
	Upload(arg *files.UploadArg, content io.Reader) (*files.FileMetadata, error)
}

// Store implements remote.Store on top of the Dropbox API v2.
type Store struct {
	api    filesAPI
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logging.NewComponentLogger(logger, "dropbox")
	}
}

// New constructs a Dropbox-backed store using an OAuth access token.
func New(token string, opts ...Option) (*Store, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("dropbox: access token required")
	}
	client := files.New(sdk.Config{Token: token, LogLevel: sdk.LogOff})
	return newWithAPI(client, opts...), nil
}

func newWithAPI(api filesAPI, opts ...Option) *Store {
	s := &Store{api: api, logger: logging.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// List returns the folder's immediate children, following pagination cursors.
func (s *Store) List(ctx context.Context, dir string) ([]remote.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := s.api.ListFolder(files.NewListFolderArg(apiPath(dir)))
	if err != nil {
		return nil, classify(err, "list "+dir)
	}
	var entries []remote.Entry
	for {
		for _, item := range res.Entries {
			if entry, ok := toEntry(item); ok {
				entries = append(entries, entry)
			}
		}
		if !res.HasMore {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err = s.api.ListFolderContinue(files.NewListFolderContinueArg(res.Cursor))
		if err != nil {
			return nil, classify(err, "list continue "+dir)
		}
	}
	s.logger.Debug("dropbox folder listed", logging.Path(dir), logging.Int("entries", len(entries)))
	return entries, nil
}

// Stat reports whether p exists and is a folder. The root always exists.
func (s *Store) Stat(ctx context.Context, p string) (remote.Info, error) {
	if err := ctx.Err(); err != nil {
		return remote.Info{}, err
	}
	if apiPath(p) == "" {
		return remote.Info{Path: "/", IsDir: true}, nil
	}
	meta, err := s.api.GetMetadata(files.NewGetMetadataArg(apiPath(p)))
	if err != nil {
		return remote.Info{}, classify(err, "stat "+p)
	}
	switch m := meta.(type) {
	case *files.FolderMetadata:
		return remote.Info{Path: m.PathDisplay, IsDir: true}, nil
	case *files.FileMetadata:
		return remote.Info{Path: m.PathDisplay}, nil
	case *files.DeletedMetadata:
		return remote.Info{}, fmt.Errorf("stat %s: %w", p, remote.ErrNotFound)
	default:
		return remote.Info{Path: p}, nil
	}
}

// Download streams the file at p into w.
func (s *Store) Download(ctx context.Context, p string, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, body, err := s.api.Download(files.NewDownloadArg(apiPath(p)))
	if err != nil {
		return classify(err, "download "+p)
	}
	defer body.Close()
	if _, err := io.Copy(w, contextReader{ctx: ctx, r: body}); err != nil {
		return fmt.Errorf("download %s: %w", p, err)
	}
	return nil
}

// Upload writes r to p. Notifications to other Dropbox clients are muted.
func (s *Store) Upload(ctx context.Context, r io.Reader, p string, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	arg := files.NewUploadArg(apiPath(p))
	mode := files.WriteModeAdd
	if overwrite {
		mode = files.WriteModeOverwrite
	}
	arg.Mode = &files.WriteMode{Tagged: sdk.Tagged{Tag: mode}}
	arg.Mute = true
	meta, err := s.api.Upload(arg, r)
	if err != nil {
		return classify(err, "upload "+p)
	}
	if meta != nil {
		s.logger.Debug("dropbox upload complete",
			logging.Path(meta.PathDisplay),
			logging.Int64("size", int64(meta.Size)),
		)
	}
	return nil
}

func toEntry(item files.IsMetadata) (remote.Entry, bool) {
	switch m := item.(type) {
	case *files.FileMetadata:
		return remote.Entry{
			ID:         m.Id,
			Name:       m.Name,
			ParentPath: path.Dir(m.PathDisplay),
			Path:       m.PathDisplay,
			Modified:   m.ServerModified,
			Size:       int64(m.Size),
		}, true
	case *files.FolderMetadata:
		return remote.Entry{
			ID:         m.Id,
			Name:       m.Name,
			ParentPath: path.Dir(m.PathDisplay),
			Path:       m.PathDisplay,
			IsDir:      true,
		}, true
	default:
		return remote.Entry{}, false
	}
}

// apiPath converts a configured folder into the form the API expects: the
// root is the empty string and every other path starts with a slash.
func apiPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimSuffix(p, "/")
}

func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if tag := lookupTag(err); tag != "" {
		switch tag {
		case files.LookupErrorNotFound, files.LookupErrorNotFolder:
			return fmt.Errorf("%s: %w: %w", op, remote.ErrNotFound, err)
		case files.LookupErrorRestrictedContent:
			return fmt.Errorf("%s: %w: %w", op, remote.ErrPermission, err)
		}
	}
	summary := err.Error()
	switch {
	case strings.Contains(summary, "not_found"):
		return fmt.Errorf("%s: %w: %w", op, remote.ErrNotFound, err)
	case strings.Contains(summary, "restricted_content"),
		strings.Contains(summary, "no_permission"),
		strings.Contains(summary, "missing_scope"),
		strings.Contains(summary, "invalid_access_token"):
		return fmt.Errorf("%s: %w: %w", op, remote.ErrPermission, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// lookupTag extracts the LookupError tag from endpoint-specific errors.
func lookupTag(err error) string {
	var lookup *files.LookupError
	var listErr files.ListFolderAPIError
	var metaErr files.GetMetadataAPIError
	var dlErr files.DownloadAPIError
	switch {
	case errors.As(err, &listErr) && listErr.EndpointError != nil:
		lookup = listErr.EndpointError.Path
	case errors.As(err, &metaErr) && metaErr.EndpointError != nil:
		lookup = metaErr.EndpointError.Path
	case errors.As(err, &dlErr) && dlErr.EndpointError != nil:
		lookup = dlErr.EndpointError.Path
	}
	if lookup == nil {
		return ""
	}
	return lookup.Tag
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
