package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"vidnotes/internal/logging"
	"vidnotes/internal/remote"
)

// Config holds connection settings for an S3-compatible endpoint.
type Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// objectAPI is the subset of minio operations used by Store.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	PutObject(ctx context.Context, bucket, key string, r io.Reader, contentType string) error
}

// Store implements remote.Store over a single bucket. Folder paths are key
// prefixes; a leading slash is ignored.
type Store struct {
	api    objectAPI
	bucket string
	logger *slog.Logger
}

// New connects to the endpoint with static credentials.
func New(cfg Config, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("s3: endpoint required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3: bucket required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	return newWithAPI(minioObjects{client: client}, cfg.Bucket, logger), nil
}

func newWithAPI(api objectAPI, bucket string, logger *slog.Logger) *Store {
	return &Store{api: api, bucket: bucket, logger: logging.NewComponentLogger(logger, "s3")}
}

// List returns objects and common prefixes directly under dir.
func (s *Store) List(ctx context.Context, dir string) ([]remote.Entry, error) {
	prefix := dirPrefix(dir)
	var entries []remote.Entry
	for obj := range s.api.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: false}) {
		if obj.Err != nil {
			return nil, classify(obj.Err, "list "+dir)
		}
		if obj.Key == prefix {
			continue
		}
		entries = append(entries, toEntry(obj))
	}
	s.logger.Debug("s3 prefix listed", logging.String("prefix", prefix), logging.Int("entries", len(entries)))
	return entries, nil
}

// Stat reports whether p names an object or a non-empty prefix.
func (s *Store) Stat(ctx context.Context, p string) (remote.Info, error) {
	key := objectKey(p)
	if key == "" || strings.HasSuffix(p, "/") {
		return s.statPrefix(ctx, p)
	}
	if _, err := s.api.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err == nil {
		return remote.Info{Path: key}, nil
	} else if classified := classify(err, "stat "+p); !errors.Is(classified, remote.ErrNotFound) {
		return remote.Info{}, classified
	}
	return s.statPrefix(ctx, p)
}

func (s *Store) statPrefix(ctx context.Context, p string) (remote.Info, error) {
	ok, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return remote.Info{}, classify(err, "stat bucket "+s.bucket)
	}
	if !ok {
		return remote.Info{}, fmt.Errorf("stat %s: bucket %s: %w", p, s.bucket, remote.ErrNotFound)
	}
	prefix := dirPrefix(p)
	if prefix == "" {
		return remote.Info{Path: "/", IsDir: true}, nil
	}
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	for obj := range s.api.ListObjects(listCtx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, MaxKeys: 1}) {
		if obj.Err != nil {
			return remote.Info{}, classify(obj.Err, "stat "+p)
		}
		return remote.Info{Path: prefix, IsDir: true}, nil
	}
	return remote.Info{}, fmt.Errorf("stat %s: %w", p, remote.ErrNotFound)
}

// Download streams the object at p into w.
func (s *Store) Download(ctx context.Context, p string, w io.Writer) error {
	body, err := s.api.GetObject(ctx, s.bucket, objectKey(p))
	if err != nil {
		return classify(err, "download "+p)
	}
	defer body.Close()
	if _, err := io.Copy(w, body); err != nil {
		return classify(err, "download "+p)
	}
	return nil
}

// Upload writes r to p. Without overwrite an existing object is rejected.
func (s *Store) Upload(ctx context.Context, r io.Reader, p string, overwrite bool) error {
	key := objectKey(p)
	if !overwrite {
		if _, err := s.api.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err == nil {
			return fmt.Errorf("upload %s: object exists", p)
		}
	}
	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.api.PutObject(ctx, s.bucket, key, r, contentType); err != nil {
		return classify(err, "upload "+p)
	}
	s.logger.Debug("s3 upload complete", logging.String("key", key), logging.String("content_type", contentType))
	return nil
}

func toEntry(obj minio.ObjectInfo) remote.Entry {
	key := obj.Key
	isDir := strings.HasSuffix(key, "/")
	name := path.Base(strings.TrimSuffix(key, "/"))
	return remote.Entry{
		ID:         firstNonEmpty(obj.ETag, key),
		Name:       name,
		ParentPath: path.Dir(strings.TrimSuffix(key, "/")),
		Path:       key,
		Modified:   obj.LastModified,
		Size:       obj.Size,
		MIMEType:   obj.ContentType,
		IsDir:      isDir,
	}
}

func objectKey(p string) string {
	return strings.TrimPrefix(strings.TrimSpace(p), "/")
}

func dirPrefix(dir string) string {
	key := strings.TrimSuffix(objectKey(dir), "/")
	if key == "" {
		return ""
	}
	return key + "/"
}

func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey", resp.Code == "NoSuchBucket", resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w: %w", op, remote.ErrNotFound, err)
	case resp.Code == "AccessDenied", resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w: %w", op, remote.ErrPermission, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// minioObjects adapts *minio.Client to objectAPI.
type minioObjects struct {
	client *minio.Client
}

func (m minioObjects) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return m.client.BucketExists(ctx, bucket)
}

func (m minioObjects) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return m.client.ListObjects(ctx, bucket, opts)
}

func (m minioObjects) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return m.client.StatObject(ctx, bucket, key, opts)
}

func (m minioObjects) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat surfaces missing keys before the caller writes anything.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

func (m minioObjects) PutObject(ctx context.Context, bucket, key string, r io.Reader, contentType string) error {
	_, err := m.client.PutObject(ctx, bucket, key, r, -1, minio.PutObjectOptions{ContentType: contentType})
	return err
}
