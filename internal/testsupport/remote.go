package testsupport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"vidnotes/internal/remote"
)

// FakeRemote is an in-memory remote.Store keyed by slash paths.
type FakeRemote struct {
	mu       sync.Mutex
	files    map[string]fakeObject
	dirs     map[string]struct{}
	ListErr  error
	StatErr  error
	failDown map[string]error
	failUp   map[string]error

	Uploads []UploadCall
}

type fakeObject struct {
	id       string
	data     []byte
	modified time.Time
}

// UploadCall records one Upload invocation.
type UploadCall struct {
	Path      string
	Overwrite bool
	Content   string
}

// NewFakeRemote creates a fake containing the given folders.
func NewFakeRemote(dirs ...string) *FakeRemote {
	f := &FakeRemote{
		files:    map[string]fakeObject{},
		dirs:     map[string]struct{}{"/": {}},
		failDown: map[string]error{},
		failUp:   map[string]error{},
	}
	for _, d := range dirs {
		f.dirs[clean(d)] = struct{}{}
	}
	return f
}

// AddFile places a file in the fake.
func (f *FakeRemote) AddFile(p, id string, data []byte, modified time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[clean(p)] = fakeObject{id: id, data: data, modified: modified}
	f.dirs[path.Dir(clean(p))] = struct{}{}
}

// FailDownload makes Download of p fail.
func (f *FakeRemote) FailDownload(p string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failDown[clean(p)] = err
}

// FailUpload makes Upload to p fail.
func (f *FakeRemote) FailUpload(p string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failUp[clean(p)] = err
}

// Content returns the stored bytes for p.
func (f *FakeRemote) Content(p string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.files[clean(p)]
	return string(obj.data), ok
}

func (f *FakeRemote) List(_ context.Context, dir string) ([]remote.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	dir = clean(dir)
	if _, ok := f.dirs[dir]; !ok {
		return nil, fmt.Errorf("list %s: %w", dir, remote.ErrNotFound)
	}
	var entries []remote.Entry
	for p, obj := range f.files {
		if path.Dir(p) != dir {
			continue
		}
		entries = append(entries, remote.Entry{
			ID:         obj.id,
			Name:       path.Base(p),
			ParentPath: dir,
			Path:       p,
			Modified:   obj.modified,
			Size:       int64(len(obj.data)),
		})
	}
	for d := range f.dirs {
		if d != dir && path.Dir(d) == dir {
			entries = append(entries, remote.Entry{ID: "dir:" + d, Name: path.Base(d), ParentPath: dir, Path: d, IsDir: true})
		}
	}
	// Sorted by path.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func (f *FakeRemote) Stat(_ context.Context, p string) (remote.Info, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StatErr != nil {
		return remote.Info{}, f.StatErr
	}
	p = clean(p)
	if _, ok := f.dirs[p]; ok {
		return remote.Info{Path: p, IsDir: true}, nil
	}
	if _, ok := f.files[p]; ok {
		return remote.Info{Path: p}, nil
	}
	return remote.Info{}, fmt.Errorf("stat %s: %w", p, remote.ErrNotFound)
}

func (f *FakeRemote) Download(ctx context.Context, p string, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	p = clean(p)
	err := f.failDown[p]
	obj, ok := f.files[p]
	f.mu.Unlock()
	if err != nil {
		// Write a partial chunk first so callers must clean up.
		_, _ = w.Write([]byte("partial"))
		return err
	}
	if !ok {
		return fmt.Errorf("download %s: %w", p, remote.ErrNotFound)
	}
	_, copyErr := io.Copy(w, bytes.NewReader(obj.data))
	return copyErr
}

func (f *FakeRemote) Upload(ctx context.Context, r io.Reader, p string, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p = clean(p)
	f.Uploads = append(f.Uploads, UploadCall{Path: p, Overwrite: overwrite, Content: string(data)})
	if err := f.failUp[p]; err != nil {
		return err
	}
	if _, exists := f.files[p]; exists && !overwrite {
		return fmt.Errorf("upload %s: already exists", p)
	}
	f.files[p] = fakeObject{id: "up:" + p, data: data, modified: time.Now()}
	return nil
}

// UploadedPaths returns the paths passed to Upload in call order.
func (f *FakeRemote) UploadedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.Uploads))
	for _, u := range f.Uploads {
		out = append(out, u.Path)
	}
	return out
}

func clean(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
