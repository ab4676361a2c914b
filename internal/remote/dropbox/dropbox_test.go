package dropbox

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	sdk "github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidnotes/internal/remote"
)

type fakeFiles struct {
	pages      []*files.ListFolderResult
	listErr    error
	continued  []string
	listedPath string
	metadata   files.IsMetadata
	metaErr    error
	content    string
	uploads    map[string]string
	uploadArgs []*files.UploadArg
}

func (f *fakeFiles) ListFolder(arg *files.ListFolderArg) (*files.ListFolderResult, error) {
	f.listedPath = arg.Path
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.pages[0], nil
}

func (f *fakeFiles) ListFolderContinue(arg *files.ListFolderContinueArg) (*files.ListFolderResult, error) {
	f.continued = append(f.continued, arg.Cursor)
	return f.pages[len(f.continued)], nil
}

func (f *fakeFiles) GetMetadata(*files.GetMetadataArg) (files.IsMetadata, error) {
	return f.metadata, f.metaErr
}

func (f *fakeFiles) Download(*files.DownloadArg) (*files.FileMetadata, io.ReadCloser, error) {
	return &files.FileMetadata{}, io.NopCloser(strings.NewReader(f.content)), nil
}

func (f *fakeFiles) Upload(arg *files.UploadArg, content io.Reader) (*files.FileMetadata, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	if f.uploads == nil {
		f.uploads = map[string]string{}
	}
	f.uploads[arg.Path] = string(data)
	f.uploadArgs = append(f.uploadArgs, arg)
	meta := &files.FileMetadata{Size: uint64(len(data))}
	meta.PathDisplay = arg.Path
	return meta, nil
}

func fileMeta(id, name, dir string, modified time.Time) *files.FileMetadata {
	m := &files.FileMetadata{Id: id, ServerModified: modified, Size: 42}
	m.Name = name
	m.PathDisplay = dir + "/" + name
	return m
}

func TestListFollowsCursorAndMapsEntries(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	folder := &files.FolderMetadata{Id: "id:folder"}
	folder.Name = "archive"
	folder.PathDisplay = "/Rec/archive"

	api := &fakeFiles{pages: []*files.ListFolderResult{
		{Entries: []files.IsMetadata{fileMeta("id:1", "a.mp4", "/Rec", now), folder}, Cursor: "c1", HasMore: true},
		{Entries: []files.IsMetadata{fileMeta("id:2", "b.mov", "/Rec", now)}, HasMore: false},
	}}
	store := newWithAPI(api)

	entries, err := store.List(context.Background(), "/Rec/")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "/Rec", api.listedPath)
	assert.Equal(t, []string{"c1"}, api.continued)

	assert.Equal(t, "id:1", entries[0].ID)
	assert.Equal(t, "/Rec/a.mp4", entries[0].Path)
	assert.Equal(t, "/Rec", entries[0].ParentPath)
	assert.Equal(t, now, entries[0].Modified)
	assert.EqualValues(t, 42, entries[0].Size)
	assert.False(t, entries[0].IsDir)
	assert.True(t, entries[1].IsDir)
	assert.Equal(t, "b.mov", entries[2].Name)
}

func TestListNotFoundMapsToSentinel(t *testing.T) {
	apiErr := files.ListFolderAPIError{
		APIError: sdk.APIError{ErrorSummary: "path/not_found/.."},
		EndpointError: &files.ListFolderError{
			Tagged: sdk.Tagged{Tag: files.ListFolderErrorPath},
			Path:   &files.LookupError{Tagged: sdk.Tagged{Tag: files.LookupErrorNotFound}},
		},
	}
	store := newWithAPI(&fakeFiles{listErr: apiErr})

	_, err := store.List(context.Background(), "/Missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, remote.ErrNotFound), "got %v", err)
}

func TestStatClassifiesPermissionAndRoot(t *testing.T) {
	store := newWithAPI(&fakeFiles{metaErr: errors.New("path/restricted_content/")})
	_, err := store.Stat(context.Background(), "/Private")
	assert.ErrorIs(t, err, remote.ErrPermission)

	info, err := store.Stat(context.Background(), "/")
	require.NoError(t, err)
	assert.True(t, info.IsDir)

	folder := &files.FolderMetadata{}
	folder.PathDisplay = "/Rec"
	store = newWithAPI(&fakeFiles{metadata: folder})
	info, err = store.Stat(context.Background(), "/Rec")
	require.NoError(t, err)
	assert.True(t, info.IsDir)
}

func TestDownloadAndUpload(t *testing.T) {
	api := &fakeFiles{content: "video-bytes"}
	store := newWithAPI(api)

	var buf bytes.Buffer
	require.NoError(t, store.Download(context.Background(), "/Rec/a.mp4", &buf))
	assert.Equal(t, "video-bytes", buf.String())

	require.NoError(t, store.Upload(context.Background(), strings.NewReader("# Notes"), "/Out/a.md", true))
	assert.Equal(t, "# Notes", api.uploads["/Out/a.md"])
	require.Len(t, api.uploadArgs, 1)
	assert.True(t, api.uploadArgs[0].Mute)
	assert.Equal(t, files.WriteModeOverwrite, api.uploadArgs[0].Mode.Tag)
}

func TestCancelledContextSkipsCalls(t *testing.T) {
	api := &fakeFiles{}
	store := newWithAPI(api)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.List(ctx, "/Rec")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, api.listedPath)
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New("  ")
	assert.Error(t, err)
}
