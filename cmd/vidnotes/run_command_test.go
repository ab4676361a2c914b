package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidnotes/internal/runlock"
	"vidnotes/internal/services"
	"vidnotes/internal/state"
	"vidnotes/internal/testsupport"
)

func TestRunProcessesNewRecordings(t *testing.T) {
	env := setupCLITestEnv(t)
	recent := time.Now().Add(-time.Hour)
	env.store.AddFile("/Videos/lesson_one.mp4", "id:1", testsupport.VideoBytes(128), recent)
	env.store.AddFile("/Videos/notes.txt", "id:2", []byte("not a video"), recent)
	env.media.RespondText("lesson_one.mp4", "# Lesson One\n\n"+strings.Repeat("A worked explanation. ", 10))

	out, _, err := env.run(t, "run")
	require.NoError(t, err)
	requireContains(t, out, "lesson_one.mp4")
	requireContains(t, out, "processed")

	assert.Equal(t, []string{"/Output/lesson_one.md", "/Output/lesson_one.html"}, env.store.UploadedPaths())
	html, ok := env.store.Content("/Output/lesson_one.html")
	require.True(t, ok)
	assert.Contains(t, html, "<title>Lesson One</title>")
	assert.True(t, env.media.closed, "media backend must be closed after the run")

	st, err := state.Open(env.cfg.State.Backend, env.cfg.State.Path, nil)
	require.NoError(t, err)
	defer st.Close()
	set, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/Videos/lesson_one.mp4"}, set.Paths())
}

func TestRunDryRunListsCandidates(t *testing.T) {
	env := setupCLITestEnv(t)
	env.store.AddFile("/Videos/a.mov", "id:a", testsupport.VideoBytes(2048), time.Now().Add(-time.Hour))
	env.store.AddFile("/Videos/old.mp4", "id:o", testsupport.VideoBytes(10), time.Now().Add(-72*time.Hour))

	out, _, err := env.run(t, "run", "--dry-run")
	require.NoError(t, err)
	requireContains(t, out, "Dry run")
	requireContains(t, out, "/Videos/a.mov")
	requireContains(t, out, "2.0 kB")
	requireContains(t, out, "2 listed, 1 would be processed")
	assert.NotContains(t, out, "old.mp4")

	assert.Equal(t, 0, env.mediaOpens, "dry run never opens the media service")
	assert.Empty(t, env.store.Uploads)
}

func TestRunMissingWatchFolderFails(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Remote.WatchDir = "/Nowhere"
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := env.run(t, "run")
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func TestRunRefusesConcurrentRun(t *testing.T) {
	env := setupCLITestEnv(t)
	lock, err := runlock.Acquire(env.cfg.State.Path)
	require.NoError(t, err)
	defer lock.Release()

	_, _, err = env.run(t, "run")
	require.Error(t, err)
	assert.ErrorIs(t, err, runlock.ErrHeld)
}
