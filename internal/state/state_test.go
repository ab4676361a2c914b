package state_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"vidnotes/internal/logging"
	"vidnotes/internal/state"
)

func TestProcessedSetOperations(t *testing.T) {
	set := state.NewProcessedSet("/b.mp4", "", "/a.mp4")
	if set.Len() != 2 {
		t.Fatalf("expected 2 paths, got %d", set.Len())
	}
	if !set.Add("/c.mp4") || set.Add("/c.mp4") {
		t.Fatal("expected Add to report first insert only")
	}
	if !set.Has("/a.mp4") || set.Has("/z.mp4") {
		t.Fatal("unexpected Has results")
	}
	if !set.Remove("/b.mp4") || set.Remove("/b.mp4") {
		t.Fatal("expected Remove to report first removal only")
	}
	if got := set.Paths(); !reflect.DeepEqual(got, []string{"/a.mp4", "/c.mp4"}) {
		t.Fatalf("unexpected paths: %v", got)
	}
}

func TestJSONStoreRoundTripAndLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "processed_files.json")
	store := state.NewJSONFileStore(path, logging.NewNop())
	ctx := context.Background()

	set, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set for missing file, got %d", set.Len())
	}

	set.Add("/Rec/b.mov")
	set.Add("/Rec/a.mp4")
	if err := store.Save(ctx, set); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read state file: %v", err)
	}
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("state file is not a JSON array: %v", err)
	}
	if !reflect.DeepEqual(raw, []string{"/Rec/a.mp4", "/Rec/b.mov"}) {
		t.Fatalf("unexpected persisted layout: %v", raw)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away, stat err=%v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !loaded.Has("/Rec/a.mp4") || !loaded.Has("/Rec/b.mov") {
		t.Fatalf("unexpected loaded set: %v", loaded.Paths())
	}
}

func TestJSONStoreCorruptFileYieldsEmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_files.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	store := state.NewJSONFileStore(path, nil)
	set, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("expected corrupt file to be tolerated, got %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %v", set.Paths())
	}
}

func TestSQLiteStoreSaveReplacesContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := state.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if err := store.Save(ctx, state.NewProcessedSet("/a.mp4", "/b.mp4")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	first, err := store.Records(ctx)
	if err != nil {
		t.Fatalf("Records returned error: %v", err)
	}
	if len(first) != 2 || first[0].ProcessedAt.IsZero() {
		t.Fatalf("unexpected records: %+v", first)
	}

	if err := store.Save(ctx, state.NewProcessedSet("/a.mp4", "/c.mp4")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := loaded.Paths(); !reflect.DeepEqual(got, []string{"/a.mp4", "/c.mp4"}) {
		t.Fatalf("unexpected paths after replace: %v", got)
	}
	second, err := store.Records(ctx)
	if err != nil {
		t.Fatalf("Records returned error: %v", err)
	}
	if !second[0].ProcessedAt.Equal(first[0].ProcessedAt) {
		t.Fatalf("expected /a.mp4 to keep its timestamp: %v vs %v", second[0].ProcessedAt, first[0].ProcessedAt)
	}
}

func TestSQLiteStoreReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := state.Open("sqlite", path, nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := store.Save(context.Background(), state.NewProcessedSet("/a.mp4")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := state.Open("sqlite", path, nil)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()
	set, err := reopened.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !set.Has("/a.mp4") {
		t.Fatalf("expected persisted path, got %v", set.Paths())
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	if _, err := state.Open("redis", "x", nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
