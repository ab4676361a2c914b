package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vidnotes/internal/config"
	"vidnotes/internal/remote"
	"vidnotes/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCredentials(t *testing.T) {
	cfg := config.Default()
	result := CheckCredentials(&cfg)
	if result.Passed {
		t.Fatal("expected failure without credentials")
	}
	if !strings.Contains(result.Detail, "GEMINI_API_KEY") || !strings.Contains(result.Detail, "DROPBOX_ACCESS_TOKEN") {
		t.Fatalf("detail should name missing variables, got %q", result.Detail)
	}

	cfg.Gemini.APIKey = "g"
	cfg.Remote.Backend = "s3"
	cfg.Remote.S3.AccessKey = "a"
	result = CheckCredentials(&cfg)
	if result.Passed || !strings.Contains(result.Detail, "S3_SECRET_KEY") {
		t.Fatalf("expected missing secret key, got %+v", result)
	}

	cfg.Remote.S3.SecretKey = "s"
	if result = CheckCredentials(&cfg); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
}

func TestCheckPromptFiles(t *testing.T) {
	cfg := config.Default()
	if result := CheckPromptFiles(&cfg); !result.Passed || result.Detail != "built-in template" {
		t.Fatalf("unexpected result %+v", result)
	}
	cfg.Paths.ExampleFile = filepath.Join(t.TempDir(), "missing.md")
	if result := CheckPromptFiles(&cfg); result.Passed {
		t.Fatal("expected failure for unreadable example")
	}
}

func TestCheckRemoteFolder(t *testing.T) {
	store := testsupport.NewFakeRemote("/Videos")
	store.AddFile("/Videos/a.mp4", "id:a", []byte("x"), time.Now())

	if r := CheckRemoteFolder(context.Background(), store, "Watch", "/Videos"); !r.Passed {
		t.Fatalf("expected pass, got %s", r.Detail)
	}
	if r := CheckRemoteFolder(context.Background(), store, "Watch", "/Missing"); r.Passed || !strings.Contains(r.Detail, "not found") {
		t.Fatalf("expected not found, got %+v", r)
	}
	if r := CheckRemoteFolder(context.Background(), store, "Watch", "/Videos/a.mp4"); r.Passed {
		t.Fatal("expected failure for a file path")
	}
	store.StatErr = remote.ErrPermission
	if r := CheckRemoteFolder(context.Background(), store, "Watch", "/Videos"); r.Passed || !strings.Contains(r.Detail, "permission") {
		t.Fatalf("expected permission failure, got %+v", r)
	}
}

func TestCheckScratchUsage(t *testing.T) {
	dir := t.TempDir()
	if r := CheckScratchUsage(dir, time.Hour); !r.Passed || r.Detail != "empty" {
		t.Fatalf("unexpected %+v", r)
	}
	path := filepath.Join(dir, "video_a_b.mp4")
	if err := os.WriteFile(path, []byte("1234"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}
	r := CheckScratchUsage(dir, time.Hour)
	if !strings.Contains(r.Detail, "1 files, 4 bytes") || !strings.Contains(r.Detail, "1 stale") {
		t.Fatalf("unexpected detail %q", r.Detail)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_WithStore(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.ScratchDir = t.TempDir()
	cfg.State.Path = filepath.Join(t.TempDir(), "processed_files.json")
	cfg.Gemini.APIKey = "key"
	cfg.Remote.Dropbox.AccessToken = "token"
	cfg.Remote.WatchDir = "/Videos"
	cfg.Remote.OutputDir = "/Output"

	store := testsupport.NewFakeRemote("/Videos", "/Output")
	results := RunAll(context.Background(), &cfg, store)
	if len(results) != 7 {
		t.Fatalf("expected 7 results, got %d", len(results))
	}
	if Failed(results) {
		for _, r := range results {
			if !r.Passed {
				t.Errorf("check %q failed: %s", r.Name, r.Detail)
			}
		}
	}

	without := RunAll(context.Background(), &cfg, nil)
	if len(without) != 5 {
		t.Fatalf("expected remote checks skipped without a store, got %d", len(without))
	}
}
