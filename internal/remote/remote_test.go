package remote_test

import (
	"testing"

	"vidnotes/internal/remote"
)

func TestEntryNameHelpers(t *testing.T) {
	entry := remote.Entry{Name: "Team Sync.MP4"}
	if entry.Ext() != ".mp4" {
		t.Fatalf("unexpected ext: %q", entry.Ext())
	}
	if entry.BaseName() != "Team Sync" {
		t.Fatalf("unexpected base name: %q", entry.BaseName())
	}
	if (remote.Entry{Name: "README"}).Ext() != "" {
		t.Fatal("expected empty ext for extensionless name")
	}
}

func TestJoin(t *testing.T) {
	if got := remote.Join("/Meetings/Descriptions", "a.md"); got != "/Meetings/Descriptions/a.md" {
		t.Fatalf("unexpected join: %q", got)
	}
	if got := remote.Join("", "a.md"); got != "a.md" {
		t.Fatalf("unexpected join: %q", got)
	}
	if got := remote.Join("notes/", "a.md"); got != "notes/a.md" {
		t.Fatalf("unexpected join: %q", got)
	}
}
