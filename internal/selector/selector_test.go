package selector_test

import (
	"testing"
	"time"

	"vidnotes/internal/remote"
	"vidnotes/internal/selector"
	"vidnotes/internal/state"
)

var now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func entry(name string, age time.Duration) remote.Entry {
	return remote.Entry{ID: "id:" + name, Name: name, Path: "/Rec/" + name, Modified: now.Add(-age)}
}

func defaultOptions() selector.Options {
	return selector.Options{
		Extensions: []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".flv"},
		Window:     24 * time.Hour,
	}
}

func TestSelectKeepsRecentUnprocessedVideosInOrder(t *testing.T) {
	entries := []remote.Entry{
		entry("meeting1.mp4", time.Hour),
		entry("notes.txt", time.Hour),
		entry("meeting2.MOV", 2*time.Hour),
		entry("old.mp4", 48*time.Hour),
		entry("done.avi", time.Hour),
		{Name: "archive", Path: "/Rec/archive", IsDir: true, Modified: now},
	}
	processed := state.NewProcessedSet("/Rec/done.avi")

	res := selector.Select(entries, processed, defaultOptions(), now)

	if len(res.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", res.Candidates)
	}
	if res.Candidates[0].Name != "meeting1.mp4" || res.Candidates[1].Name != "meeting2.MOV" {
		t.Fatalf("unexpected candidate order: %s, %s", res.Candidates[0].Name, res.Candidates[1].Name)
	}

	reasons := map[string]selector.SkipReason{}
	for _, s := range res.Skipped {
		reasons[s.Entry.Name] = s.Reason
	}
	want := map[string]selector.SkipReason{
		"notes.txt": selector.SkipExtension,
		"old.mp4":   selector.SkipStale,
		"done.avi":  selector.SkipProcessed,
		"archive":   selector.SkipFolder,
	}
	for name, reason := range want {
		if reasons[name] != reason {
			t.Fatalf("expected %s skipped as %s, got %q", name, reason, reasons[name])
		}
	}
}

func TestSelectNeverReturnsProcessedOrNonVideo(t *testing.T) {
	var entries []remote.Entry
	names := []string{"a.mp4", "b.webm", "c.pdf", "d.flv", "e", "f.mkv.part", "g.MKV"}
	for _, n := range names {
		entries = append(entries, entry(n, time.Minute))
	}
	processed := state.NewProcessedSet("/Rec/a.mp4", "/Rec/g.MKV")
	opts := defaultOptions()

	res := selector.Select(entries, processed, opts, now)
	for _, c := range res.Candidates {
		if processed.Has(c.Path) {
			t.Fatalf("processed path selected: %s", c.Path)
		}
		ok := false
		for _, ext := range opts.Extensions {
			if c.Ext() == ext {
				ok = true
			}
		}
		if !ok {
			t.Fatalf("non-video selected: %s", c.Name)
		}
	}
	if len(res.Candidates) != 2 {
		t.Fatalf("expected b.webm and d.flv, got %+v", res.Candidates)
	}
}

func TestSelectWindowBoundaryAndNoMutation(t *testing.T) {
	entries := []remote.Entry{entry("edge.mp4", 24*time.Hour), entry("past.mp4", 24*time.Hour+time.Second)}
	processed := state.NewProcessedSet()

	res := selector.Select(entries, processed, defaultOptions(), now)
	if len(res.Candidates) != 1 || res.Candidates[0].Name != "edge.mp4" {
		t.Fatalf("expected only edge.mp4 at the boundary, got %+v", res.Candidates)
	}
	if processed.Len() != 0 {
		t.Fatal("selection must not mutate the processed set")
	}
	if entries[0].Name != "edge.mp4" || len(entries) != 2 {
		t.Fatal("selection must not mutate the input slice")
	}
}

func TestSelectAcceptsExtensionsWithoutDot(t *testing.T) {
	opts := selector.Options{Extensions: []string{"MP4"}, Window: time.Hour}
	res := selector.Select([]remote.Entry{entry("x.mp4", time.Minute)}, nil, opts, now)
	if len(res.Candidates) != 1 {
		t.Fatalf("expected candidate with normalized extension, got %+v", res)
	}
}
