package main

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"vidnotes/internal/pipeline"
	"vidnotes/internal/remote"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Watch folder", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Watch folder:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Processed", statusOK, "3", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestOutcomeStatus(t *testing.T) {
	cases := map[pipeline.Kind]statusKind{
		pipeline.KindProcessed:      statusOK,
		pipeline.KindBlocked:        statusWarn,
		pipeline.KindPartialPublish: statusWarn,
		pipeline.KindInterrupted:    statusWarn,
		pipeline.KindJobTimeout:     statusError,
		pipeline.KindDownloadFailed: statusError,
	}
	for kind, want := range cases {
		if got := outcomeStatus(kind); got != want {
			t.Fatalf("outcomeStatus(%s) = %v, want %v", kind, got, want)
		}
	}
}

func TestRenderSummaryCountsOutcomes(t *testing.T) {
	started := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	summary := pipeline.Summary{
		RunID:    "0123456789abcdef",
		Started:  started,
		Finished: started.Add(90 * time.Second),
		Listed:   5,
		Selected: 3,
		Outcomes: []pipeline.Outcome{
			{Entry: remote.Entry{Name: "meeting1.mp4"}, Kind: pipeline.KindProcessed},
			{Entry: remote.Entry{Name: "meeting2.mov"}, Kind: pipeline.KindJobFailed, Reason: "corrupt stream"},
		},
	}
	out := renderSummary(summary, false)
	for _, want := range []string{"Run 01234567", "meeting2.mov", "corrupt stream", "1 processed", "1 failed", "1m30s", "(interrupted)"} {
		requireContains(t, out, want)
	}
	if strings.Contains(out, ansiReset) {
		t.Fatalf("expected no color codes, got %q", out)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatal("expected non-file writer to disable color")
	}
}
