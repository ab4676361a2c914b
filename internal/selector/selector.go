// Package selector decides which listed remote entries are new recordings
// worth processing.
package selector

import (
	"strings"
	"time"

	"vidnotes/internal/remote"
	"vidnotes/internal/state"
)

// SkipReason explains why an entry was not selected.
type SkipReason string

const (
	SkipFolder    SkipReason = "folder"
	SkipStale     SkipReason = "outside_window"
	SkipExtension SkipReason = "not_video"
	SkipProcessed SkipReason = "already_processed"
)

// Options configures selection.
type Options struct {
	// Extensions are lower-case, dot-prefixed video extensions.
	Extensions []string
	// Window is how far back from now a modification may be.
	Window time.Duration
}

// Skipped pairs an entry with the reason it was excluded.
type Skipped struct {
	Entry  remote.Entry
	Reason SkipReason
}

// Result holds the selected candidates in listing order plus the skips.
type Result struct {
	Candidates []remote.Entry
	Skipped    []Skipped
}

// Select filters entries down to unprocessed, recent video files. It does not
// mutate its inputs.
func Select(entries []remote.Entry, processed *state.ProcessedSet, opts Options, now time.Time) Result {
	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}
	cutoff := now.Add(-opts.Window)

	var res Result
	for _, entry := range entries {
		if reason, skip := check(entry, processed, exts, cutoff); skip {
			res.Skipped = append(res.Skipped, Skipped{Entry: entry, Reason: reason})
			continue
		}
		res.Candidates = append(res.Candidates, entry)
	}
	return res
}

func check(entry remote.Entry, processed *state.ProcessedSet, exts map[string]struct{}, cutoff time.Time) (SkipReason, bool) {
	if entry.IsDir {
		return SkipFolder, true
	}
	if entry.Modified.Before(cutoff) {
		return SkipStale, true
	}
	if _, ok := exts[entry.Ext()]; !ok {
		return SkipExtension, true
	}
	if processed.Has(entry.Path) {
		return SkipProcessed, true
	}
	return "", false
}
