// Package pipeline runs one batch pass: list the watch folder, select new
// recordings and drive each through fetch, media upload, generation and
// publishing.
//
// Candidates are processed strictly one at a time in listing order. A
// per-candidate failure becomes an Outcome and the loop moves on; only state,
// watch-folder and listing failures abort the run. Scratch files and the
// remote media job are released on every exit path, and the processed set is
// saved even when the run is interrupted so completed work is not repeated.
package pipeline
