package pipeline

import (
	"time"

	"vidnotes/internal/remote"
)

// Kind tags the result of processing one candidate.
type Kind string

const (
	KindProcessed        Kind = "processed"
	KindDownloadFailed   Kind = "download_failed"
	KindSubmitFailed     Kind = "submit_failed"
	KindJobFailed        Kind = "job_failed"
	KindJobTimeout       Kind = "job_timeout"
	KindInterrupted      Kind = "interrupted"
	KindGenerationFailed Kind = "generation_failed"
	KindBlocked          Kind = "blocked"
	KindPublishFailed    Kind = "publish_failed"
	KindPartialPublish   Kind = "partial_publish"
)

// Outcome is the result for one candidate.
type Outcome struct {
	Entry   remote.Entry
	Kind    Kind
	Reason  string
	Err     error
	Elapsed time.Duration
	// Published lists the remote paths that were uploaded.
	Published []string
}

// OK reports whether the candidate was marked processed.
func (o Outcome) OK() bool { return o.Kind == KindProcessed }

// Summary describes one batch pass.
type Summary struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Listed   int
	Selected int
	DryRun   bool
	// Candidates holds the selected entries in processing order.
	Candidates []remote.Entry
	Outcomes   []Outcome
}

// Count returns the number of outcomes of kind.
func (s Summary) Count(kind Kind) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// Processed returns the number of candidates marked processed.
func (s Summary) Processed() int { return s.Count(KindProcessed) }

// Failed returns the number of candidates that were attempted but not marked
// processed.
func (s Summary) Failed() int { return len(s.Outcomes) - s.Processed() }

// Duration is the wall time of the pass.
func (s Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}
