package pipeline

import (
	"context"
	"errors"

	"vidnotes/internal/fileutil"
	"vidnotes/internal/generator"
	"vidnotes/internal/logging"
	"vidnotes/internal/mediajob"
	"vidnotes/internal/remote"
	"vidnotes/internal/services"
)

const (
	stageFetch    = "fetch"
	stageSubmit   = "submit"
	stageAwait    = "await"
	stageGenerate = "generate"
	stagePublish  = "publish"
	stageCleanup  = "cleanup"
)

// processCandidate drives one entry through every stage. Scratch files are
// removed and a succeeded remote job is released before it returns.
func (r *Runner) processCandidate(ctx context.Context, entry remote.Entry) (outcome Outcome) {
	ctx = services.WithCandidate(ctx, entry.Name)
	started := r.clock.Now()
	outcome = Outcome{Entry: entry}

	var (
		job      mediajob.Job
		acquired bool
	)
	localPath := r.fetcher.ScratchPath(entry)
	defer func() {
		cleanupCtx := services.WithStage(context.WithoutCancel(ctx), stageCleanup)
		if acquired {
			r.jobs.Release(cleanupCtx, job)
		}
		paths := append([]string{localPath}, r.publisher.ScratchPaths(entry)...)
		if err := fileutil.RemoveFiles(paths...); err != nil {
			logging.WarnWithContext(logging.WithContext(cleanupCtx, r.logger), "scratch cleanup failed", "scratch_cleanup_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check scratch_dir permissions"),
				logging.String(logging.FieldImpact, "stale files are removed by the next run's staging cleanup"),
			)
		}
		outcome.Elapsed = r.clock.Now().Sub(started)
		r.logOutcome(ctx, outcome)
	}()

	if _, err := r.fetcher.Fetch(services.WithStage(ctx, stageFetch), entry); err != nil {
		return fail(outcome, KindDownloadFailed, "", err)
	}

	submitted, err := r.jobs.Submit(services.WithStage(ctx, stageSubmit), localPath, entry.Name, entry.MIMEType)
	if err != nil {
		return fail(outcome, KindSubmitFailed, "", err)
	}

	job, err = r.jobs.AwaitTerminal(services.WithStage(ctx, stageAwait), submitted, r.settings.ProcessingTimeout, r.settings.PollInterval)
	if err != nil {
		switch {
		case errors.Is(err, mediajob.ErrTimeout):
			return fail(outcome, KindJobTimeout, string(job.State), err)
		case !mediajob.IsJobError(err):
			return fail(outcome, KindInterrupted, string(job.State), err)
		}
		reason := string(job.State)
		var jobErr *mediajob.JobError
		if errors.As(err, &jobErr) && jobErr.Detail != "" {
			reason = jobErr.Detail
		}
		return fail(outcome, KindJobFailed, reason, err)
	}
	acquired = true

	result, err := r.generator.Generate(services.WithStage(ctx, stageGenerate), generator.Request{
		Template: r.settings.Prompt.Template,
		Example:  r.settings.Prompt.Example,
		Params:   r.settings.Params,
		Job:      job,
	})
	if err != nil {
		return fail(outcome, KindGenerationFailed, "", err)
	}
	if result.Blocked || result.Text == "" {
		return fail(outcome, KindBlocked, result.Reason,
			services.Wrap(services.ErrValidation, stageGenerate, "safety gate", "response rejected: "+result.Reason, nil))
	}

	published := r.publisher.Publish(services.WithStage(ctx, stagePublish), entry, result.Text)
	for _, res := range []struct {
		ok   bool
		path string
	}{
		{published.Primary.OK(), published.Primary.Artifact.RemotePath},
		{published.Secondary.OK(), published.Secondary.Artifact.RemotePath},
	} {
		if res.ok {
			outcome.Published = append(outcome.Published, res.path)
		}
	}
	switch {
	case published.OK():
		outcome.Kind = KindProcessed
		return outcome
	case len(outcome.Published) > 0:
		return fail(outcome, KindPartialPublish, "", published.Err())
	default:
		return fail(outcome, KindPublishFailed, "", published.Err())
	}
}

func fail(outcome Outcome, kind Kind, reason string, err error) Outcome {
	outcome.Kind = kind
	outcome.Reason = reason
	outcome.Err = err
	return outcome
}

func (r *Runner) logOutcome(ctx context.Context, outcome Outcome) {
	logger := logging.WithContext(ctx, r.logger)
	if outcome.OK() {
		logger.Info("candidate processed",
			logging.String(logging.FieldEventType, "candidate_processed"),
			logging.Path(outcome.Entry.Path),
			logging.Duration("elapsed", outcome.Elapsed),
		)
		return
	}
	attrs := []logging.Attr{
		logging.Path(outcome.Entry.Path),
		logging.String("outcome", string(outcome.Kind)),
		logging.Duration("elapsed", outcome.Elapsed),
		logging.String(logging.FieldErrorHint, hintFor(outcome.Kind)),
		logging.String(logging.FieldImpact, "recording stays unprocessed and is retried next run"),
	}
	if outcome.Reason != "" {
		attrs = append(attrs, logging.String("reason", outcome.Reason))
	}
	if outcome.Err != nil {
		attrs = append(attrs, logging.Error(outcome.Err))
	}
	logging.WarnWithContext(logger, "candidate not processed", "candidate_failed", attrs...)
}

func hintFor(kind Kind) string {
	switch kind {
	case KindDownloadFailed:
		return "check remote read access and scratch_dir free space"
	case KindSubmitFailed:
		return "check gemini api_key and upload quota"
	case KindJobFailed:
		return "the media service rejected the recording; check the file plays locally"
	case KindJobTimeout:
		return "raise gemini.processing_timeout_seconds for long recordings"
	case KindInterrupted:
		return "rerun vidnotes; the recording was not attempted to completion"
	case KindGenerationFailed:
		return "check gemini model name and API availability"
	case KindBlocked:
		return "the response was gated; review block_threshold and min_text_length"
	case KindPublishFailed, KindPartialPublish:
		return "check remote write access to output_dir"
	default:
		return "check logs for details"
	}
}
