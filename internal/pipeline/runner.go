package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"vidnotes/internal/fetcher"
	"vidnotes/internal/generator"
	"vidnotes/internal/logging"
	"vidnotes/internal/mediajob"
	"vidnotes/internal/notifications"
	"vidnotes/internal/publisher"
	"vidnotes/internal/remote"
	"vidnotes/internal/selector"
	"vidnotes/internal/services"
	"vidnotes/internal/staging"
	"vidnotes/internal/state"
)

// Deps are the external collaborators of a Runner.
type Deps struct {
	Store    remote.Store
	State    state.Store
	Media    mediajob.Service
	Model    generator.Model
	Notifier notifications.Service
}

// Runner executes batch passes.
type Runner struct {
	settings  Settings
	store     remote.Store
	state     state.Store
	notifier  notifications.Service
	fetcher   *fetcher.Fetcher
	jobs      *mediajob.Client
	generator *generator.Generator
	publisher *publisher.Publisher
	clock     mediajob.Clock
	runID     string
	logger    *slog.Logger
}

// Option configures optional Runner behavior.
type Option func(*runnerOptions)

type runnerOptions struct {
	clock  mediajob.Clock
	logger *slog.Logger
	runID  string
}

// WithClock substitutes the clock used for selection and job polling.
func WithClock(clock mediajob.Clock) Option {
	return func(o *runnerOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *runnerOptions) { o.logger = logger }
}

// WithRunID tags the run's logs and summary.
func WithRunID(id string) Option {
	return func(o *runnerOptions) { o.runID = id }
}

// New wires a Runner from settings and deps.
func New(settings Settings, deps Deps, opts ...Option) *Runner {
	options := runnerOptions{clock: mediajob.SystemClock{}}
	for _, opt := range opts {
		opt(&options)
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notifications.NewService(nil)
	}
	base := options.logger
	return &Runner{
		settings:  settings,
		store:     deps.Store,
		state:     deps.State,
		notifier:  notifier,
		fetcher:   fetcher.New(deps.Store, settings.ScratchDir, base),
		jobs:      mediajob.NewClient(deps.Media, mediajob.WithClock(options.clock), mediajob.WithLogger(base)),
		generator: generator.New(deps.Model, settings.Gate, base),
		publisher: publisher.New(deps.Store, settings.OutputDir, settings.ScratchDir, base),
		clock:     options.clock,
		runID:     options.runID,
		logger:    logging.NewComponentLogger(base, "pipeline"),
	}
}

// Run performs one pass. It returns an error when the run aborts or the
// processed set cannot be saved. Per-candidate failures appear only in
// Summary.Outcomes.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if r.runID != "" {
		ctx = services.WithRunID(ctx, r.runID)
	}
	logger := logging.WithContext(ctx, r.logger)
	summary := Summary{RunID: r.runID, Started: r.clock.Now(), DryRun: r.settings.DryRun}

	if !r.settings.DryRun {
		staging.CleanStale(ctx, r.settings.ScratchDir, r.settings.ScratchMaxAge, r.logger)
	}

	processed, err := r.state.Load(ctx)
	if err != nil {
		return r.abort(ctx, summary, services.Wrap(services.ErrConfiguration, "state", "load", "cannot read processed set", err))
	}

	entries, err := r.listWatchDir(ctx)
	if err != nil {
		return r.abort(ctx, summary, err)
	}
	summary.Listed = len(entries)

	selection := selector.Select(entries, processed, r.settings.Selection, r.clock.Now())
	for _, skipped := range selection.Skipped {
		logger.Debug("entry skipped",
			logging.Path(skipped.Entry.Path),
			logging.String("reason", string(skipped.Reason)),
		)
	}
	summary.Candidates = selection.Candidates
	summary.Selected = len(selection.Candidates)
	logger.Info("candidates selected",
		logging.String(logging.FieldEventType, "candidates_selected"),
		logging.Int("listed", summary.Listed),
		logging.Int("selected", summary.Selected),
		logging.Int("known", processed.Len()),
	)

	if r.settings.DryRun {
		summary.Finished = r.clock.Now()
		return summary, nil
	}

	for _, entry := range selection.Candidates {
		if ctx.Err() != nil {
			logging.WarnWithContext(logger, "run interrupted; remaining candidates skipped", "run_interrupted",
				logging.Int("remaining", summary.Selected-len(summary.Outcomes)),
				logging.String(logging.FieldErrorHint, "rerun to pick up the remaining recordings"),
				logging.String(logging.FieldImpact, "unprocessed recordings wait for the next run"),
			)
			break
		}
		outcome := r.processCandidate(ctx, entry)
		if outcome.OK() {
			processed.Add(entry.Path)
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	saveErr := r.state.Save(context.WithoutCancel(ctx), processed)
	summary.Finished = r.clock.Now()

	report := notifications.RunReport{
		Selected:  summary.Selected,
		Processed: summary.Processed(),
		Failed:    summary.Failed(),
		Duration:  summary.Duration(),
	}
	if err := r.notifier.NotifyRunCompleted(context.WithoutCancel(ctx), report); err != nil {
		logging.WarnWithContext(logger, "run notification failed", "notify_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			logging.String(logging.FieldImpact, "run summary not pushed"),
		)
	}

	logger.Info("run complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("processed", report.Processed),
		logging.Int("failed", report.Failed),
		logging.Duration("elapsed", report.Duration),
	)

	if saveErr != nil {
		return summary, services.Wrap(services.ErrTransient, "state", "save", "processed set not persisted", saveErr)
	}
	return summary, ctx.Err()
}

func (r *Runner) listWatchDir(ctx context.Context) ([]remote.Entry, error) {
	dir := r.settings.WatchDir
	info, err := r.store.Stat(ctx, dir)
	if err != nil {
		return nil, classifyRemote(err, "stat", "watch folder "+dir)
	}
	if !info.IsDir {
		return nil, services.Wrap(services.ErrConfiguration, "remote", "stat", "watch folder "+dir+" is not a folder", nil)
	}
	entries, err := r.store.List(ctx, dir)
	if err != nil {
		return nil, classifyRemote(err, "list", "watch folder "+dir)
	}
	return entries, nil
}

func classifyRemote(err error, op, subject string) error {
	switch {
	case errors.Is(err, remote.ErrNotFound):
		return services.Wrap(services.ErrNotFound, "remote", op, subject+" not found", err)
	case errors.Is(err, remote.ErrPermission):
		return services.Wrap(services.ErrConfiguration, "remote", op, subject+" not accessible", err)
	default:
		return services.Wrap(services.ErrExternalTool, "remote", op, subject, err)
	}
}

func (r *Runner) abort(ctx context.Context, summary Summary, err error) (Summary, error) {
	summary.Finished = r.clock.Now()
	logging.ErrorWithContext(logging.WithContext(ctx, r.logger), "run aborted", "run_aborted",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, services.Hint(err)),
	)
	if notifyErr := r.notifier.NotifyError(context.WithoutCancel(ctx), err, "run"); notifyErr != nil {
		r.logger.Debug("error notification failed", logging.Error(notifyErr))
	}
	return summary, err
}
