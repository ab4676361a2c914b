package mediajob

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vidnotes/internal/logging"
)

const (
	// DefaultPollInterval is the delay between status checks.
	DefaultPollInterval = 15 * time.Second
	// DefaultTimeout bounds how long a job may stay non-terminal.
	DefaultTimeout = 30 * time.Minute
)

// Client wraps a Service with polling and cleanup policy.
type Client struct {
	svc    Service
	clock  Clock
	logger *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithClock overrides the clock used for polling (useful for tests).
func WithClock(clock Clock) Option {
	return func(c *Client) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "mediajob")
	}
}

// NewClient constructs a Client for svc.
func NewClient(svc Service, opts ...Option) *Client {
	c := &Client{svc: svc, clock: SystemClock{}, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit uploads the local file. The MIME type comes from hint when it is a
// video type, otherwise from the file extension.
func (c *Client) Submit(ctx context.Context, localPath, displayName, mimeHint string) (Job, error) {
	logger := logging.WithContext(ctx, c.logger)
	name := displayName
	if name == "" {
		name = localPath
	}
	mimeType := ResolveMIME(mimeHint, name)
	if mimeType == "" {
		logging.WarnWithContext(logger, "could not determine video MIME type; service will infer it", "mime_unknown",
			logging.String("file", name),
			logging.String(logging.FieldErrorHint, "add the extension to the video MIME table or rename the file"),
			logging.String(logging.FieldImpact, "the media service may reject the upload"),
		)
	}
	job, err := c.svc.Submit(ctx, localPath, displayName, mimeType)
	if err != nil {
		return Job{}, fmt.Errorf("submit %s: %w", displayName, err)
	}
	if job.State == "" {
		job.State = StateQueued
	}
	logger.Info("media job submitted",
		logging.Handle(job.Handle),
		logging.String("mime_type", mimeType),
		logging.String("state", string(job.State)),
		logging.String(logging.FieldEventType, "job_submitted"),
	)
	return job, nil
}

// AwaitTerminal polls until job leaves the queued state. The timeout is
// checked before every sleep, and transient status errors are retried on the
// next interval. Every non-success exit attempts to delete the remote job.
// Zero durations select the defaults.
func (c *Client) AwaitTerminal(ctx context.Context, job Job, timeout, interval time.Duration) (Job, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := logging.WithContext(ctx, c.logger)
	started := c.clock.Now()
	current := job
	polls := 0

	for !current.State.Terminal() {
		elapsed := c.clock.Now().Sub(started)
		if elapsed >= timeout {
			c.discard(ctx, job.Handle, "timeout")
			return current, &TimeoutError{Handle: job.Handle, LastState: current.State, Elapsed: elapsed, Limit: timeout}
		}
		if err := c.clock.Sleep(ctx, interval); err != nil {
			c.discard(ctx, job.Handle, "cancelled")
			return current, err
		}
		polls++
		next, err := c.svc.Status(ctx, job.Handle)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				c.discard(ctx, job.Handle, "cancelled")
				return current, ctxErr
			}
			logging.WarnWithContext(logger, "media job status check failed; retrying", "job_poll_failed",
				logging.Handle(job.Handle),
				logging.Int("poll", polls),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "transient API errors are retried until the processing timeout"),
				logging.String(logging.FieldImpact, "job completion may be detected late"),
			)
			continue
		}
		current = merge(current, next)
		logger.Debug("media job state",
			logging.Handle(job.Handle),
			logging.String("state", string(current.State)),
			logging.Duration("elapsed", c.clock.Now().Sub(started)),
		)
	}

	if current.State == StateSucceeded {
		logger.Info("media job ready",
			logging.Handle(current.Handle),
			logging.Int("polls", polls),
			logging.Duration("elapsed", c.clock.Now().Sub(started)),
			logging.String(logging.FieldEventType, "job_succeeded"),
		)
		return current, nil
	}
	c.discard(ctx, job.Handle, string(current.State))
	return current, &JobError{Handle: current.Handle, State: current.State, Detail: current.ErrorDetail}
}

// Release deletes the remote job once it is no longer needed. Failures are
// logged, never returned.
func (c *Client) Release(ctx context.Context, job Job) {
	if job.Handle == "" {
		return
	}
	c.discard(ctx, job.Handle, "released")
}

func (c *Client) discard(ctx context.Context, handle, reason string) {
	if handle == "" {
		return
	}
	logger := logging.WithContext(ctx, c.logger)
	if err := c.svc.Delete(context.WithoutCancel(ctx), handle); err != nil {
		logging.WarnWithContext(logger, "failed to delete remote media job", "job_delete_failed",
			logging.Handle(handle),
			logging.String("reason", reason),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the service expires uploaded files automatically"),
			logging.String(logging.FieldImpact, "remote storage quota stays in use until expiry"),
		)
		return
	}
	logger.Debug("remote media job deleted", logging.Handle(handle), logging.String("reason", reason))
}

// merge keeps fields the status response omitted.
func merge(prev, next Job) Job {
	if next.Handle == "" {
		next.Handle = prev.Handle
	}
	if next.URI == "" {
		next.URI = prev.URI
	}
	if next.MIMEType == "" {
		next.MIMEType = prev.MIMEType
	}
	if next.DisplayName == "" {
		next.DisplayName = prev.DisplayName
	}
	if next.State == "" {
		next.State = StateQueued
	}
	return next
}

// IsJobError reports whether err came from a failed, cancelled or timed out job.
func IsJobError(err error) bool {
	return errors.Is(err, ErrJobFailed) || errors.Is(err, ErrTimeout)
}
