package mediajob

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// State is the canonical lifecycle state of a remote media job.
type State string

const (
	StateQueued    State = "queued"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Terminal reports whether no further transitions are expected.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

// Job is a handle to a remote upload plus its last observed state.
type Job struct {
	Handle      string
	URI         string
	MIMEType    string
	DisplayName string
	State       State
	ErrorDetail string
}

// Service is the provider-side contract for media jobs.
type Service interface {
	Submit(ctx context.Context, localPath, displayName, mimeType string) (Job, error)
	Status(ctx context.Context, handle string) (Job, error)
	Delete(ctx context.Context, handle string) error
}

var (
	// ErrTimeout marks a job that stayed non-terminal past the processing timeout.
	ErrTimeout = errors.New("media job timed out")
	// ErrJobFailed marks a job that ended failed or cancelled.
	ErrJobFailed = errors.New("media job did not succeed")
)

// TimeoutError reports a job abandoned after the processing timeout.
type TimeoutError struct {
	Handle    string
	LastState State
	Elapsed   time.Duration
	Limit     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("media job %s still %s after %s (limit %s)", e.Handle, e.LastState, e.Elapsed.Round(time.Second), e.Limit)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// JobError reports a job that reached failed or cancelled.
type JobError struct {
	Handle string
	State  State
	Detail string
}

func (e *JobError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("media job %s %s", e.Handle, e.State)
	}
	return fmt.Sprintf("media job %s %s: %s", e.Handle, e.State, e.Detail)
}

func (e *JobError) Is(target error) bool { return target == ErrJobFailed }
