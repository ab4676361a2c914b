package mediajob_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidnotes/internal/mediajob"
	"vidnotes/internal/testsupport"
)

var start = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newClient(svc mediajob.Service) (*mediajob.Client, *testsupport.FakeClock) {
	clock := testsupport.NewFakeClock(start)
	return mediajob.NewClient(svc, mediajob.WithClock(clock)), clock
}

func submit(t *testing.T, c *mediajob.Client, name string) mediajob.Job {
	t.Helper()
	job, err := c.Submit(context.Background(), "/scratch/"+name, name, "")
	require.NoError(t, err)
	return job
}

func TestAwaitTerminalSucceedsAfterQueuedPolls(t *testing.T) {
	svc := testsupport.NewFakeMediaService()
	svc.Script("meeting1.mp4",
		testsupport.StatusStep{State: mediajob.StateQueued},
		testsupport.StatusStep{State: mediajob.StateQueued},
		testsupport.StatusStep{State: mediajob.StateSucceeded},
	)
	client, clock := newClient(svc)
	job := submit(t, client, "meeting1.mp4")

	done, err := client.AwaitTerminal(context.Background(), job, time.Minute, 15*time.Second)
	require.NoError(t, err)
	assert.Equal(t, mediajob.StateSucceeded, done.State)
	assert.Equal(t, job.URI, done.URI, "status merge keeps the upload URI")
	assert.Equal(t, 3, svc.Polls[job.Handle])
	assert.Equal(t, []time.Duration{15 * time.Second, 15 * time.Second, 15 * time.Second}, clock.Sleeps())
	assert.Empty(t, svc.Deleted, "a succeeded job is kept for generation")
}

func TestAwaitTerminalFailedJobIsDeleted(t *testing.T) {
	svc := testsupport.NewFakeMediaService()
	svc.Script("meeting2.mov", testsupport.StatusStep{State: mediajob.StateFailed, Detail: "corrupt stream"})
	client, _ := newClient(svc)
	job := submit(t, client, "meeting2.mov")

	_, err := client.AwaitTerminal(context.Background(), job, time.Minute, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, mediajob.ErrJobFailed)
	var jobErr *mediajob.JobError
	require.True(t, errors.As(err, &jobErr))
	assert.Equal(t, "corrupt stream", jobErr.Detail)
	assert.Equal(t, mediajob.StateFailed, jobErr.State)
	assert.Equal(t, 1, svc.DeletedCount(job.Handle))
}

func TestAwaitTerminalCancelledJobIsDeleted(t *testing.T) {
	svc := testsupport.NewFakeMediaService()
	svc.Script("c.mp4", testsupport.StatusStep{State: mediajob.StateCancelled})
	client, _ := newClient(svc)
	job := submit(t, client, "c.mp4")

	_, err := client.AwaitTerminal(context.Background(), job, time.Minute, time.Second)
	assert.ErrorIs(t, err, mediajob.ErrJobFailed)
	assert.True(t, mediajob.IsJobError(err))
	assert.Equal(t, 1, svc.DeletedCount(job.Handle))
}

func TestAwaitTerminalTimesOutAndDeletes(t *testing.T) {
	svc := testsupport.NewFakeMediaService()
	svc.Script("slow.mp4", testsupport.StatusStep{State: mediajob.StateQueued})
	client, clock := newClient(svc)
	job := submit(t, client, "slow.mp4")

	last, err := client.AwaitTerminal(context.Background(), job, 60*time.Second, 15*time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, mediajob.ErrTimeout)
	assert.Equal(t, mediajob.StateQueued, last.State)
	// Checks at 0, 15, 30 and 45 seconds each sleep and poll; the check at 60 gives up.
	assert.Equal(t, 4, svc.Polls[job.Handle])
	assert.Len(t, clock.Sleeps(), 4)
	assert.Equal(t, 1, svc.DeletedCount(job.Handle))

	var timeoutErr *mediajob.TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, 60*time.Second, timeoutErr.Elapsed)
}

func TestAwaitTerminalRetriesTransientStatusErrors(t *testing.T) {
	svc := testsupport.NewFakeMediaService()
	svc.Script("flaky.mp4",
		testsupport.StatusStep{Err: errors.New("503 unavailable")},
		testsupport.StatusStep{State: mediajob.StateSucceeded},
	)
	client, _ := newClient(svc)
	job := submit(t, client, "flaky.mp4")

	done, err := client.AwaitTerminal(context.Background(), job, time.Minute, time.Second)
	require.NoError(t, err)
	assert.Equal(t, mediajob.StateSucceeded, done.State)
	assert.Equal(t, 2, svc.Polls[job.Handle])
}

func TestAwaitTerminalContextCancelledDeletes(t *testing.T) {
	svc := testsupport.NewFakeMediaService()
	svc.Script("x.mp4", testsupport.StatusStep{State: mediajob.StateQueued})
	client, _ := newClient(svc)
	job := submit(t, client, "x.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.AwaitTerminal(ctx, job, time.Minute, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, mediajob.IsJobError(err), "cancellation is not a job failure")
	assert.Equal(t, 1, svc.DeletedCount(job.Handle))
}

func TestAlreadyTerminalJobReturnsImmediately(t *testing.T) {
	svc := testsupport.NewFakeMediaService()
	client, clock := newClient(svc)
	job := mediajob.Job{Handle: "files/x", State: mediajob.StateSucceeded}

	done, err := client.AwaitTerminal(context.Background(), job, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, job, done)
	assert.Empty(t, clock.Sleeps())
}

func TestSubmitResolvesMIMEAndPropagatesErrors(t *testing.T) {
	svc := testsupport.NewFakeMediaService()
	client, _ := newClient(svc)

	_, err := client.Submit(context.Background(), "/scratch/a.MOV", "a.MOV", "application/octet-stream")
	require.NoError(t, err)
	_, err = client.Submit(context.Background(), "/scratch/b.mp4", "b.mp4", "video/mp4")
	require.NoError(t, err)
	require.Len(t, svc.Submitted, 2)
	assert.Equal(t, "video/quicktime", svc.Submitted[0].MIMEType)
	assert.Equal(t, "video/mp4", svc.Submitted[1].MIMEType)

	svc.FailSubmit("bad.mp4", errors.New("quota"))
	_, err = client.Submit(context.Background(), "/scratch/bad.mp4", "bad.mp4", "")
	assert.Error(t, err)
}

func TestReleaseIgnoresDeleteFailures(t *testing.T) {
	svc := testsupport.NewFakeMediaService()
	svc.DeleteErr = errors.New("gone")
	client, _ := newClient(svc)

	client.Release(context.Background(), mediajob.Job{Handle: "files/1"})
	client.Release(context.Background(), mediajob.Job{})
	assert.Equal(t, []string{"files/1"}, svc.Deleted)
}
