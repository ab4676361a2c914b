package testsupport

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"vidnotes/internal/mediajob"
)

// StatusStep is one scripted Status response.
type StatusStep struct {
	State  mediajob.State
	Detail string
	Err    error
	// OnPoll runs when the step is served.
	OnPoll func()
}

// FakeMediaService scripts job state transitions per display name.
type FakeMediaService struct {
	mu        sync.Mutex
	scripts   map[string][]StatusStep
	submitErr map[string]error
	jobs      map[string]string // handle -> display name
	cursor    map[string]int
	next      int

	Submitted []SubmitCall
	Polls     map[string]int
	Deleted   []string
	DeleteErr error
}

// SubmitCall records one Submit invocation.
type SubmitCall struct {
	LocalPath   string
	DisplayName string
	MIMEType    string
}

// NewFakeMediaService returns an empty fake. Jobs without a script succeed on
// the first poll.
func NewFakeMediaService() *FakeMediaService {
	return &FakeMediaService{
		scripts:   map[string][]StatusStep{},
		submitErr: map[string]error{},
		jobs:      map[string]string{},
		cursor:    map[string]int{},
		Polls:     map[string]int{},
	}
}

// Script sets the Status responses for the job submitted as displayName. The
// final step repeats once the script is exhausted.
func (f *FakeMediaService) Script(displayName string, steps ...StatusStep) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[displayName] = steps
}

// FailSubmit makes Submit fail for displayName.
func (f *FakeMediaService) FailSubmit(displayName string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitErr[displayName] = err
}

func (f *FakeMediaService) Submit(_ context.Context, localPath, displayName, mimeType string) (mediajob.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Submitted = append(f.Submitted, SubmitCall{LocalPath: localPath, DisplayName: displayName, MIMEType: mimeType})
	if err := f.submitErr[displayName]; err != nil {
		return mediajob.Job{}, err
	}
	f.next++
	handle := fmt.Sprintf("files/%d", f.next)
	f.jobs[handle] = displayName
	return mediajob.Job{
		Handle:      handle,
		URI:         "https://media.test/" + handle,
		MIMEType:    mimeType,
		DisplayName: filepath.Base(displayName),
		State:       mediajob.StateQueued,
	}, nil
}

func (f *FakeMediaService) Status(_ context.Context, handle string) (mediajob.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Polls[handle]++
	name, ok := f.jobs[handle]
	if !ok {
		return mediajob.Job{}, fmt.Errorf("unknown handle %s", handle)
	}
	steps := f.scripts[name]
	if len(steps) == 0 {
		return mediajob.Job{Handle: handle, State: mediajob.StateSucceeded}, nil
	}
	idx := f.cursor[handle]
	if idx >= len(steps) {
		idx = len(steps) - 1
	} else {
		f.cursor[handle] = idx + 1
	}
	step := steps[idx]
	if step.OnPoll != nil {
		step.OnPoll()
	}
	if step.Err != nil {
		return mediajob.Job{}, step.Err
	}
	return mediajob.Job{Handle: handle, State: step.State, ErrorDetail: step.Detail}, nil
}

func (f *FakeMediaService) Delete(_ context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, handle)
	return f.DeleteErr
}

// DeletedCount returns how many times handle was deleted.
func (f *FakeMediaService) DeletedCount(handle string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, h := range f.Deleted {
		if h == handle {
			n++
		}
	}
	return n
}
