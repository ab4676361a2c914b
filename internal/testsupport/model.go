package testsupport

import (
	"context"
	"sync"

	"vidnotes/internal/generator"
	"vidnotes/internal/mediajob"
)

// GenerateCall records one Generate invocation.
type GenerateCall struct {
	Prompt string
	Job    mediajob.Job
	Params generator.Params
}

// FakeModel returns scripted responses keyed by job display name.
type FakeModel struct {
	mu        sync.Mutex
	responses map[string]generator.Response
	errs      map[string]error

	Calls []GenerateCall
}

// NewFakeModel returns a fake with no scripted responses. Unscripted jobs
// receive a response with no candidates.
func NewFakeModel() *FakeModel {
	return &FakeModel{
		responses: map[string]generator.Response{},
		errs:      map[string]error{},
	}
}

// Respond scripts the response for displayName.
func (f *FakeModel) Respond(displayName string, resp generator.Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[displayName] = resp
}

// RespondText scripts a single clean candidate carrying text.
func (f *FakeModel) RespondText(displayName, text string) {
	f.Respond(displayName, generator.Response{Candidates: []generator.Candidate{{
		FinishReason: generator.FinishStop,
		Parts:        []string{text},
	}}})
}

// Fail makes Generate return err for displayName.
func (f *FakeModel) Fail(displayName string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[displayName] = err
}

func (f *FakeModel) Generate(_ context.Context, prompt string, job mediajob.Job, params generator.Params) (generator.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, GenerateCall{Prompt: prompt, Job: job, Params: params})
	if err := f.errs[job.DisplayName]; err != nil {
		return generator.Response{}, err
	}
	return f.responses[job.DisplayName], nil
}
