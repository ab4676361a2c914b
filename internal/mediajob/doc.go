// Package mediajob drives a recording through an asynchronous media service:
// upload, poll until the job reaches a terminal state, and release the
// remote file afterwards.
//
// Service is the provider port; internal/gemini implements it for the Gemini
// Files API. Client adds MIME detection, a bounded polling loop with an
// injectable Clock, and best-effort deletion on every non-success exit.
package mediajob
