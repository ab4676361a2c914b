// Package preflight provides readiness checks for the local directories,
// credentials and remote folders vidnotes depends on.
//
// "vidnotes check" renders every result as a table. "vidnotes run" relies on
// the pipeline's own fatal checks instead, so a misconfigured remote still
// aborts before any candidate is touched.
package preflight
