// Package main hosts the vidnotes CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, builds the remote store and
// media backends, and hands them to the pipeline. A single `vidnotes run`
// performs one batch pass; schedule it with cron or a systemd timer. The other
// commands inspect configuration, verify access, and maintain the processed
// set without touching the media service.
//
// Keep this package lean: behavior belongs in the internal packages and is
// surfaced here through dedicated commands or flags.
package main
