// Package remote defines the file store abstraction vidnotes watches for new
// recordings and publishes documents into.
//
// Backends live in subpackages: dropbox wraps the Dropbox API v2 SDK and
// s3store speaks to any S3-compatible object store. Both translate their
// native errors into ErrNotFound and ErrPermission so the pipeline can decide
// whether a failure aborts the run.
package remote
