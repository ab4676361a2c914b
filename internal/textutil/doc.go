// Package textutil holds small string helpers for building local file names
// from remote metadata and for trimming text in logs and notifications.
package textutil
