// Package state persists the set of remote paths that have been fully
// processed.
//
// Two backends share the Store interface: JSONFileStore keeps the flat JSON
// array layout (one remote path per element) and SQLiteStore keeps one row per
// path with the time it was recorded. Loads never partially apply; Save
// replaces the persisted set atomically.
package state
