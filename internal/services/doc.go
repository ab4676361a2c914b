// Package services defines shared utilities consumed by the pipeline stages
// and the external service adapters.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, candidate names, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper so callers can tell a
//     run-aborting failure from one that only affects a single candidate.
package services
