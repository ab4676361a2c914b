// Package logging builds the slog loggers used across vidnotes.
//
// Two formats are supported: a compact console format that folds the
// component, candidate and stage attributes into a readable subject prefix,
// and JSON for log shipping. Attribute helpers mirror slog so call sites stay
// uniform, and WarnWithContext/ErrorWithContext enforce the event_type,
// error_hint and impact fields on every warning.
//
// Obtain loggers through NewFromConfig at process start and derive component
// loggers with NewComponentLogger; pass them down explicitly rather than
// relying on slog.Default.
package logging
