// Package notifications pushes run summaries and fatal errors to ntfy.
//
// The topic URL comes from the [notifications] section of config.toml. When no
// topic is configured NewService returns a no-op implementation, so callers
// never need to check whether notifications are enabled.
package notifications
