// Package config loads, normalizes, and validates vidnotes configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GEMINI_API_KEY and DROPBOX_ACCESS_TOKEN. A .env file can seed those
// variables through LoadDotEnv before Load runs.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extension lists, and clear validation errors.
package config
