package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGemini(); err != nil {
		return err
	}
	if err := c.validateRemote(); err != nil {
		return err
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validateState(); err != nil {
		return err
	}
	if err := ensurePositiveMap(map[string]int{
		"staging.scratch_max_age_hours": c.Staging.ScratchMaxAgeHours,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	}); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateGemini() error {
	if c.Gemini.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("gemini.api_key is required. Set GEMINI_API_KEY env var or edit %s (create with 'vidnotes config init')", defaultPath)
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return errors.New("gemini.temperature must be between 0 and 2")
	}
	if c.Gemini.TopP < 0 || c.Gemini.TopP > 1 {
		return errors.New("gemini.top_p must be between 0 and 1")
	}
	if c.Gemini.MaxOutputTokens < 0 {
		return errors.New("gemini.max_output_tokens must be >= 0")
	}
	if c.Gemini.MinTextLength < 0 {
		return errors.New("gemini.min_text_length must be >= 0")
	}
	if err := ensurePositiveMap(map[string]int{
		"gemini.poll_interval_seconds":      c.Gemini.PollIntervalSeconds,
		"gemini.processing_timeout_seconds": c.Gemini.ProcessingTimeoutSeconds,
	}); err != nil {
		return err
	}
	switch c.Gemini.BlockThreshold {
	case "negligible", "low", "medium", "high":
	default:
		return fmt.Errorf("gemini.block_threshold must be one of negligible, low, medium, high (got %q)", c.Gemini.BlockThreshold)
	}
	return nil
}

func (c *Config) validateRemote() error {
	if c.Remote.WatchDir == "" {
		return errors.New("remote.watch_dir must be set")
	}
	if c.Remote.OutputDir == "" {
		return errors.New("remote.output_dir must be set")
	}
	switch c.Remote.Backend {
	case "dropbox":
		if c.Remote.Dropbox.AccessToken == "" {
			return errors.New("remote.dropbox.access_token is required (or set DROPBOX_ACCESS_TOKEN)")
		}
	case "s3":
		if c.Remote.S3.Endpoint == "" {
			return errors.New("remote.s3.endpoint must be set when remote.backend is s3")
		}
		if c.Remote.S3.Bucket == "" {
			return errors.New("remote.s3.bucket must be set when remote.backend is s3")
		}
		if c.Remote.S3.AccessKey == "" || c.Remote.S3.SecretKey == "" {
			return errors.New("remote.s3.access_key and remote.s3.secret_key are required (or set S3_ACCESS_KEY/S3_SECRET_KEY)")
		}
	default:
		return fmt.Errorf("remote.backend must be dropbox or s3 (got %q)", c.Remote.Backend)
	}
	return nil
}

func (c *Config) validateSelection() error {
	if len(c.Selection.VideoExtensions) == 0 {
		return errors.New("selection.video_extensions must list at least one extension")
	}
	if c.Selection.RecencyHours <= 0 {
		return errors.New("selection.recency_hours must be positive")
	}
	return nil
}

func (c *Config) validateState() error {
	switch c.State.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("state.backend must be json or sqlite (got %q)", c.State.Backend)
	}
	if strings.TrimSpace(c.State.Path) == "" {
		return errors.New("state.path must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
