package config

import "time"

const (
	defaultConfigPath         = "~/.config/vidnotes/config.toml"
	defaultScratchDir         = "~/.local/share/vidnotes/scratch"
	defaultLogDir             = "~/.local/share/vidnotes/logs"
	defaultStateDir           = "~/.local/share/vidnotes"
	defaultJSONStateFile      = "processed_files.json"
	defaultSQLiteStateFile    = "state.db"
	defaultRemoteBackend      = "dropbox"
	defaultS3Region           = "us-east-1"
	defaultRecencyHours       = 24
	defaultGeminiModel        = "gemini-2.0-flash"
	defaultTemperature        = 0.7
	defaultTopP               = 0.95
	defaultMaxOutputTokens    = 8192
	defaultPollInterval       = 15
	defaultProcessingTimeout  = 1800
	defaultMinTextLength      = 50
	defaultBlockThreshold     = "high"
	defaultStateBackend       = "json"
	defaultScratchMaxAgeHours = 24
	defaultNotifyTimeout      = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

var defaultVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".flv"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ScratchDir: defaultScratchDir,
			LogDir:     defaultLogDir,
		},
		Remote: Remote{
			Backend: defaultRemoteBackend,
			S3: S3{
				UseSSL: true,
				Region: defaultS3Region,
			},
		},
		Selection: Selection{
			VideoExtensions: append([]string(nil), defaultVideoExtensions...),
			RecencyHours:    defaultRecencyHours,
		},
		Gemini: Gemini{
			Model:                    defaultGeminiModel,
			Temperature:              defaultTemperature,
			TopP:                     defaultTopP,
			MaxOutputTokens:          defaultMaxOutputTokens,
			PollIntervalSeconds:      defaultPollInterval,
			ProcessingTimeoutSeconds: defaultProcessingTimeout,
			MinTextLength:            defaultMinTextLength,
			BlockThreshold:           defaultBlockThreshold,
		},
		State: State{
			Backend: defaultStateBackend,
		},
		Staging: Staging{
			ScratchMaxAgeHours: defaultScratchMaxAgeHours,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// RecencyWindow is the selection window as a duration.
func (c *Config) RecencyWindow() time.Duration {
	return time.Duration(c.Selection.RecencyHours) * time.Hour
}

// PollInterval is the delay between media job status checks.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Gemini.PollIntervalSeconds) * time.Second
}

// ProcessingTimeout bounds how long a media job may stay queued.
func (c *Config) ProcessingTimeout() time.Duration {
	return time.Duration(c.Gemini.ProcessingTimeoutSeconds) * time.Second
}

// ScratchMaxAge is the age after which leftover scratch files are removed.
func (c *Config) ScratchMaxAge() time.Duration {
	return time.Duration(c.Staging.ScratchMaxAgeHours) * time.Hour
}
