package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains local directory and prompt file configuration.
type Paths struct {
	ScratchDir     string `toml:"scratch_dir"`
	LogDir         string `toml:"log_dir"`
	PromptTemplate string `toml:"prompt_template"`
	ExampleFile    string `toml:"example_file"`
}

// Dropbox contains credentials for the Dropbox backend.
type Dropbox struct {
	AccessToken string `toml:"access_token"`
}

// S3 contains connection settings for an S3-compatible backend.
type S3 struct {
	Endpoint  string `toml:"endpoint"`
	Bucket    string `toml:"bucket"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Region    string `toml:"region"`
}

// Remote selects the remote store and the folders watched and written.
type Remote struct {
	Backend   string  `toml:"backend"`
	WatchDir  string  `toml:"watch_dir"`
	OutputDir string  `toml:"output_dir"`
	Dropbox   Dropbox `toml:"dropbox"`
	S3        S3      `toml:"s3"`
}

// Selection controls which listed files become candidates.
type Selection struct {
	VideoExtensions []string `toml:"video_extensions"`
	RecencyHours    int      `toml:"recency_hours"`
}

// Gemini contains media service and generation settings.
type Gemini struct {
	APIKey                   string  `toml:"api_key"`
	Model                    string  `toml:"model"`
	Temperature              float64 `toml:"temperature"`
	TopP                     float64 `toml:"top_p"`
	MaxOutputTokens          int     `toml:"max_output_tokens"`
	PollIntervalSeconds      int     `toml:"poll_interval_seconds"`
	ProcessingTimeoutSeconds int     `toml:"processing_timeout_seconds"`
	MinTextLength            int     `toml:"min_text_length"`
	BlockThreshold           string  `toml:"block_threshold"`
}

// State selects where the processed set is persisted.
type State struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// Staging controls cleanup of scratch files left by interrupted runs.
type Staging struct {
	ScratchMaxAgeHours int `toml:"scratch_max_age_hours"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vidnotes.
//
// Configuration sections by subsystem:
//   - Paths: local scratch/log directories and prompt files
//   - Remote: watched and output folders plus backend credentials
//   - Selection: candidate extension and recency filters
//   - Gemini: media upload, polling and generation parameters
//   - State: processed-set persistence
//   - Staging: stale scratch cleanup
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Remote        Remote        `toml:"remote"`
	Selection     Selection     `toml:"selection"`
	Gemini        Gemini        `toml:"gemini"`
	State         State         `toml:"state"`
	Staging       Staging       `toml:"staging"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vidnotes.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the local directories a run writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.ScratchDir, c.Paths.LogDir, filepath.Dir(c.State.Path)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PromptFiles reads the configured prompt template and worked example.
// An empty template path returns an empty template; callers substitute the
// built-in prompt. Unreadable files are configuration errors.
func (c *Config) PromptFiles() (template string, example string, err error) {
	if path := strings.TrimSpace(c.Paths.PromptTemplate); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("read prompt template %s: %w", path, err)
		}
		template = string(data)
	}
	if path := strings.TrimSpace(c.Paths.ExampleFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("read example file %s: %w", path, err)
		}
		example = string(data)
	}
	return template, example, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
