package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRemote()
	c.normalizeSelection()
	c.normalizeGemini()
	if err := c.normalizeState(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		c.Paths.ScratchDir = defaultScratchDir
	}
	if c.Paths.ScratchDir, err = expandPath(c.Paths.ScratchDir); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.PromptTemplate, err = expandPath(strings.TrimSpace(c.Paths.PromptTemplate)); err != nil {
		return fmt.Errorf("paths.prompt_template: %w", err)
	}
	if c.Paths.ExampleFile, err = expandPath(strings.TrimSpace(c.Paths.ExampleFile)); err != nil {
		return fmt.Errorf("paths.example_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeRemote() {
	c.Remote.Backend = strings.ToLower(strings.TrimSpace(c.Remote.Backend))
	if c.Remote.Backend == "" {
		c.Remote.Backend = defaultRemoteBackend
	}
	c.Remote.WatchDir = strings.TrimSpace(c.Remote.WatchDir)
	c.Remote.OutputDir = strings.TrimSpace(c.Remote.OutputDir)

	c.Remote.Dropbox.AccessToken = strings.TrimSpace(c.Remote.Dropbox.AccessToken)
	if c.Remote.Dropbox.AccessToken == "" {
		if value, ok := os.LookupEnv("DROPBOX_ACCESS_TOKEN"); ok {
			c.Remote.Dropbox.AccessToken = strings.TrimSpace(value)
		}
	}

	c.Remote.S3.Endpoint = strings.TrimSpace(c.Remote.S3.Endpoint)
	c.Remote.S3.Bucket = strings.TrimSpace(c.Remote.S3.Bucket)
	c.Remote.S3.Region = strings.TrimSpace(c.Remote.S3.Region)
	if c.Remote.S3.Region == "" {
		c.Remote.S3.Region = defaultS3Region
	}
	c.Remote.S3.AccessKey = strings.TrimSpace(c.Remote.S3.AccessKey)
	if c.Remote.S3.AccessKey == "" {
		if value, ok := os.LookupEnv("S3_ACCESS_KEY"); ok {
			c.Remote.S3.AccessKey = strings.TrimSpace(value)
		}
	}
	c.Remote.S3.SecretKey = strings.TrimSpace(c.Remote.S3.SecretKey)
	if c.Remote.S3.SecretKey == "" {
		if value, ok := os.LookupEnv("S3_SECRET_KEY"); ok {
			c.Remote.S3.SecretKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeSelection() {
	exts := make([]string, 0, len(c.Selection.VideoExtensions))
	seen := make(map[string]struct{}, len(c.Selection.VideoExtensions))
	for _, ext := range c.Selection.VideoExtensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	c.Selection.VideoExtensions = exts
}

func (c *Config) normalizeGemini() {
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	if c.Gemini.APIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.Gemini.APIKey = strings.TrimSpace(value)
		}
	}
	c.Gemini.Model = strings.TrimSpace(c.Gemini.Model)
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaultGeminiModel
	}
	c.Gemini.BlockThreshold = strings.ToLower(strings.TrimSpace(c.Gemini.BlockThreshold))
	if c.Gemini.BlockThreshold == "" {
		c.Gemini.BlockThreshold = defaultBlockThreshold
	}
}

func (c *Config) normalizeState() error {
	c.State.Backend = strings.ToLower(strings.TrimSpace(c.State.Backend))
	if c.State.Backend == "" {
		c.State.Backend = defaultStateBackend
	}
	if strings.TrimSpace(c.State.Path) == "" {
		name := defaultJSONStateFile
		if c.State.Backend == "sqlite" {
			name = defaultSQLiteStateFile
		}
		c.State.Path = filepath.Join(defaultStateDir, name)
	}
	var err error
	if c.State.Path, err = expandPath(c.State.Path); err != nil {
		return fmt.Errorf("state.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
