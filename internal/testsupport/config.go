package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"vidnotes/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Credentials are filled with placeholders and the remote folders are
// /Videos and /Output.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ScratchDir = filepath.Join(base, "scratch")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.State.Path = filepath.Join(base, "state", "processed_files.json")
	cfgVal.Remote.WatchDir = "/Videos"
	cfgVal.Remote.OutputDir = "/Output"
	cfgVal.Remote.Dropbox.AccessToken = "test-token"
	cfgVal.Gemini.APIKey = "test-key"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSQLiteState switches the state backend to SQLite.
func WithSQLiteState() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.State.Backend = "sqlite"
		b.cfg.State.Path = filepath.Join(b.baseDir, "state", "state.db")
	}
}

// WithPromptFiles writes template and example files and points the config at
// them. Empty content leaves the corresponding path unset.
func WithPromptFiles(template, example string) ConfigOption {
	return func(b *configBuilder) {
		dir := filepath.Join(b.baseDir, "prompts")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			b.t.Fatalf("mkdir prompts dir: %v", err)
		}
		if template != "" {
			path := filepath.Join(dir, "template.md")
			if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
				b.t.Fatalf("write template: %v", err)
			}
			b.cfg.Paths.PromptTemplate = path
		}
		if example != "" {
			path := filepath.Join(dir, "example.md")
			if err := os.WriteFile(path, []byte(example), 0o644); err != nil {
				b.t.Fatalf("write example: %v", err)
			}
			b.cfg.Paths.ExampleFile = path
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ScratchDir)
}
