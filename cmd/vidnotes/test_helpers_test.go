package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vidnotes/internal/config"
	"vidnotes/internal/remote"
	"vidnotes/internal/testsupport"
)

type fakeMedia struct {
	*testsupport.FakeMediaService
	*testsupport.FakeModel
	closed bool
}

func (f *fakeMedia) Close() error {
	f.closed = true
	return nil
}

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	store      *testsupport.FakeRemote
	media      *fakeMedia
	mediaOpens int
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cfg := testsupport.NewConfig(t, opts...)
	cfg.Gemini.PollIntervalSeconds = 1
	cfg.Logging.Level = "error"

	env := &cliTestEnv{
		cfg:        cfg,
		configPath: filepath.Join(testsupport.BaseDir(cfg), "config.toml"),
		store:      testsupport.NewFakeRemote(cfg.Remote.WatchDir, cfg.Remote.OutputDir),
		media: &fakeMedia{
			FakeMediaService: testsupport.NewFakeMediaService(),
			FakeModel:        testsupport.NewFakeModel(),
		},
	}
	writeTestConfig(t, env.configPath, cfg)
	return env
}

func (e *cliTestEnv) backends() backends {
	return backends{
		remote: func(*config.Config, *slog.Logger) (remote.Store, error) {
			return e.store, nil
		},
		media: func(context.Context, *config.Config, *slog.Logger) (mediaBackend, error) {
			e.mediaOpens++
			return e.media, nil
		},
	}
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLIWith(t, e.backends(), args, e.configPath)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWith(t, defaultBackends(), args, configPath)
}

func runCLIWith(t *testing.T, b backends, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommandWith(b)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
