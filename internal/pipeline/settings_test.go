package pipeline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidnotes/internal/generator"
	"vidnotes/internal/pipeline"
	"vidnotes/internal/services"
	"vidnotes/internal/testsupport"
)

func TestSettingsFromConfigDefaults(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	settings, err := pipeline.SettingsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/Videos", settings.WatchDir)
	assert.Equal(t, "/Output", settings.OutputDir)
	assert.Equal(t, 15*time.Second, settings.PollInterval)
	assert.Equal(t, 30*time.Minute, settings.ProcessingTimeout)
	assert.Equal(t, 24*time.Hour, settings.Selection.Window)
	assert.Equal(t, generator.ProbabilityHigh, settings.Gate.BlockThreshold)
	assert.Equal(t, 50, settings.Gate.MinTextLength)
	assert.Equal(t, generator.NewParams(0.7, 0.95, 8192), settings.Params)
	assert.Equal(t, generator.DefaultTemplate(), settings.Prompt.Template)
	assert.Empty(t, settings.Prompt.Example)
}

func TestSettingsFromConfigKeepsZeroValues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Gemini.Temperature = 0
	cfg.Gemini.MinTextLength = 0

	settings, err := pipeline.SettingsFromConfig(cfg)
	require.NoError(t, err)
	require.NotNil(t, settings.Params.Temperature)
	assert.Zero(t, *settings.Params.Temperature)
	assert.Zero(t, settings.Gate.MinTextLength)
}

func TestSettingsFromConfigReadsPromptFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPromptFiles("Custom {{EXAMPLE}}", "# Example"))

	settings, err := pipeline.SettingsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Custom {{EXAMPLE}}", settings.Prompt.Template)
	assert.Equal(t, "# Example", settings.Prompt.Example)
}

func TestSettingsFromConfigRejectsBadInputs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.ExampleFile = "/nonexistent/example.md"
	_, err := pipeline.SettingsFromConfig(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrConfiguration)

	cfg = testsupport.NewConfig(t)
	cfg.Gemini.BlockThreshold = "severe"
	_, err = pipeline.SettingsFromConfig(cfg)
	assert.ErrorIs(t, err, services.ErrConfiguration)
}
