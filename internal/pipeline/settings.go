package pipeline

import (
	"time"

	"vidnotes/internal/config"
	"vidnotes/internal/generator"
	"vidnotes/internal/selector"
	"vidnotes/internal/services"
)

// Prompt is the generation template plus the optional worked example, read
// once at startup.
type Prompt struct {
	Template string
	Example  string
}

// Settings are the per-run parameters derived from configuration.
type Settings struct {
	WatchDir          string
	OutputDir         string
	ScratchDir        string
	ScratchMaxAge     time.Duration
	Selection         selector.Options
	PollInterval      time.Duration
	ProcessingTimeout time.Duration
	Params            generator.Params
	Gate              generator.Options
	Prompt            Prompt
	DryRun            bool
}

// SettingsFromConfig reads the prompt files and translates cfg into Settings.
// An empty template path selects the built-in prompt.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	template, example, err := cfg.PromptFiles()
	if err != nil {
		return Settings{}, services.Wrap(services.ErrConfiguration, "config", "prompt files", "", err)
	}
	if template == "" {
		template = generator.DefaultTemplate()
	}
	threshold, err := generator.ParseProbability(cfg.Gemini.BlockThreshold)
	if err != nil {
		return Settings{}, services.Wrap(services.ErrConfiguration, "config", "block threshold", "", err)
	}
	return Settings{
		WatchDir:      cfg.Remote.WatchDir,
		OutputDir:     cfg.Remote.OutputDir,
		ScratchDir:    cfg.Paths.ScratchDir,
		ScratchMaxAge: cfg.ScratchMaxAge(),
		Selection: selector.Options{
			Extensions: cfg.Selection.VideoExtensions,
			Window:     cfg.RecencyWindow(),
		},
		PollInterval:      cfg.PollInterval(),
		ProcessingTimeout: cfg.ProcessingTimeout(),
		Params:            generator.NewParams(cfg.Gemini.Temperature, cfg.Gemini.TopP, cfg.Gemini.MaxOutputTokens),
		Gate: generator.Options{
			MinTextLength:  cfg.Gemini.MinTextLength,
			BlockThreshold: threshold,
		},
		Prompt: Prompt{Template: template, Example: example},
	}, nil
}
