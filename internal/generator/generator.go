package generator

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"vidnotes/internal/logging"
	"vidnotes/internal/services"
)

// Default gate settings.
const (
	DefaultMinTextLength  = 50
	DefaultBlockThreshold = ProbabilityHigh
)

var blockingFinishReasons = map[string]struct{}{
	FinishSafety:            {},
	FinishRecitation:        {},
	FinishBlocklist:         {},
	FinishProhibitedContent: {},
	FinishSPII:              {},
}

// Options tune the safety gate. MinTextLength 0 disables the length check;
// whitespace-only text is still rejected.
type Options struct {
	MinTextLength  int
	BlockThreshold Probability
}

// DefaultOptions returns the stock gate settings.
func DefaultOptions() Options {
	return Options{MinTextLength: DefaultMinTextLength, BlockThreshold: DefaultBlockThreshold}
}

// Generator applies the prompt template and safety gate around a Model.
type Generator struct {
	model  Model
	opts   Options
	logger *slog.Logger
}

// New constructs a Generator. An unspecified threshold falls back to
// DefaultBlockThreshold; MinTextLength is used as given.
func New(model Model, opts Options, logger *slog.Logger) *Generator {
	if opts.MinTextLength < 0 {
		opts.MinTextLength = 0
	}
	if opts.BlockThreshold == ProbabilityUnspecified {
		opts.BlockThreshold = DefaultBlockThreshold
	}
	return &Generator{
		model:  model,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "generator"),
	}
}

// Generate builds the prompt, calls the model and gates the response.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	logger := logging.WithContext(ctx, g.logger)
	prompt, warning := BuildPrompt(req.Template, req.Example)
	if warning {
		logging.WarnWithContext(logger, "prompt template has no example placeholder",
			"template_placeholder_missing",
			logging.String("placeholder", ExamplePlaceholder),
			logging.String(logging.FieldErrorHint, "add "+ExamplePlaceholder+" to the prompt template"),
			logging.String(logging.FieldImpact, "example file ignored"),
		)
	}

	resp, err := g.model.Generate(ctx, prompt, req.Job, req.Params)
	if err != nil {
		return Result{TemplateWarning: warning}, services.Wrap(services.ErrExternalTool, "generate", "generate content", "model request failed", err)
	}

	result := g.evaluate(resp)
	result.TemplateWarning = warning
	if result.Blocked {
		logger.Info("generation gated",
			logging.String(logging.FieldEventType, "generation_blocked"),
			logging.String("reason", result.Reason),
		)
	}
	return result, nil
}

func (g *Generator) evaluate(resp Response) Result {
	if reason := strings.TrimSpace(resp.PromptBlockReason); reason != "" {
		return Result{Blocked: true, Reason: ReasonPromptPrefix + strings.ToLower(reason)}
	}
	if len(resp.Candidates) == 0 {
		return Result{Blocked: true, Reason: ReasonNoCandidates}
	}
	candidate := resp.Candidates[0]

	finish := strings.ToLower(strings.TrimSpace(candidate.FinishReason))
	if _, ok := blockingFinishReasons[finish]; ok {
		return Result{Blocked: true, Reason: finish}
	}
	for _, rating := range candidate.SafetyRatings {
		if rating.Blocked || rating.Probability >= g.opts.BlockThreshold {
			return Result{Blocked: true, Reason: rating.Category}
		}
	}

	text := strings.Join(candidate.Parts, "")
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || utf8.RuneCountInString(trimmed) < g.opts.MinTextLength {
		return Result{Blocked: true, Reason: ReasonTooShort}
	}
	return Result{Text: text}
}
