package generator

import (
	"context"
	"fmt"
	"strings"

	"vidnotes/internal/mediajob"
)

// Params are the sampling parameters sent with a generation request. A nil
// Temperature or TopP and a zero MaxOutputTokens leave the provider default in
// place; a configured 0.0 temperature is sent as is.
type Params struct {
	Temperature     *float64
	TopP            *float64
	MaxOutputTokens int
}

// NewParams returns Params with every sampling value set.
func NewParams(temperature, topP float64, maxOutputTokens int) Params {
	return Params{Temperature: &temperature, TopP: &topP, MaxOutputTokens: maxOutputTokens}
}

// Probability is the likelihood bucket a provider assigns to a safety category.
type Probability int

const (
	ProbabilityUnspecified Probability = iota
	ProbabilityNegligible
	ProbabilityLow
	ProbabilityMedium
	ProbabilityHigh
)

func (p Probability) String() string {
	switch p {
	case ProbabilityNegligible:
		return "negligible"
	case ProbabilityLow:
		return "low"
	case ProbabilityMedium:
		return "medium"
	case ProbabilityHigh:
		return "high"
	default:
		return "unspecified"
	}
}

// ParseProbability maps a threshold name to its Probability.
func ParseProbability(name string) (Probability, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "negligible":
		return ProbabilityNegligible, nil
	case "low":
		return ProbabilityLow, nil
	case "medium":
		return ProbabilityMedium, nil
	case "high":
		return ProbabilityHigh, nil
	default:
		return ProbabilityUnspecified, fmt.Errorf("unknown probability %q", name)
	}
}

// Finish reasons reported by Model implementations.
const (
	FinishStop              = "stop"
	FinishMaxTokens         = "max_tokens"
	FinishSafety            = "safety"
	FinishRecitation        = "recitation"
	FinishBlocklist         = "blocklist"
	FinishProhibitedContent = "prohibited_content"
	FinishSPII              = "spii"
	FinishOther             = "other"
)

// SafetyRating is one category assessment on a candidate.
type SafetyRating struct {
	Category    string
	Probability Probability
	Blocked     bool
}

// Candidate is one generated alternative.
type Candidate struct {
	FinishReason  string
	SafetyRatings []SafetyRating
	Parts         []string
}

// Response is the provider-neutral generation result.
type Response struct {
	Candidates        []Candidate
	PromptBlockReason string
}

// Model generates content from a prompt plus the uploaded media.
type Model interface {
	Generate(ctx context.Context, prompt string, job mediajob.Job, params Params) (Response, error)
}

// Request carries everything needed for one generation.
type Request struct {
	Template string
	Example  string
	Params   Params
	Job      mediajob.Job
}

// Result is the gated outcome. Text is empty whenever Blocked is true.
type Result struct {
	Text            string
	Blocked         bool
	Reason          string
	TemplateWarning bool
}

// Reasons for results that carry no text.
const (
	ReasonTooShort     = "too_short"
	ReasonNoCandidates = "no_candidates"
	ReasonPromptPrefix = "prompt_"
)
