package gemini

import (
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"

	"vidnotes/internal/generator"
	"vidnotes/internal/mediajob"
)

func toJob(file *genai.File) mediajob.Job {
	if file == nil {
		return mediajob.Job{}
	}
	job := mediajob.Job{
		Handle:      file.Name,
		URI:         file.URI,
		MIMEType:    file.MIMEType,
		DisplayName: file.DisplayName,
		State:       toState(file.State),
	}
	job.ErrorDetail = errorDetail(file.Error)
	return job
}

// errorDetail prefers the bare status message over the formatted error,
// which also carries the code and error details.
func errorDetail(err *apierror.APIError) string {
	if err == nil {
		return ""
	}
	if st := err.GRPCStatus(); st != nil {
		if msg := strings.TrimSpace(st.Message()); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(err.Error())
}

// toState maps file states. The Files API has no cancelled state, and an
// unspecified state is treated as still queued.
func toState(state genai.FileState) mediajob.State {
	switch state {
	case genai.FileStateActive:
		return mediajob.StateSucceeded
	case genai.FileStateFailed:
		return mediajob.StateFailed
	default:
		return mediajob.StateQueued
	}
}

func toResponse(resp *genai.GenerateContentResponse) generator.Response {
	if resp == nil {
		return generator.Response{}
	}
	out := generator.Response{PromptBlockReason: promptBlockReason(resp.PromptFeedback)}
	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		out.Candidates = append(out.Candidates, toCandidate(cand))
	}
	return out
}

func fromBlocked(err *genai.BlockedError) generator.Response {
	out := generator.Response{PromptBlockReason: promptBlockReason(err.PromptFeedback)}
	if err.Candidate != nil {
		out.Candidates = []generator.Candidate{toCandidate(err.Candidate)}
	}
	if out.PromptBlockReason == "" && len(out.Candidates) == 0 {
		out.PromptBlockReason = "unspecified"
	}
	return out
}

func promptBlockReason(feedback *genai.PromptFeedback) string {
	if feedback == nil {
		return ""
	}
	switch feedback.BlockReason {
	case genai.BlockReasonUnspecified:
		return ""
	case genai.BlockReasonSafety:
		return "safety"
	default:
		return "other"
	}
}

func toCandidate(cand *genai.Candidate) generator.Candidate {
	out := generator.Candidate{FinishReason: finishReason(cand.FinishReason)}
	for _, rating := range cand.SafetyRatings {
		if rating == nil {
			continue
		}
		out.SafetyRatings = append(out.SafetyRatings, generator.SafetyRating{
			Category:    harmCategory(rating.Category),
			Probability: probability(rating.Probability),
			Blocked:     rating.Blocked,
		})
	}
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out.Parts = append(out.Parts, string(text))
			}
		}
	}
	return out
}

func finishReason(reason genai.FinishReason) string {
	switch reason {
	case genai.FinishReasonStop:
		return generator.FinishStop
	case genai.FinishReasonMaxTokens:
		return generator.FinishMaxTokens
	case genai.FinishReasonSafety:
		return generator.FinishSafety
	case genai.FinishReasonRecitation:
		return generator.FinishRecitation
	case genai.FinishReasonUnspecified:
		return ""
	default:
		return generator.FinishOther
	}
}

func harmCategory(category genai.HarmCategory) string {
	switch category {
	case genai.HarmCategoryHarassment:
		return "harassment"
	case genai.HarmCategoryHateSpeech:
		return "hate_speech"
	case genai.HarmCategorySexuallyExplicit:
		return "sexually_explicit"
	case genai.HarmCategoryDangerousContent:
		return "dangerous_content"
	default:
		return fmt.Sprintf("category_%d", int32(category))
	}
}

func probability(p genai.HarmProbability) generator.Probability {
	switch p {
	case genai.HarmProbabilityNegligible:
		return generator.ProbabilityNegligible
	case genai.HarmProbabilityLow:
		return generator.ProbabilityLow
	case genai.HarmProbabilityMedium:
		return generator.ProbabilityMedium
	case genai.HarmProbabilityHigh:
		return generator.ProbabilityHigh
	default:
		return generator.ProbabilityUnspecified
	}
}
