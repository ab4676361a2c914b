// Package gemini adapts the Gemini Files API and GenerateContent to the
// mediajob.Service and generator.Model contracts.
//
// Raw file states, finish reasons and harm probabilities are translated here
// so that no genai enum leaks into the rest of the pipeline.
package gemini
