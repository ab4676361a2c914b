package services

import (
	"errors"
	"fmt"
	"strings"
)

// Markers classify failures. Configuration and not-found errors abort a run;
// the rest are recorded against a single recording. ErrValidation marks a
// generated document rejected by the safety gate.
var (
	ErrExternalTool  = errors.New("external service error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err should abort the whole run rather than a single
// candidate.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrNotFound)
}

// Hint returns the operator next step for err based on its marker.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "run `vidnotes config validate` and `vidnotes check`"
	case errors.Is(err, ErrNotFound):
		return "verify remote.watch_dir and remote.output_dir exist in the remote store"
	case errors.Is(err, ErrValidation):
		return "review gemini.block_threshold and gemini.min_text_length"
	case errors.Is(err, ErrTimeout):
		return "raise gemini.processing_timeout_seconds or retry later"
	case errors.Is(err, ErrExternalTool):
		return "check network access and the remote store and Gemini credentials"
	case errors.Is(err, ErrTransient):
		return "rerun vidnotes; completed recordings are not repeated"
	default:
		return "check logs for details"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
