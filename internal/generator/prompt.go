package generator

import (
	_ "embed"
	"strings"
)

// ExamplePlaceholder marks where the worked example is spliced into a template.
const ExamplePlaceholder = "{{EXAMPLE}}"

//go:embed default_prompt.md
var defaultTemplate string

// DefaultTemplate returns the built-in prompt template.
func DefaultTemplate() string {
	return defaultTemplate
}

// BuildPrompt fills the example placeholder. When an example is supplied but
// the template has no placeholder, the template is returned unchanged and
// warning is true.
func BuildPrompt(template, example string) (prompt string, warning bool) {
	example = strings.TrimSpace(example)
	if example == "" {
		return strings.TrimSpace(strings.ReplaceAll(template, ExamplePlaceholder, "")), false
	}
	if !strings.Contains(template, ExamplePlaceholder) {
		return template, true
	}
	return strings.ReplaceAll(template, ExamplePlaceholder, example), false
}
