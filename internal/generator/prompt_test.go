package generator

import (
	"strings"
	"testing"
)

func TestBuildPromptReplacesPlaceholder(t *testing.T) {
	prompt, warning := BuildPrompt("Summarize.\n\n{{EXAMPLE}}\n", "# Example")
	if warning {
		t.Fatal("expected no warning")
	}
	if !strings.Contains(prompt, "# Example") || strings.Contains(prompt, ExamplePlaceholder) {
		t.Fatalf("unexpected prompt %q", prompt)
	}
}

func TestBuildPromptMissingPlaceholderWarns(t *testing.T) {
	template := "Summarize the video."
	prompt, warning := BuildPrompt(template, "# Example")
	if !warning {
		t.Fatal("expected warning when placeholder is absent")
	}
	if prompt != template {
		t.Fatalf("template should be unchanged, got %q", prompt)
	}
}

func TestBuildPromptEmptyExampleDropsPlaceholder(t *testing.T) {
	prompt, warning := BuildPrompt("Summarize.\n{{EXAMPLE}}", "  ")
	if warning {
		t.Fatal("no warning expected without an example")
	}
	if prompt != "Summarize." {
		t.Fatalf("unexpected prompt %q", prompt)
	}
}

func TestDefaultTemplateHasPlaceholder(t *testing.T) {
	tpl := DefaultTemplate()
	if !strings.Contains(tpl, ExamplePlaceholder) {
		t.Fatal("built-in template must carry the example placeholder")
	}
	if !strings.Contains(tpl, "Key Takeaways") {
		t.Fatal("built-in template lost its section list")
	}
}

func TestParseProbability(t *testing.T) {
	cases := map[string]Probability{
		"negligible": ProbabilityNegligible,
		"LOW":        ProbabilityLow,
		" medium ":   ProbabilityMedium,
		"high":       ProbabilityHigh,
	}
	for in, want := range cases {
		got, err := ParseProbability(in)
		if err != nil {
			t.Fatalf("ParseProbability(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseProbability(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseProbability("extreme"); err == nil {
		t.Fatal("expected error for unknown name")
	}
}
