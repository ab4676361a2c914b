package services_test

import (
	"context"
	"testing"

	"vidnotes/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-1")
	ctx = services.WithCandidate(ctx, "meeting1.mp4")
	ctx = services.WithStage(ctx, "await")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if name, ok := services.CandidateFromContext(ctx); !ok || name != "meeting1.mp4" {
		t.Fatalf("unexpected candidate: %v %v", name, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "await" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithCandidate(ctx, "")
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.CandidateFromContext(ctx); ok {
		t.Fatal("expected no candidate value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
