package main

import (
	"context"
	"testing"

	"vidnotes/internal/state"
	"vidnotes/internal/testsupport"
)

func seedState(t *testing.T, env *cliTestEnv, paths ...string) {
	t.Helper()
	st, err := state.Open(env.cfg.State.Backend, env.cfg.State.Path, nil)
	if err != nil {
		t.Fatalf("open state: %v", err)
	}
	defer st.Close()
	if err := st.Save(context.Background(), state.NewProcessedSet(paths...)); err != nil {
		t.Fatalf("seed state: %v", err)
	}
}

func TestStateListAndForget(t *testing.T) {
	env := setupCLITestEnv(t)
	seedState(t, env, "/Videos/a.mp4", "/Videos/b.mp4")

	out, _, err := env.run(t, "state", "list")
	if err != nil {
		t.Fatalf("state list: %v", err)
	}
	requireContains(t, out, "/Videos/a.mp4")
	requireContains(t, out, "Total: 2")

	out, _, err = env.run(t, "state", "forget", "Videos/a.mp4")
	if err != nil {
		t.Fatalf("state forget: %v", err)
	}
	requireContains(t, out, "Forgot /Videos/a.mp4")

	out, _, err = env.run(t, "state", "list")
	if err != nil {
		t.Fatalf("state list: %v", err)
	}
	requireContains(t, out, "Total: 1")

	if _, _, err := env.run(t, "state", "forget", "/Videos/zzz.mp4"); err == nil {
		t.Fatal("expected error for unknown path")
	}
}

func TestStateListEmptySQLite(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSQLiteState())

	out, _, err := env.run(t, "state", "list")
	if err != nil {
		t.Fatalf("state list: %v", err)
	}
	requireContains(t, out, "No processed recordings")
}
