package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	perr "codewarden/internal/platform/errors"
	"codewarden/internal/platform/logger"
	"codewarden/internal/services/gate/domain"
	"codewarden/internal/services/gate/repo"
)

func newGate(t *testing.T) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gate.json")
	return New(repo.NewSnapshot(path), logger.Nop()), path
}

func TestStartsActive(t *testing.T) {
	g, _ := newGate(t)
	ctx := context.Background()

	st := g.Status(ctx)
	if st.State != domain.StateActive {
		t.Fatalf("state = %q want active", st.State)
	}
	if !g.Allows(ctx, domain.OpEvaluate) {
		t.Fatalf("evaluate should be allowed when active")
	}
}

func TestDisableBlocksEvaluateOnly(t *testing.T) {
	g, _ := newGate(t)
	ctx := context.Background()

	st, err := g.Disable(ctx, 0, "noisy raid", "admin#1")
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if st.State != domain.StateDisabled || !st.Until.IsZero() {
		t.Fatalf("status = %+v", st)
	}
	if g.Allows(ctx, domain.OpEvaluate) {
		t.Fatalf("evaluate allowed while disabled")
	}
	if !g.Allows(ctx, domain.OpAdmin) || !g.Allows(ctx, domain.OpStatus) {
		t.Fatalf("admin and status must stay allowed while disabled")
	}
}

func TestTimedDisableExpiresLazily(t *testing.T) {
	g, _ := newGate(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	g.now = func() time.Time { return clock }

	if _, err := g.Disable(ctx, 10*time.Minute, "cooldown", "admin#1"); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if g.Allows(ctx, domain.OpEvaluate) {
		t.Fatalf("evaluate allowed inside the disable window")
	}

	clock = base.Add(11 * time.Minute)
	st := g.Status(ctx)
	if st.State != domain.StateActive {
		t.Fatalf("state after expiry = %q want active", st.State)
	}
	if st.ChangedBy != "expiry" {
		t.Fatalf("changed_by = %q want expiry", st.ChangedBy)
	}
	if !g.Allows(ctx, domain.OpEvaluate) {
		t.Fatalf("evaluate should be allowed after the window lapses")
	}
}

func TestKilledIsTerminal(t *testing.T) {
	g, _ := newGate(t)
	ctx := context.Background()

	if _, err := g.Kill(ctx, "incident", "admin#1"); err != nil {
		t.Fatalf("kill: %v", err)
	}
	if g.Allows(ctx, domain.OpEvaluate) || g.Allows(ctx, domain.OpAdmin) {
		t.Fatalf("only status survives a kill")
	}
	if !g.Allows(ctx, domain.OpStatus) {
		t.Fatalf("status must survive a kill")
	}

	if _, err := g.Enable(ctx, "admin#2"); !perr.IsCode(err, perr.ErrorCodeInvalidTransition) {
		t.Fatalf("enable after kill: err = %v", err)
	}
	if _, err := g.Disable(ctx, 0, "x", "admin#2"); !perr.IsCode(err, perr.ErrorCodeInvalidTransition) {
		t.Fatalf("disable after kill: err = %v", err)
	}
	if _, err := g.Maintenance(ctx, "x", "admin#2"); !perr.IsCode(err, perr.ErrorCodeInvalidTransition) {
		t.Fatalf("maintenance after kill: err = %v", err)
	}

	// repeat kill is a no-op, not an error
	if _, err := g.Kill(ctx, "again", "admin#2"); err != nil {
		t.Fatalf("second kill: %v", err)
	}

	select {
	case <-g.Done():
	default:
		t.Fatalf("Done must be closed after kill")
	}
}

func TestKillNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gate.json")
	ctx := context.Background()

	g1 := New(repo.NewSnapshot(path), logger.Nop())
	if _, err := g1.Disable(ctx, 0, "spam wave", "admin#1"); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if _, err := g1.Kill(ctx, "incident", "admin#1"); err != nil {
		t.Fatalf("kill: %v", err)
	}

	// the snapshot still holds the last pre-kill state
	g2 := New(repo.NewSnapshot(path), logger.Nop())
	if st := g2.Status(ctx); st.State != domain.StateDisabled {
		t.Fatalf("restarted state = %q want disabled", st.State)
	}
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gate.json")
	snap := repo.NewSnapshot(path)
	ctx := context.Background()

	g1 := New(snap, logger.Nop())
	if _, err := g1.Maintenance(ctx, "upgrading", "admin#1"); err != nil {
		t.Fatalf("maintenance: %v", err)
	}

	g2 := New(repo.NewSnapshot(path), logger.Nop())
	st := g2.Status(ctx)
	if st.State != domain.StateMaintenance || st.Reason != "upgrading" {
		t.Fatalf("restored status = %+v", st)
	}
}

func TestCorruptSnapshotStartsActive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gate.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	g := New(repo.NewSnapshot(path), logger.Nop())
	if st := g.Status(context.Background()); st.State != domain.StateActive {
		t.Fatalf("state = %q want active", st.State)
	}
}
