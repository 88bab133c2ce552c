package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"codewarden/internal/adapters/ocr"
	"codewarden/internal/core/detect"
	"codewarden/internal/core/patterns"
	perr "codewarden/internal/platform/errors"
	"codewarden/internal/platform/logger"
	gatedomain "codewarden/internal/services/gate/domain"
	ledgerdomain "codewarden/internal/services/ledger/domain"
	"codewarden/internal/services/moderation/domain"
)

const codeSnippet = "def totals(xs):\n    import math\n    return sum(xs)"

type fakeGate struct {
	evaluate bool
}

func (g *fakeGate) Status(context.Context) gatedomain.Status {
	return gatedomain.Status{State: gatedomain.StateActive}
}

func (g *fakeGate) Allows(_ context.Context, op gatedomain.Op) bool {
	if op == gatedomain.OpEvaluate {
		return g.evaluate
	}
	return true
}

func (g *fakeGate) Disable(context.Context, time.Duration, string, string) (gatedomain.Status, error) {
	return gatedomain.Status{}, nil
}
func (g *fakeGate) Enable(context.Context, string) (gatedomain.Status, error) {
	return gatedomain.Status{}, nil
}
func (g *fakeGate) Maintenance(context.Context, string, string) (gatedomain.Status, error) {
	return gatedomain.Status{}, nil
}
func (g *fakeGate) Kill(context.Context, string, string) (gatedomain.Status, error) {
	return gatedomain.Status{}, nil
}
func (g *fakeGate) Done() <-chan struct{} { return nil }

type fakeLedger struct {
	mu    sync.Mutex
	count int
	last  ledgerdomain.WarningWrite
}

func (l *fakeLedger) Record(_ context.Context, w ledgerdomain.WarningWrite) (ledgerdomain.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.count++
	l.last = w
	return ledgerdomain.Receipt{ID: "w1", ActiveCount: l.count}, nil
}

type fakeExtractor struct {
	text string
	down bool
}

func (e *fakeExtractor) ExtractText(context.Context, ocr.Image) (string, error) {
	if e.down {
		return "", perr.OCRUnavailablef("sidecar offline")
	}
	return e.text, nil
}

func newEngine(t *testing.T) *detect.Engine {
	t.Helper()
	pack, err := patterns.Load()
	if err != nil {
		t.Fatalf("load patterns: %v", err)
	}
	return detect.New(pack)
}

func newSvc(t *testing.T, gate *fakeGate, ext *fakeExtractor, led *fakeLedger) *Service {
	t.Helper()
	return New(gate, newEngine(t), ext, led, nil, Config{
		PermittedRoles: []string{"bot-dev"},
	}, logger.Nop())
}

func TestGateOffMeansNoAction(t *testing.T) {
	led := &fakeLedger{}
	svc := newSvc(t, &fakeGate{evaluate: false}, &fakeExtractor{}, led)

	d, err := svc.Evaluate(context.Background(), domain.Event{
		GuildID: "g1", UserID: "u1", Content: codeSnippet,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Action != domain.ActionNone {
		t.Fatalf("action = %q want none", d.Action)
	}
	if led.count != 0 {
		t.Fatalf("ledger written while gate off")
	}
}

func TestPermittedRoleBypass(t *testing.T) {
	led := &fakeLedger{}
	svc := newSvc(t, &fakeGate{evaluate: true}, &fakeExtractor{}, led)

	d, err := svc.Evaluate(context.Background(), domain.Event{
		GuildID: "g1", UserID: "u1", Roles: []string{"member", "bot-dev"}, Content: codeSnippet,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Action != domain.ActionNone {
		t.Fatalf("action = %q want none", d.Action)
	}
	if led.count != 0 {
		t.Fatalf("ledger written for permitted role")
	}
}

func TestCodeInTextGetsDeleted(t *testing.T) {
	led := &fakeLedger{}
	svc := newSvc(t, &fakeGate{evaluate: true}, &fakeExtractor{}, led)

	d, err := svc.Evaluate(context.Background(), domain.Event{
		GuildID: "g1", ChannelID: "c1", UserID: "u1", Content: codeSnippet,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Action != domain.ActionDeleteAndWarn {
		t.Fatalf("action = %q want delete_and_warn", d.Action)
	}
	if d.WarningCount != 1 {
		t.Fatalf("warning count = %d want 1", d.WarningCount)
	}
	if d.Verdict.Source != detect.SourceText {
		t.Fatalf("source = %q want text", d.Verdict.Source)
	}
	if led.last.UserID != "u1" || led.last.GuildID != "g1" {
		t.Fatalf("ledger write = %+v", led.last)
	}
}

func TestPlainChatPasses(t *testing.T) {
	led := &fakeLedger{}
	svc := newSvc(t, &fakeGate{evaluate: true}, &fakeExtractor{}, led)

	d, err := svc.Evaluate(context.Background(), domain.Event{
		GuildID: "g1", UserID: "u1",
		Content: "has anyone tried the new pizza place around the corner?",
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Action != domain.ActionNone {
		t.Fatalf("action = %q want none", d.Action)
	}
	if led.count != 0 {
		t.Fatalf("ledger written for plain chat")
	}
}

func TestCodeInImageGetsDeleted(t *testing.T) {
	led := &fakeLedger{}
	svc := newSvc(t, &fakeGate{evaluate: true}, &fakeExtractor{text: codeSnippet}, led)

	d, err := svc.Evaluate(context.Background(), domain.Event{
		GuildID: "g1", UserID: "u1",
		Content:     "look at this",
		Attachments: []domain.Attachment{{URL: "https://cdn/x.png", MimeType: "image/png"}},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Action != domain.ActionDeleteAndWarn {
		t.Fatalf("action = %q want delete_and_warn", d.Action)
	}
	if d.Verdict.Source != detect.SourceOCR {
		t.Fatalf("source = %q want ocr", d.Verdict.Source)
	}
}

func TestOCRDownFlagsForReview(t *testing.T) {
	led := &fakeLedger{}
	svc := newSvc(t, &fakeGate{evaluate: true}, &fakeExtractor{down: true}, led)

	d, err := svc.Evaluate(context.Background(), domain.Event{
		GuildID: "g1", UserID: "u1",
		Content:     "look at this",
		Attachments: []domain.Attachment{{URL: "https://cdn/x.png", MimeType: "image/png"}},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Action != domain.ActionFlagForReview {
		t.Fatalf("action = %q want flag_for_review", d.Action)
	}
	if led.count != 0 {
		t.Fatalf("ledger written while extractor down")
	}
}

func TestCanceledContextSkipsLedgerWrite(t *testing.T) {
	led := &fakeLedger{}
	svc := newSvc(t, &fakeGate{evaluate: true}, &fakeExtractor{}, led)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Evaluate(ctx, domain.Event{GuildID: "g1", UserID: "u1", Content: codeSnippet})
	if err == nil {
		t.Fatalf("expected error for canceled context")
	}
	if led.count != 0 {
		t.Fatalf("ledger written after cancel")
	}
}

func TestRepeatOffensesCountUp(t *testing.T) {
	led := &fakeLedger{}
	svc := newSvc(t, &fakeGate{evaluate: true}, &fakeExtractor{}, led)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		d, err := svc.Evaluate(ctx, domain.Event{GuildID: "g1", UserID: "u1", Content: codeSnippet})
		if err != nil {
			t.Fatalf("evaluate %d: %v", want, err)
		}
		if d.WarningCount != want {
			t.Fatalf("warning count = %d want %d", d.WarningCount, want)
		}
	}
}
