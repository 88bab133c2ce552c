package domain

import "context"

// EvaluatorPort runs the full moderation pipeline for one event
type EvaluatorPort interface {
	Evaluate(ctx context.Context, ev Event) (Decision, error)
}

// AuditPort records verdicts for offline threshold calibration
// implementations must be safe to call concurrently and must not block moderation
type AuditPort interface {
	RecordDecision(ctx context.Context, ev Event, d Decision) error
}
