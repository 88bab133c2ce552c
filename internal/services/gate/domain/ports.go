package domain

import (
	"context"
	"time"
)

// GatePort controls and inspects the operational gate
type GatePort interface {
	// Status reports current state, applying lazy expiry of timed disables
	Status(ctx context.Context) Status

	// Allows reports whether op may proceed in the current state
	Allows(ctx context.Context, op Op) bool

	Disable(ctx context.Context, d time.Duration, reason, by string) (Status, error)
	Enable(ctx context.Context, by string) (Status, error)
	Maintenance(ctx context.Context, reason, by string) (Status, error)
	Kill(ctx context.Context, reason, by string) (Status, error)

	// Done is closed once the gate is killed, the daemon uses it to exit
	Done() <-chan struct{}
}
