// Package service implements the operational gate state machine
package service

import (
	"context"
	"sync"
	"time"

	perr "codewarden/internal/platform/errors"
	"codewarden/internal/platform/logger"
	"codewarden/internal/services/gate/domain"
)

// capability allow list per state
// evaluate is the only capability that ever gets switched off short of a kill
var allowed = map[domain.State]map[domain.Op]bool{
	domain.StateActive: {
		domain.OpEvaluate: true,
		domain.OpAdmin:    true,
		domain.OpStatus:   true,
	},
	domain.StateDisabled: {
		domain.OpAdmin:  true,
		domain.OpStatus: true,
	},
	domain.StateMaintenance: {
		domain.OpAdmin:  true,
		domain.OpStatus: true,
	},
	domain.StateKilled: {
		domain.OpStatus: true,
	},
}

// Persister saves gate status across restarts
type Persister interface {
	Load() (domain.Status, bool, error)
	Save(st domain.Status) error
}

// Service implements domain.GatePort
type Service struct {
	mu    sync.RWMutex
	st    domain.Status
	snap  Persister
	log   logger.Logger
	killc chan struct{}

	now func() time.Time
}

// New builds the gate, restoring persisted state when available
// a corrupt snapshot starts the gate active and logs the damage
func New(snap Persister, log logger.Logger) *Service {
	s := &Service{
		snap:  snap,
		log:   log,
		killc: make(chan struct{}),
		now:   func() time.Time { return time.Now().UTC() },
	}
	s.st = domain.Status{State: domain.StateActive, ChangedAt: s.now()}
	if snap != nil {
		st, ok, err := snap.Load()
		switch {
		case err != nil:
			log.Error().Err(err).Msg("gate snapshot unreadable, starting active")
		case ok && st.State == domain.StateKilled:
			// a kill ends with the process, a fresh start comes back active
			log.Warn().Msg("ignoring killed snapshot, starting active")
		case ok:
			s.st = st
		}
	}
	return s
}

// Status reports current state, expiring a timed disable in place
func (s *Service) Status(ctx context.Context) domain.Status {
	s.mu.RLock()
	st := s.st
	s.mu.RUnlock()

	if st.State == domain.StateDisabled && !st.Until.IsZero() && !s.now().Before(st.Until) {
		s.mu.Lock()
		// recheck under the write lock, someone may have raced us here
		if s.st.State == domain.StateDisabled && !s.st.Until.IsZero() && !s.now().Before(s.st.Until) {
			s.apply(domain.Status{
				State:     domain.StateActive,
				ChangedAt: s.now(),
				ChangedBy: "expiry",
			})
		}
		st = s.st
		s.mu.Unlock()
	}
	return st
}

// Allows reports whether op may proceed right now
func (s *Service) Allows(ctx context.Context, op domain.Op) bool {
	st := s.Status(ctx)
	return allowed[st.State][op]
}

// Disable turns evaluation off, optionally until a deadline
func (s *Service) Disable(ctx context.Context, d time.Duration, reason, by string) (domain.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.State == domain.StateKilled {
		return s.st, perr.InvalidTransitionf("gate is killed, no further transitions")
	}
	next := domain.Status{
		State:     domain.StateDisabled,
		Reason:    reason,
		ChangedAt: s.now(),
		ChangedBy: by,
	}
	if d > 0 {
		next.Until = s.now().Add(d)
	}
	s.apply(next)
	return s.st, nil
}

// Enable returns the gate to active
func (s *Service) Enable(ctx context.Context, by string) (domain.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.State == domain.StateKilled {
		return s.st, perr.InvalidTransitionf("gate is killed, no further transitions")
	}
	s.apply(domain.Status{
		State:     domain.StateActive,
		ChangedAt: s.now(),
		ChangedBy: by,
	})
	return s.st, nil
}

// Maintenance puts the gate in maintenance mode
func (s *Service) Maintenance(ctx context.Context, reason, by string) (domain.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.State == domain.StateKilled {
		return s.st, perr.InvalidTransitionf("gate is killed, no further transitions")
	}
	s.apply(domain.Status{
		State:     domain.StateMaintenance,
		Reason:    reason,
		ChangedAt: s.now(),
		ChangedBy: by,
	})
	return s.st, nil
}

// Kill shuts the gate permanently, only a restart with a fresh snapshot recovers
func (s *Service) Kill(ctx context.Context, reason, by string) (domain.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.State == domain.StateKilled {
		return s.st, nil
	}
	// killed is never written to the snapshot, a restart recovers
	s.st = domain.Status{
		State:     domain.StateKilled,
		Reason:    reason,
		ChangedAt: s.now(),
		ChangedBy: by,
	}
	close(s.killc)
	s.log.Warn().Str("by", by).Str("reason", reason).Msg("gate killed")
	return s.st, nil
}

// Done is closed once the gate is killed
func (s *Service) Done() <-chan struct{} { return s.killc }

// apply swaps state and persists, callers hold the write lock
func (s *Service) apply(next domain.Status) {
	s.st = next
	if s.snap == nil {
		return
	}
	if err := s.snap.Save(next); err != nil {
		s.log.Error().Err(err).Msg("gate snapshot save failed, state is in memory only")
	}
}
