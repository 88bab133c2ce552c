// Package domain defines the types and interfaces for the operational gate
package domain

import "time"

// State is the gate's operating mode
type State string

// Gate states
const (
	StateActive      State = "active"
	StateDisabled    State = "disabled"
	StateMaintenance State = "maintenance"
	StateKilled      State = "killed"
)

// Valid reports whether s is a known state
func (s State) Valid() bool {
	switch s {
	case StateActive, StateDisabled, StateMaintenance, StateKilled:
		return true
	}
	return false
}

// Op is a gated capability
type Op string

// Gated capabilities
const (
	// OpEvaluate covers message classification and enforcement
	OpEvaluate Op = "evaluate"
	// OpAdmin covers warning queries, clears and gate changes
	OpAdmin Op = "admin"
	// OpStatus covers read-only status reporting
	OpStatus Op = "status"
)

// Status is the gate's full observable state
type Status struct {
	State     State     `json:"state"`
	Reason    string    `json:"reason,omitempty"`
	Until     time.Time `json:"until,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
	ChangedBy string    `json:"changed_by,omitempty"`
}
