// Package http provides http transport for gate control
package http

import (
	stdhttp "net/http"
	"time"

	"codewarden/internal/modkit/httpkit"
	perr "codewarden/internal/platform/errors"
	gatedomain "codewarden/internal/services/gate/domain"
)

// Register mounts gate endpoints on the given router
func Register(r httpkit.Router, gate gatedomain.GatePort, adminRoles []string) {
	h := &handlers{gate: gate, admin: make(map[string]bool, len(adminRoles))}
	for _, role := range adminRoles {
		h.admin[role] = true
	}

	httpkit.Get(r, "/", h.status)
	httpkit.PostJSON[DisableInput](r, "/disable", h.disable)
	httpkit.PostJSON[ActorInput](r, "/enable", h.enable)
	httpkit.PostJSON[ReasonInput](r, "/maintenance", h.maintenance)
	httpkit.PostJSON[ReasonInput](r, "/kill", h.kill)
}

type handlers struct {
	gate  gatedomain.GatePort
	admin map[string]bool
}

// ActorInput identifies who is asking
type ActorInput struct {
	Actor      string   `json:"actor" validate:"required"`
	ActorRoles []string `json:"actor_roles"`
}

// ReasonInput is an actor plus a free-form reason
type ReasonInput struct {
	ActorInput
	Reason string `json:"reason"`
}

// DisableInput optionally bounds the disable with a duration like "30m"
type DisableInput struct {
	ReasonInput
	Duration string `json:"duration"`
}

func (h *handlers) guard(r *stdhttp.Request, in ActorInput) error {
	if !h.gate.Allows(r.Context(), gatedomain.OpAdmin) {
		return perr.InvalidTransitionf("gate does not accept changes in its current state")
	}
	for _, role := range in.ActorRoles {
		if h.admin[role] {
			return nil
		}
	}
	return perr.Forbiddenf("actor %q lacks an admin role", in.Actor)
}

func (h *handlers) status(r *stdhttp.Request) (any, error) {
	return h.gate.Status(r.Context()), nil
}

func (h *handlers) disable(r *stdhttp.Request, in DisableInput) (any, error) {
	if err := h.guard(r, in.ActorInput); err != nil {
		return nil, err
	}
	var d time.Duration
	if in.Duration != "" {
		var err error
		if d, err = time.ParseDuration(in.Duration); err != nil {
			return nil, perr.InvalidArgf("bad duration %q", in.Duration)
		}
	}
	return h.gate.Disable(r.Context(), d, in.Reason, in.Actor)
}

func (h *handlers) enable(r *stdhttp.Request, in ActorInput) (any, error) {
	if err := h.guard(r, in); err != nil {
		return nil, err
	}
	return h.gate.Enable(r.Context(), in.Actor)
}

func (h *handlers) maintenance(r *stdhttp.Request, in ReasonInput) (any, error) {
	if err := h.guard(r, in.ActorInput); err != nil {
		return nil, err
	}
	return h.gate.Maintenance(r.Context(), in.Reason, in.Actor)
}

func (h *handlers) kill(r *stdhttp.Request, in ReasonInput) (any, error) {
	if err := h.guard(r, in.ActorInput); err != nil {
		return nil, err
	}
	return h.gate.Kill(r.Context(), in.Reason, in.Actor)
}
