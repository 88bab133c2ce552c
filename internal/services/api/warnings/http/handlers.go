// Package http provides http transport for warning ledger queries
package http

import (
	stdhttp "net/http"

	"codewarden/internal/modkit/httpkit"
	perr "codewarden/internal/platform/errors"
	gatedomain "codewarden/internal/services/gate/domain"
	ledgerdomain "codewarden/internal/services/ledger/domain"
)

// Register mounts warning endpoints on the given router
func Register(r httpkit.Router, q ledgerdomain.QueryPort, admin ledgerdomain.AdminPort, gate gatedomain.GatePort, adminRoles []string) {
	h := &handlers{q: q, adm: admin, gate: gate, admin: make(map[string]bool, len(adminRoles))}
	for _, role := range adminRoles {
		h.admin[role] = true
	}

	httpkit.PostJSON[UserInput](r, "/count", h.count)
	httpkit.PostJSON[HistoryInput](r, "/history", h.history)
	httpkit.PostJSON[GuildInput](r, "/stats", h.stats)
	httpkit.PostJSON[ClearInput](r, "/clear", h.clear)
}

type handlers struct {
	q     ledgerdomain.QueryPort
	adm   ledgerdomain.AdminPort
	gate  gatedomain.GatePort
	admin map[string]bool
}

// UserInput targets one user in one guild
type UserInput struct {
	GuildID string `json:"guild_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
}

// HistoryInput adds a row limit
type HistoryInput struct {
	UserInput
	Limit int `json:"limit" validate:"omitempty,gte=1,lte=200"`
}

// GuildInput targets a whole guild
type GuildInput struct {
	GuildID string `json:"guild_id" validate:"required"`
}

// ClearInput wipes a user's warnings, admin only
type ClearInput struct {
	UserInput
	Actor      string   `json:"actor" validate:"required"`
	ActorRoles []string `json:"actor_roles"`
}

func (h *handlers) count(r *stdhttp.Request, in UserInput) (any, error) {
	n, err := h.q.ActiveCount(r.Context(), in.GuildID, in.UserID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"guild_id": in.GuildID, "user_id": in.UserID, "active_count": n}, nil
}

func (h *handlers) history(r *stdhttp.Request, in HistoryInput) (any, error) {
	rows, err := h.q.History(r.Context(), in.GuildID, in.UserID, in.Limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []ledgerdomain.Warning{}
	}
	return rows, nil
}

func (h *handlers) stats(r *stdhttp.Request, in GuildInput) (any, error) {
	return h.q.Stats(r.Context(), in.GuildID)
}

func (h *handlers) clear(r *stdhttp.Request, in ClearInput) (any, error) {
	if !h.gate.Allows(r.Context(), gatedomain.OpAdmin) {
		return nil, perr.InvalidTransitionf("gate does not accept changes in its current state")
	}
	ok := false
	for _, role := range in.ActorRoles {
		if h.admin[role] {
			ok = true
			break
		}
	}
	if !ok {
		return nil, perr.Forbiddenf("actor %q lacks an admin role", in.Actor)
	}
	n, err := h.adm.Clear(r.Context(), in.GuildID, in.UserID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"guild_id": in.GuildID, "user_id": in.UserID, "removed": n}, nil
}
