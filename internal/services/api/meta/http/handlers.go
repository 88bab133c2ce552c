// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"database/sql"
	"net/http"
	"time"

	"codewarden/internal/core/patterns"
	"codewarden/internal/core/version"
	"codewarden/internal/modkit/httpkit"
)

// Pinger is satisfied by storage handles that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	SQL         any
	PG          any
	CH          any
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/patterns", h.patterns)
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok fail skipped unknown
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// VersionResponse reports build identity
type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

// PatternsResponse reports the loaded rule pack
type PatternsResponse struct {
	PackVersion int      `json:"pack_version"`
	Rules       int      `json:"rules"`
	Skipped     []string `json:"skipped,omitempty"`
}

func (h *handlers) ready(_ *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 2*time.Second)
	defer cancel()

	check := func(name string, c any) ReadyCheck {
		if c == nil {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		var err error
		switch p := c.(type) {
		case Pinger:
			err = p.Ping(ctx)
		case *sql.DB:
			err = p.PingContext(ctx)
		default:
			return ReadyCheck{Name: name, Status: "unknown"}
		}
		if err != nil {
			return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
		}
		return ReadyCheck{Name: name, Status: "ok"}
	}

	checks := []ReadyCheck{
		check("sqlite", h.deps.SQL),
		check("pg", h.deps.PG),
		check("ch", h.deps.CH),
	}

	overall := "ok"
	for _, c := range checks {
		if c.Status == "fail" {
			overall = "fail"
			break
		}
	}

	return ReadyResponse{
		Status: overall,
		Checks: checks,
		Now:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return VersionResponse{Version: version.Version, Commit: version.Commit}, nil
}

func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := time.Since(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}

func (h *handlers) patterns(_ *http.Request) (any, error) {
	pack, err := patterns.Load()
	if err != nil {
		return nil, err
	}
	return PatternsResponse{
		PackVersion: pack.Version,
		Rules:       len(pack.Rules),
		Skipped:     pack.Skipped,
	}, nil
}
