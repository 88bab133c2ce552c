// Package module wires meta endpoints into the API using modkit
package module

import (
	"net/http"
	"time"

	modkit "codewarden/internal/modkit"
	"codewarden/internal/modkit/httpkit"

	metahttp "codewarden/internal/services/api/meta/http"
)

// Module implements the API meta module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)

	startedAt time.Time
}

// New constructs the meta module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		startedAt: time.Now(),
	}

	h := metahttp.Deps{
		ServiceName: "codewarden-api",
		StartedAt:   m.startedAt,
	}
	if deps.DB != nil {
		// typed nils must not reach the any fields, ready would report
		// them as unknown instead of skipped
		if deps.DB.SQL != nil {
			h.SQL = deps.DB.SQL
		}
		if deps.DB.PG != nil {
			h.PG = deps.DB.PG
		}
		if deps.DB.CH != nil {
			h.CH = deps.DB.CH
		}
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		metahttp.Register(r, h)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return nil }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, m.register)
}
