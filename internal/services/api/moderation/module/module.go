// Package module wires moderation evaluation into the API using modkit
package module

import (
	"net/http"

	modkit "codewarden/internal/modkit"
	"codewarden/internal/modkit/httpkit"
	modhttp "codewarden/internal/services/api/moderation/http"
	moddomain "codewarden/internal/services/moderation/domain"
)

// Ports required by the API moderation module
type Ports struct {
	Evaluator moddomain.EvaluatorPort
}

// Module implements the API moderation module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	ports    Ports
	register func(httpkit.Router)
}

// New constructs the API moderation module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("moderation"),
		modkit.WithPrefix("/moderation"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok {
		panic("moderation api module requires Ports with an Evaluator")
	}

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		ports:  ports,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		modhttp.Register(r, m.ports.Evaluator)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, m.register)
}
