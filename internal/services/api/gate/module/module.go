// Package module wires gate control into the API using modkit
package module

import (
	"net/http"

	modkit "codewarden/internal/modkit"
	"codewarden/internal/modkit/httpkit"
	gatehttp "codewarden/internal/services/api/gate/http"
	gatedomain "codewarden/internal/services/gate/domain"
)

// Ports required by the API gate module
type Ports struct {
	Gate gatedomain.GatePort
}

// Module implements the API gate module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	ports    Ports
	register func(httpkit.Router)
}

// New constructs the API gate module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("gate"),
		modkit.WithPrefix("/gate"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok {
		panic("gate api module requires Ports with a Gate")
	}

	adminRoles := FromConfig(deps.Cfg).AdminRoles

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		ports:  ports,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		gatehttp.Register(r, m.ports.Gate, adminRoles)
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
