// Package module wires warning ledger queries into the API using modkit
package module

import (
	"net/http"

	modkit "codewarden/internal/modkit"
	"codewarden/internal/modkit/httpkit"
	warnhttp "codewarden/internal/services/api/warnings/http"
	gatedomain "codewarden/internal/services/gate/domain"
	ledgerdomain "codewarden/internal/services/ledger/domain"
)

// Ports required by the API warnings module
type Ports struct {
	Query ledgerdomain.QueryPort
	Admin ledgerdomain.AdminPort
	Gate  gatedomain.GatePort
}

// Module implements the API warnings module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	ports    Ports
	register func(httpkit.Router)
}

// New constructs the API warnings module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("warnings"),
		modkit.WithPrefix("/warnings"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok {
		panic("warnings api module requires Ports with Query, Admin and Gate")
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
		warnhttp.Register(r, m.ports.Query, m.ports.Admin, m.ports.Gate, adminRoles)
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
