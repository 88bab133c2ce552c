// Package module wires the operational gate service
package module

import (
	"codewarden/internal/modkit"
	phttp "codewarden/internal/platform/net/http"
	"codewarden/internal/services/gate/domain"
	"codewarden/internal/services/gate/repo"
	"codewarden/internal/services/gate/service"
)

// Ports exposed by the gate module
type Ports struct {
	Gate domain.GatePort
}

// Module implements the operational gate module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the gate module with file-backed persistence
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	var snap service.Persister
	if opts.SnapshotPath != "" {
		snap = repo.NewSnapshot(opts.SnapshotPath)
	}
	svc := service.New(snap, deps.Log)

	m := &Module{deps: deps}
	m.ports = Ports{Gate: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "gate" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
// gate endpoints are mounted by the api composition, not here
func (m *Module) MountRoutes(r phttp.Router) {}
