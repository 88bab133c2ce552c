// Package module wires the warning ledger service
package module

import (
	"context"

	"codewarden/internal/modkit"
	phttp "codewarden/internal/platform/net/http"
	"codewarden/internal/services/ledger/domain"
	"codewarden/internal/services/ledger/repo"
	"codewarden/internal/services/ledger/service"
)

// Ports exposed by the ledger module
type Ports struct {
	Writer domain.WriterPort
	Query  domain.QueryPort
	Admin  domain.AdminPort
}

// Module implements the warning ledger module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the ledger module, picking the repo from the opened store
// postgres wins when both handles are present
func New(deps modkit.Deps) (*Module, error) {
	opts := FromConfig(deps.Cfg)

	var storage repo.Storage
	if deps.DB != nil && deps.DB.PG != nil {
		r, err := repo.NewPostgres(context.Background(), deps.DB.PG)
		if err != nil {
			return nil, err
		}
		storage = r
	} else {
		r, err := repo.NewSQLite(deps.DB.SQL)
		if err != nil {
			return nil, err
		}
		storage = r
	}

	svc := service.New(storage, service.Config{Expiry: opts.Expiry}, deps.Log)

	m := &Module{deps: deps}
	m.ports = Ports{Writer: svc, Query: svc, Admin: svc}
	return m, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "ledger" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
// ledger endpoints are mounted by the api composition, not here
func (m *Module) MountRoutes(r phttp.Router) {}
