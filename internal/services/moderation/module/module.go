// Package module wires the enforcement orchestrator
package module

import (
	"context"

	"codewarden/internal/adapters/ocr"
	"codewarden/internal/core/detect"
	"codewarden/internal/core/patterns"
	"codewarden/internal/modkit"
	phttp "codewarden/internal/platform/net/http"
	gatedomain "codewarden/internal/services/gate/domain"
	ledgerdomain "codewarden/internal/services/ledger/domain"
	"codewarden/internal/services/moderation/domain"
	"codewarden/internal/services/moderation/repo"
	"codewarden/internal/services/moderation/service"
)

// Ports exposed by the moderation module
type Ports struct {
	Evaluator domain.EvaluatorPort
}

// Module implements the moderation module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the moderation module
// gate and writer come from their own modules, the audit sink is optional
func New(deps modkit.Deps, gate gatedomain.GatePort, writer ledgerdomain.WriterPort) (*Module, error) {
	opts := FromConfig(deps.Cfg)

	pack, err := patterns.Load()
	if err != nil {
		return nil, err
	}
	for _, skipped := range pack.Skipped {
		deps.Log.Warn().Str("rule", skipped).Msg("detection rule skipped at load")
	}
	engine := detect.NewWithOptions(pack, detect.Options{Threshold: opts.Threshold})

	var extractor ocr.ExtractorPort = ocr.Disabled{}
	if opts.OCRHost != "" {
		extractor = ocr.NewClient(ocr.Config{Host: opts.OCRHost, Timeout: opts.OCRTimeout}, deps.Log)
	}

	var audit domain.AuditPort
	if deps.DB != nil && deps.DB.CH != nil {
		sink, err := repo.NewCHAudit(context.Background(), deps.DB.CH)
		if err != nil {
			return nil, err
		}
		audit = sink
	}

	svc := service.New(gate, engine, extractor, writer, audit, service.Config{
		PermittedRoles: opts.PermittedRoles,
	}, deps.Log)

	m := &Module{deps: deps}
	m.ports = Ports{Evaluator: svc}
	return m, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "moderation" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
// moderation endpoints are mounted by the api composition, not here
func (m *Module) MountRoutes(r phttp.Router) {}
