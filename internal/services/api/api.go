// Package api provides the HTTP API for the moderation core
package api

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"codewarden/internal/platform/config"
	"codewarden/internal/platform/logger"
	phttp "codewarden/internal/platform/net/http"
	"codewarden/internal/platform/store"

	"codewarden/internal/modkit"
	"codewarden/internal/modkit/httpkit"
	"codewarden/internal/modkit/module"

	apigate "codewarden/internal/services/api/gate/module"
	apimeta "codewarden/internal/services/api/meta/module"
	apimod "codewarden/internal/services/api/moderation/module"
	apiwarn "codewarden/internal/services/api/warnings/module"
	gatemod "codewarden/internal/services/gate/module"
	ledgermod "codewarden/internal/services/ledger/module"
	modmod "codewarden/internal/services/moderation/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger logger.Logger
}

// Mount builds the service graph and mounts it onto the given router
func Mount(r phttp.Router, opt Options) error {
	deps := modkit.Deps{
		Log: opt.Logger,
		Cfg: opt.Config,
		DB:  opt.Store,
	}

	// core modules first, the API modules borrow their ports
	gateCore := gatemod.New(deps)
	gatePort := module.MustPortsOf[gatemod.Ports](gateCore).Gate

	ledgerCore, err := ledgermod.New(deps)
	if err != nil {
		return err
	}
	ledgerPorts := module.MustPortsOf[ledgermod.Ports](ledgerCore)

	modCore, err := modmod.New(deps, gatePort, ledgerPorts.Writer)
	if err != nil {
		return err
	}
	evaluator := module.MustPortsOf[modmod.Ports](modCore).Evaluator

	mods := []module.Module{
		apimod.New(deps, modkit.WithPorts(apimod.Ports{
			Evaluator: evaluator,
		})),
		apigate.New(deps, modkit.WithPorts(apigate.Ports{
			Gate: gatePort,
		})),
		apiwarn.New(deps, modkit.WithPorts(apiwarn.Ports{
			Query: ledgerPorts.Query,
			Admin: ledgerPorts.Admin,
			Gate:  gatePort,
		})),
		apimeta.New(deps),
	}

	// versioned API with the common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	// observability stays outside the versioned prefix
	r.Handle("/metrics", promhttp.Handler())

	return nil
}
