package main

import (
	"context"
	"os/signal"
	"syscall"

	"codewarden/internal/platform/config"
	"codewarden/internal/platform/logger"
	phttp "codewarden/internal/platform/net/http"
	"codewarden/internal/platform/store"

	"codewarden/internal/modkit/module"
	"codewarden/internal/services/api"
	apigate "codewarden/internal/services/api/gate/module"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	wardenCfg := root.Prefix("WARDEN_")

	// bring up logging early
	l := logger.Get()

	driver := wardenCfg.MayString("LEDGER_DRIVER", "sqlite")

	st, err := store.Open(
		context.Background(),
		store.Config{
			SQLite: store.SQLiteConfig{
				Enabled: driver == "sqlite",
				Path:    wardenCfg.MayString("SQLITE_PATH", "data/warden.db"),
			},
			PG: store.PGConfig{
				Enabled:  driver == "postgres",
				URL:      wardenCfg.MayString("PG_DBURL", ""),
				MaxConns: int32(wardenCfg.MayInt("PG_MAX_CONNS", 4)),
			},
			CH: store.CHConfig{
				Enabled: wardenCfg.MayString("AUDIT_CH_DBURL", "") != "",
				URL:     wardenCfg.MayString("AUDIT_CH_DBURL", ""),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	if err := api.Mount(srv.Router(), api.Options{
		Config: root,
		Store:  st,
		Logger: *l,
	}); err != nil {
		l.Panic().Err(err).Msg("api.Mount failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// a gate kill takes the whole daemon down, graceful shutdown lets the
	// kill response flush first
	if ports, ok := module.PortsAs[apigate.Ports]("gate"); ok {
		go func() {
			select {
			case <-ports.Gate.Done():
				l.Warn().Msg("gate killed, shutting down")
				stop()
			case <-ctx.Done():
			}
		}()
	}

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
