// Command codewarden-sweep purges expired warnings from the ledger
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"codewarden/internal/platform/config"
	"codewarden/internal/platform/logger"
	"codewarden/internal/platform/store"
	ledgermod "codewarden/internal/services/ledger/module"
	"codewarden/internal/services/ledger/repo"
	ledgersvc "codewarden/internal/services/ledger/service"
)

func main() {
	olderThan := flag.Duration("older-than", 0, "purge warnings older than this (default: configured expiry)")
	guildID := flag.String("guild", "", "with -user, clear a single user instead of purging")
	userID := flag.String("user", "", "clear all warnings for this user (requires -guild)")
	dryRun := flag.Bool("dry-run", false, "report what would be removed without deleting")
	rotateCorrupt := flag.Bool("rotate-corrupt", false, "rename a damaged sqlite file aside and start a fresh one")
	flag.Parse()

	root := config.New()
	wardenCfg := root.Prefix("WARDEN_")
	l := logger.Get()

	driver := wardenCfg.MayString("LEDGER_DRIVER", "sqlite")
	sqlitePath := wardenCfg.MayString("SQLITE_PATH", "data/warden.db")
	ctx := context.Background()

	open := func() (*store.Store, error) {
		return store.Open(ctx, store.Config{
			SQLite: store.SQLiteConfig{
				Enabled: driver == "sqlite",
				Path:    sqlitePath,
			},
			PG: store.PGConfig{
				Enabled:  driver == "postgres",
				URL:      wardenCfg.MayString("PG_DBURL", ""),
				MaxConns: 2,
			},
		}, store.WithLogger(*l))
	}

	st, err := open()
	if driver == "sqlite" && *rotateCorrupt {
		damaged := err != nil
		if err == nil {
			var verdict string
			if qerr := st.SQL.QueryRowContext(ctx, `PRAGMA integrity_check`).Scan(&verdict); qerr != nil || verdict != "ok" {
				damaged = true
				_ = st.Close(ctx)
			}
		}
		if damaged {
			aside := fmt.Sprintf("%s.corrupt-%d", sqlitePath, time.Now().Unix())
			if rerr := os.Rename(sqlitePath, aside); rerr != nil {
				l.Fatal().Err(rerr).Msg("could not rotate damaged ledger file")
			}
			l.Warn().Str("rotated_to", aside).Msg("damaged ledger file set aside, starting fresh")
			st, err = open()
		}
	}
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(ctx); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	var storage repo.Storage
	if st.PG != nil {
		r, err := repo.NewPostgres(ctx, st.PG)
		if err != nil {
			l.Panic().Err(err).Msg("postgres repo init failed")
		}
		storage = r
	} else {
		r, err := repo.NewSQLite(st.SQL)
		if err != nil {
			l.Panic().Err(err).Msg("sqlite repo init failed")
		}
		storage = r
	}

	expiry := ledgermod.FromConfig(root).Expiry
	svc := ledgersvc.New(storage, ledgersvc.Config{Expiry: expiry}, *l)

	if *userID != "" {
		if *guildID == "" {
			l.Fatal().Msg("-user requires -guild")
		}
		if *dryRun {
			n, err := svc.ActiveCount(ctx, *guildID, *userID)
			if err != nil {
				l.Fatal().Err(err).Msg("count failed")
			}
			l.Info().Int("active", n).Str("guild", *guildID).Str("user", *userID).Msg("dry run, nothing removed")
			return
		}
		n, err := svc.Clear(ctx, *guildID, *userID)
		if err != nil {
			l.Fatal().Err(err).Msg("clear failed")
		}
		l.Info().Int64("removed", n).Str("guild", *guildID).Str("user", *userID).Msg("user warnings cleared")
		return
	}

	cutoff := time.Time{}
	if *olderThan > 0 {
		cutoff = time.Now().UTC().Add(-*olderThan)
	}
	if *dryRun {
		l.Info().Dur("expiry", expiry).Time("cutoff", cutoff).Msg("dry run, nothing removed")
		return
	}
	n, err := svc.PurgeExpired(ctx, cutoff)
	if err != nil {
		l.Fatal().Err(err).Msg("purge failed")
	}
	l.Info().Int64("purged", n).Msg("sweep done")
}
