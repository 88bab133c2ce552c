package repo

import (
	"context"
	"fmt"
	"time"

	"codewarden/internal/platform/store/pg"
	"codewarden/internal/services/ledger/domain"
)

// Postgres is the shared-cluster ledger repo for multi-node deployments
type Postgres struct {
	pg *pg.PG
}

// NewPostgres wraps an opened pool and ensures the schema exists
func NewPostgres(ctx context.Context, p *pg.PG) (*Postgres, error) {
	r := &Postgres{pg: p}
	if err := r.migrate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Postgres) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS warnings (
		id UUID PRIMARY KEY,
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		channel_id TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		source TEXT NOT NULL DEFAULT 'text',
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_warnings_user ON warnings (guild_id, user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_warnings_created ON warnings (created_at);
	`
	if _, err := r.pg.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Insert implements Storage
func (r *Postgres) Insert(ctx context.Context, w domain.Warning) error {
	_, err := r.pg.Pool.Exec(ctx,
		`INSERT INTO warnings (id, guild_id, user_id, channel_id, reason, confidence, source, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.GuildID, w.UserID, w.ChannelID, w.Reason, w.Confidence, w.Source, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert warning: %w", err)
	}
	return nil
}

// CountActive implements Storage
func (r *Postgres) CountActive(ctx context.Context, guildID, userID string, since time.Time) (int, error) {
	var n int
	err := r.pg.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM warnings WHERE guild_id = $1 AND user_id = $2 AND created_at >= $3`,
		guildID, userID, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count warnings: %w", err)
	}
	return n, nil
}

// ListActive implements Storage
func (r *Postgres) ListActive(
	ctx context.Context,
	guildID, userID string,
	since time.Time,
	limit int,
) ([]domain.Warning, error) {
	rows, err := r.pg.Pool.Query(ctx,
		`SELECT id::text, guild_id, user_id, channel_id, reason, confidence, source, created_at
		 FROM warnings
		 WHERE guild_id = $1 AND user_id = $2 AND created_at >= $3
		 ORDER BY created_at DESC
		 LIMIT $4`,
		guildID, userID, since, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list warnings: %w", err)
	}
	defer rows.Close()

	var out []domain.Warning
	for rows.Next() {
		var w domain.Warning
		if err := rows.Scan(&w.ID, &w.GuildID, &w.UserID, &w.ChannelID, &w.Reason, &w.Confidence, &w.Source, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading warnings: %w", err)
	}
	return out, nil
}

// GuildStats implements Storage
func (r *Postgres) GuildStats(ctx context.Context, guildID string, since time.Time) (domain.GuildStats, error) {
	st := domain.GuildStats{GuildID: guildID}
	err := r.pg.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT user_id) FROM warnings WHERE guild_id = $1 AND created_at >= $2`,
		guildID, since,
	).Scan(&st.ActiveTotal, &st.DistinctUsers)
	if err != nil {
		return domain.GuildStats{}, fmt.Errorf("failed to read guild stats: %w", err)
	}
	return st, nil
}

// DeleteUser implements Storage
func (r *Postgres) DeleteUser(ctx context.Context, guildID, userID string) (int64, error) {
	tag, err := r.pg.Pool.Exec(ctx,
		`DELETE FROM warnings WHERE guild_id = $1 AND user_id = $2`,
		guildID, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear warnings: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteUserBefore implements Storage
func (r *Postgres) DeleteUserBefore(ctx context.Context, guildID, userID string, cutoff time.Time) (int64, error) {
	tag, err := r.pg.Pool.Exec(ctx,
		`DELETE FROM warnings WHERE guild_id = $1 AND user_id = $2 AND created_at < $3`,
		guildID, userID, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge warnings: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteBefore implements Storage
func (r *Postgres) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pg.Pool.Exec(ctx,
		`DELETE FROM warnings WHERE created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge warnings: %w", err)
	}
	return tag.RowsAffected(), nil
}
