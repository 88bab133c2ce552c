package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"codewarden/internal/services/ledger/domain"
)

// SQLite is the default single-node ledger repo
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an opened sqlite handle and ensures the schema exists
func NewSQLite(db *sql.DB) (*SQLite, error) {
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS warnings (
		id TEXT PRIMARY KEY,
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		channel_id TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL,
		confidence REAL NOT NULL DEFAULT 0,
		source TEXT NOT NULL DEFAULT 'text',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_warnings_user ON warnings(guild_id, user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_warnings_created ON warnings(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Insert implements Storage
func (s *SQLite) Insert(ctx context.Context, w domain.Warning) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO warnings (id, guild_id, user_id, channel_id, reason, confidence, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.GuildID, w.UserID, w.ChannelID, w.Reason, w.Confidence, w.Source, w.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert warning: %w", err)
	}
	return nil
}

// CountActive implements Storage
func (s *SQLite) CountActive(ctx context.Context, guildID, userID string, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM warnings WHERE guild_id = ? AND user_id = ? AND created_at >= ?`,
		guildID, userID, since.UnixMilli(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count warnings: %w", err)
	}
	return n, nil
}

// ListActive implements Storage
func (s *SQLite) ListActive(
	ctx context.Context,
	guildID, userID string,
	since time.Time,
	limit int,
) ([]domain.Warning, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, guild_id, user_id, channel_id, reason, confidence, source, created_at
		 FROM warnings
		 WHERE guild_id = ? AND user_id = ? AND created_at >= ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		guildID, userID, since.UnixMilli(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list warnings: %w", err)
	}
	defer rows.Close()

	var out []domain.Warning
	for rows.Next() {
		var w domain.Warning
		var createdMs int64
		if err := rows.Scan(&w.ID, &w.GuildID, &w.UserID, &w.ChannelID, &w.Reason, &w.Confidence, &w.Source, &createdMs); err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		w.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading warnings: %w", err)
	}
	return out, nil
}

// GuildStats implements Storage
func (s *SQLite) GuildStats(ctx context.Context, guildID string, since time.Time) (domain.GuildStats, error) {
	st := domain.GuildStats{GuildID: guildID}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT user_id) FROM warnings WHERE guild_id = ? AND created_at >= ?`,
		guildID, since.UnixMilli(),
	).Scan(&st.ActiveTotal, &st.DistinctUsers)
	if err != nil {
		return domain.GuildStats{}, fmt.Errorf("failed to read guild stats: %w", err)
	}
	return st, nil
}

// DeleteUser implements Storage
func (s *SQLite) DeleteUser(ctx context.Context, guildID, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM warnings WHERE guild_id = ? AND user_id = ?`,
		guildID, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear warnings: %w", err)
	}
	return res.RowsAffected()
}

// DeleteUserBefore implements Storage
func (s *SQLite) DeleteUserBefore(ctx context.Context, guildID, userID string, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM warnings WHERE guild_id = ? AND user_id = ? AND created_at < ?`,
		guildID, userID, cutoff.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge warnings: %w", err)
	}
	return res.RowsAffected()
}

// DeleteBefore implements Storage
func (s *SQLite) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM warnings WHERE created_at < ?`,
		cutoff.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge warnings: %w", err)
	}
	return res.RowsAffected()
}
