// Package repo provides warning ledger repository implementations
package repo

import (
	"context"
	"time"

	"codewarden/internal/services/ledger/domain"
)

// Storage is the persistence contract shared by the sqlite and postgres repos
type Storage interface {
	Insert(ctx context.Context, w domain.Warning) error
	CountActive(ctx context.Context, guildID, userID string, since time.Time) (int, error)
	ListActive(ctx context.Context, guildID, userID string, since time.Time, limit int) ([]domain.Warning, error)
	GuildStats(ctx context.Context, guildID string, since time.Time) (domain.GuildStats, error)
	DeleteUser(ctx context.Context, guildID, userID string) (int64, error)
	DeleteUserBefore(ctx context.Context, guildID, userID string, cutoff time.Time) (int64, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
