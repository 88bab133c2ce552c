package domain

import (
	"context"
	"time"
)

// WriterPort records warnings
type WriterPort interface {
	Record(ctx context.Context, w WarningWrite) (Receipt, error)
}

// QueryPort reads active warnings
// counts and history only consider records inside the expiry window
type QueryPort interface {
	ActiveCount(ctx context.Context, guildID, userID string) (int, error)
	History(ctx context.Context, guildID, userID string, limit int) ([]Warning, error)
	Stats(ctx context.Context, guildID string) (GuildStats, error)
}

// AdminPort performs destructive maintenance
type AdminPort interface {
	Clear(ctx context.Context, guildID, userID string) (int64, error)
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
