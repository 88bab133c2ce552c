// Package repo provides the moderation decision audit sink
package repo

import (
	"context"
	"fmt"
	"time"

	"codewarden/internal/platform/store/ch"
	"codewarden/internal/services/moderation/domain"
)

// CHAudit streams decisions into ClickHouse for offline threshold calibration
type CHAudit struct {
	ch *ch.CH
}

// NewCHAudit ensures the table exists and returns the sink
func NewCHAudit(ctx context.Context, conn *ch.CH) (*CHAudit, error) {
	ddl := `
	CREATE TABLE IF NOT EXISTS moderation_decisions (
		ts          DateTime64(3) CODEC(Delta, ZSTD),
		guild_id    LowCardinality(String),
		channel_id  String,
		user_id     String,
		message_id  String,
		action      LowCardinality(String),
		source      LowCardinality(String),
		confidence  Float64,
		is_code     UInt8,
		rule_ids    Array(String)
	)
	ENGINE = MergeTree
	PARTITION BY toYYYYMM(ts)
	ORDER BY (guild_id, ts)
	TTL toDateTime(ts) + INTERVAL 180 DAY
	`
	if err := conn.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("failed to create decisions table: %w", err)
	}
	return &CHAudit{ch: conn}, nil
}

// RecordDecision implements domain.AuditPort
func (a *CHAudit) RecordDecision(ctx context.Context, ev domain.Event, d domain.Decision) error {
	isCode := uint8(0)
	if d.Verdict.IsCode {
		isCode = 1
	}
	row := []any{
		time.Now().UTC(),
		ev.GuildID,
		ev.ChannelID,
		ev.UserID,
		ev.MessageID,
		string(d.Action),
		string(d.Verdict.Source),
		d.Verdict.Confidence,
		isCode,
		d.Verdict.Matched,
	}
	return a.ch.AppendRows(ctx,
		"INSERT INTO moderation_decisions (ts, guild_id, channel_id, user_id, message_id, action, source, confidence, is_code, rule_ids)",
		[][]any{row},
	)
}
