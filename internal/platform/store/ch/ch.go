// Package ch provides a thin ClickHouse client used for append-only streams
package ch

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the clickhouse connection
type Config struct {
	URL string
}

// CH wraps a clickhouse-go native connection
type CH struct {
	conn driver.Conn
}

// Open parses the DSN and dials ClickHouse
func Open(ctx context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &CH{conn: conn}, nil
}

// Ping checks the connection
func (c *CH) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Exec runs DDL or other statements without results
func (c *CH) Exec(ctx context.Context, query string, args ...any) error {
	return c.conn.Exec(ctx, query, args...)
}

// AppendRows sends rows to the given INSERT statement as one batch
func (c *CH) AppendRows(ctx context.Context, insert string, rows [][]any) error {
	batch, err := c.conn.PrepareBatch(ctx, insert)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := batch.Append(row...); err != nil {
			_ = batch.Abort()
			return err
		}
	}
	return batch.Send()
}

// Close closes the connection
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
