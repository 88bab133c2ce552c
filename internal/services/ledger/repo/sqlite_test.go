package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"codewarden/internal/services/ledger/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// in-memory sqlite is per connection, keep the pool at one
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteRoundTrip(t *testing.T) {
	st, err := NewSQLite(openTestDB(t))
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	w := domain.Warning{
		ID: "w1", GuildID: "g1", UserID: "u1", ChannelID: "c1",
		Reason: "code in chat", Confidence: 0.83, Source: "text", CreatedAt: now,
	}
	if err := st.Insert(ctx, w); err != nil {
		t.Fatalf("insert: %v", err)
	}

	n, err := st.CountActive(ctx, "g1", "u1", now.Add(-time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("count = (%d, %v) want (1, nil)", n, err)
	}

	rows, err := st.ListActive(ctx, "g1", "u1", now.Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d want 1", len(rows))
	}
	got := rows[0]
	if got.ID != w.ID || got.Reason != w.Reason || got.Confidence != w.Confidence {
		t.Fatalf("row mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("created_at = %v want %v", got.CreatedAt, now)
	}
}

func TestSQLiteWindowAndPurge(t *testing.T) {
	st, err := NewSQLite(openTestDB(t))
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	ages := []time.Duration{0, 24 * time.Hour, 40 * 24 * time.Hour}
	for i, age := range ages {
		w := domain.Warning{
			ID: string(rune('a' + i)), GuildID: "g1", UserID: "u1",
			Reason: "x", CreatedAt: now.Add(-age),
		}
		if err := st.Insert(ctx, w); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	old := domain.Warning{
		ID: "z", GuildID: "g1", UserID: "u2",
		Reason: "x", CreatedAt: now.Add(-60 * 24 * time.Hour),
	}
	if err := st.Insert(ctx, old); err != nil {
		t.Fatalf("insert u2: %v", err)
	}

	since := now.Add(-30 * 24 * time.Hour)
	n, err := st.CountActive(ctx, "g1", "u1", since)
	if err != nil || n != 2 {
		t.Fatalf("count in window = (%d, %v) want (2, nil)", n, err)
	}

	// scoped purge leaves the other user's rows alone
	purged, err := st.DeleteUserBefore(ctx, "g1", "u1", since)
	if err != nil || purged != 1 {
		t.Fatalf("user purge = (%d, %v) want (1, nil)", purged, err)
	}

	purged, err = st.DeleteBefore(ctx, since)
	if err != nil || purged != 1 {
		t.Fatalf("purged = (%d, %v) want (1, nil)", purged, err)
	}

	stats, err := st.GuildStats(ctx, "g1", since)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ActiveTotal != 2 || stats.DistinctUsers != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestSQLiteDeleteUser(t *testing.T) {
	st, err := NewSQLite(openTestDB(t))
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	ctx := context.Background()
	now := time.Now().UTC()

	for i, uid := range []string{"u1", "u1", "u2"} {
		w := domain.Warning{ID: string(rune('a' + i)), GuildID: "g1", UserID: uid, Reason: "x", CreatedAt: now}
		if err := st.Insert(ctx, w); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	removed, err := st.DeleteUser(ctx, "g1", "u1")
	if err != nil || removed != 2 {
		t.Fatalf("removed = (%d, %v) want (2, nil)", removed, err)
	}
	n, _ := st.CountActive(ctx, "g1", "u2", now.Add(-time.Hour))
	if n != 1 {
		t.Fatalf("u2 count = %d want 1", n)
	}
}
