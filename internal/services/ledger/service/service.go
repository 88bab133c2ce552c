// Package service implements the warning ledger
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	perr "codewarden/internal/platform/errors"
	"codewarden/internal/platform/logger"
	"codewarden/internal/services/ledger/domain"
	"codewarden/internal/services/ledger/repo"
)

// DefaultExpiry is how long a warning stays active
const DefaultExpiry = 720 * time.Hour

// Config tunes the ledger service
type Config struct {
	// Expiry is the active window for warnings, zero means DefaultExpiry
	Expiry time.Duration
}

// Service implements domain.WriterPort, domain.QueryPort and domain.AdminPort
type Service struct {
	store  repo.Storage
	expiry time.Duration
	log    logger.Logger

	// writes are serialized so concurrent offenses against the same user
	// produce strictly increasing counts
	mu sync.Mutex

	lastPurge time.Time

	now func() time.Time
}

// New constructs the ledger service over a Storage
func New(store repo.Storage, cfg Config, log logger.Logger) *Service {
	exp := cfg.Expiry
	if exp <= 0 {
		exp = DefaultExpiry
	}
	return &Service{
		store:  store,
		expiry: exp,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Expiry reports the configured active window
func (s *Service) Expiry() time.Duration { return s.expiry }

// Record writes a warning and returns the new active count for the user
func (s *Service) Record(ctx context.Context, w domain.WarningWrite) (domain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec := domain.Warning{
		ID:         uuid.NewString(),
		GuildID:    w.GuildID,
		UserID:     w.UserID,
		ChannelID:  w.ChannelID,
		Reason:     w.Reason,
		Confidence: w.Confidence,
		Source:     w.Source,
		CreatedAt:  now,
	}

	if err := s.store.Insert(ctx, rec); err != nil {
		// one retry covers transient lock contention, then give up loudly
		if err2 := s.store.Insert(ctx, rec); err2 != nil {
			return domain.Receipt{}, perr.LedgerIOf("record warning: %v", err2)
		}
	}

	// opportunistic cleanup so the table does not grow without a sweep job
	if now.Sub(s.lastPurge) > time.Hour {
		if _, err := s.store.DeleteBefore(ctx, now.Add(-s.expiry)); err != nil {
			s.integrityAlert("opportunistic purge", err)
		}
		s.lastPurge = now
	}

	receipt := domain.Receipt{
		ID:        rec.ID,
		ExpiresAt: now.Add(s.expiry),
	}
	n, err := s.store.CountActive(ctx, w.GuildID, w.UserID, now.Add(-s.expiry))
	if err != nil {
		s.integrityAlert("count after record", err)
		// the write above succeeded, the user has at least this one
		receipt.ActiveCount = 1
		return receipt, nil
	}
	receipt.ActiveCount = n
	return receipt, nil
}

// ActiveCount returns the number of unexpired warnings for a user
// a broken store reads as empty rather than blocking moderation
func (s *Service) ActiveCount(ctx context.Context, guildID, userID string) (int, error) {
	cutoff := s.now().Add(-s.expiry)

	// drop this user's expired rows while we are here, errors only
	// narrow the purge, the count below filters by window regardless
	s.mu.Lock()
	if _, err := s.store.DeleteUserBefore(ctx, guildID, userID, cutoff); err != nil {
		s.log.Debug().Err(err).Str("user_id", userID).Msg("expired purge failed")
	}
	s.mu.Unlock()

	n, err := s.store.CountActive(ctx, guildID, userID, cutoff)
	if err != nil {
		s.integrityAlert("active count", err)
		return 0, nil
	}
	return n, nil
}

// History returns unexpired warnings for a user, newest first
func (s *Service) History(ctx context.Context, guildID, userID string, limit int) ([]domain.Warning, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.store.ListActive(ctx, guildID, userID, s.now().Add(-s.expiry), limit)
	if err != nil {
		s.integrityAlert("history", err)
		return nil, nil
	}
	return rows, nil
}

// Stats summarizes active warnings for a guild
func (s *Service) Stats(ctx context.Context, guildID string) (domain.GuildStats, error) {
	st, err := s.store.GuildStats(ctx, guildID, s.now().Add(-s.expiry))
	if err != nil {
		s.integrityAlert("guild stats", err)
		return domain.GuildStats{GuildID: guildID}, nil
	}
	return st, nil
}

// Clear removes every warning for a user, expired or not
func (s *Service) Clear(ctx context.Context, guildID, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.store.DeleteUser(ctx, guildID, userID)
	if err != nil {
		return 0, perr.LedgerIOf("clear warnings: %v", err)
	}
	return n, nil
}

// PurgeExpired deletes warnings created before cutoff
// a zero cutoff uses the configured expiry window
func (s *Service) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cutoff.IsZero() {
		cutoff = s.now().Add(-s.expiry)
	}
	n, err := s.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, perr.LedgerIOf("purge warnings: %v", err)
	}
	if n > 0 {
		s.log.Info().Int64("purged", n).Time("cutoff", cutoff).Msg("expired warnings purged")
	}
	return n, nil
}

func (s *Service) integrityAlert(op string, err error) {
	s.log.Error().Err(err).Str("op", op).Msg("ledger integrity alert, treating store as empty")
}
