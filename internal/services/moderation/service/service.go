// Package service implements the enforcement orchestrator
package service

import (
	"context"
	"fmt"

	"codewarden/internal/adapters/ocr"
	"codewarden/internal/core/detect"
	"codewarden/internal/core/textnorm"
	perr "codewarden/internal/platform/errors"
	"codewarden/internal/platform/logger"
	pstrings "codewarden/internal/platform/strings"
	gatedomain "codewarden/internal/services/gate/domain"
	ledgerdomain "codewarden/internal/services/ledger/domain"
	"codewarden/internal/services/moderation/domain"
)

// Config tunes the orchestrator
type Config struct {
	// PermittedRoles bypass detection entirely
	PermittedRoles []string
}

// Service implements domain.EvaluatorPort
type Service struct {
	gate      gatedomain.GatePort
	engine    *detect.Engine
	norm      *textnorm.Normalizer
	extractor ocr.ExtractorPort
	ledger    ledgerdomain.WriterPort
	audit     domain.AuditPort
	permitted map[string]bool
	log       logger.Logger
}

// New wires the orchestrator, audit may be nil
func New(
	gate gatedomain.GatePort,
	engine *detect.Engine,
	extractor ocr.ExtractorPort,
	ledger ledgerdomain.WriterPort,
	audit domain.AuditPort,
	cfg Config,
	log logger.Logger,
) *Service {
	permitted := make(map[string]bool, len(cfg.PermittedRoles))
	for _, r := range cfg.PermittedRoles {
		permitted[r] = true
	}
	return &Service{
		gate:      gate,
		engine:    engine,
		norm:      textnorm.New(),
		extractor: extractor,
		ledger:    ledger,
		audit:     audit,
		permitted: permitted,
		log:       log,
	}
}

// Evaluate runs the full pipeline for one message event
//
// order matters: gate first, then role bypass, then text, then attachments,
// and the ledger write only after a verdict sticks
func (s *Service) Evaluate(ctx context.Context, ev domain.Event) (domain.Decision, error) {
	if !s.gate.Allows(ctx, gatedomain.OpEvaluate) {
		gateBlockedTotal.Inc()
		return s.finish(ctx, ev, domain.Decision{
			Action: domain.ActionNone,
			Reason: "moderation is switched off",
		})
	}

	for _, role := range ev.Roles {
		if s.permitted[role] {
			return s.finish(ctx, ev, domain.Decision{
				Action: domain.ActionNone,
				Reason: "author role is permitted to post code",
			})
		}
	}

	verdict := s.engine.Classify(s.norm.Normalize(ev.Content), detect.SourceText)
	ocrDown := false

	if !verdict.IsCode {
		for _, att := range ev.Attachments {
			text, err := s.extractor.ExtractText(ctx, ocr.Image{
				URL:      att.URL,
				MimeType: att.MimeType,
				Bytes:    att.Bytes,
			})
			if err != nil {
				if perr.IsCode(err, perr.ErrorCodeOCRUnavailable) {
					ocrUnavailableTotal.Inc()
					ocrDown = true
					continue
				}
				return domain.Decision{}, err
			}
			if v := s.engine.Classify(s.norm.Normalize(text), detect.SourceOCR); v.IsCode {
				verdict = v
				break
			}
		}
	}

	if verdict.IsCode {
		// do not record against a caller that already gave up
		if err := ctx.Err(); err != nil {
			return domain.Decision{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "evaluation canceled before warning write")
		}
		receipt, err := s.ledger.Record(ctx, ledgerdomain.WarningWrite{
			GuildID:    ev.GuildID,
			UserID:     ev.UserID,
			ChannelID:  ev.ChannelID,
			Reason:     fmt.Sprintf("code detected (%s): %s", verdict.Source, pstrings.Snippet(ev.Content, 120)),
			Confidence: verdict.Confidence,
			Source:     string(verdict.Source),
		})
		if err != nil {
			return domain.Decision{}, err
		}
		s.log.Info().
			Str("guild_id", ev.GuildID).
			Str("user_id", ev.UserID).
			Str("source", string(verdict.Source)).
			Float64("confidence", verdict.Confidence).
			Int("warning_count", receipt.ActiveCount).
			Msg("code detected, message removed")
		return s.finish(ctx, ev, domain.Decision{
			Action:       domain.ActionDeleteAndWarn,
			Reason:       "message classified as source code",
			Verdict:      verdict,
			WarningCount: receipt.ActiveCount,
			WarningID:    receipt.ID,
		})
	}

	if ocrDown && len(ev.Attachments) > 0 {
		return s.finish(ctx, ev, domain.Decision{
			Action:  domain.ActionFlagForReview,
			Reason:  "image text extraction unavailable",
			Verdict: verdict,
		})
	}

	return s.finish(ctx, ev, domain.Decision{
		Action:  domain.ActionNone,
		Verdict: verdict,
	})
}

// finish records metrics and hands the decision to the audit sink
func (s *Service) finish(ctx context.Context, ev domain.Event, d domain.Decision) (domain.Decision, error) {
	evaluationsTotal.WithLabelValues(string(d.Action)).Inc()
	verdictConfidence.Observe(d.Verdict.Confidence)
	if s.audit != nil {
		go func(ev domain.Event, d domain.Decision) {
			if err := s.audit.RecordDecision(context.WithoutCancel(ctx), ev, d); err != nil {
				s.log.Warn().Err(err).Msg("decision audit write failed")
			}
		}(ev, d)
	}
	return d, nil
}
