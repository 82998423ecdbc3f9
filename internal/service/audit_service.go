package service

import (
	"context"
	"time"

	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"
	"game-wallet-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// auditService appends to the audit and security trails. Writes are
// synchronous: an attempted action must be observable in the trail before
// its response leaves the process. A storage failure is logged but never
// fails the action itself.
type auditService struct {
	audit    ports.AuditRepository
	security ports.SecurityRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuditService(audit ports.AuditRepository, security ports.SecurityRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{
		audit:    audit,
		security: security,
		log:      log.With().Str("component", "audit_service").Logger(),
		now:      time.Now,
	}
}

func (s *auditService) Action(ctx context.Context, entry *domain.AuditLogEntry) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}

	if err := s.audit.Create(ctx, entry); err != nil {
		s.log.Error().Err(err).
			Str("action", entry.Action).
			Str("account_id", entry.AccountID).
			Msg("failed to append audit entry")
		return
	}

	s.log.Info().
		Str("action", entry.Action).
		Str("account_id", entry.AccountID).
		Str("result", string(entry.Result)).
		Str("error_code", entry.ErrorCode).
		Msg("audit entry recorded")
}

func (s *auditService) Security(ctx context.Context, entry *domain.SecurityLogEntry) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}

	if err := s.security.Create(ctx, entry); err != nil {
		s.log.Error().Err(err).
			Str("event", string(entry.Event)).
			Str("account_id", entry.AccountID).
			Msg("failed to append security entry")
		return
	}

	s.log.Warn().
		Str("event", string(entry.Event)).
		Str("severity", string(entry.Severity)).
		Str("account_id", entry.AccountID).
		Msg("security event recorded")
}

func (s *auditService) SearchAudit(ctx context.Context, q ports.AuditQuery) ([]domain.AuditLogEntry, int64, error) {
	entries, total, err := s.audit.List(ctx, q)
	if err != nil {
		return nil, 0, apperror.StorageError(err)
	}
	return entries, total, nil
}

func (s *auditService) SearchSecurity(ctx context.Context, q ports.SecurityQuery) ([]domain.SecurityLogEntry, int64, error) {
	entries, total, err := s.security.List(ctx, q)
	if err != nil {
		return nil, 0, apperror.StorageError(err)
	}
	return entries, total, nil
}
