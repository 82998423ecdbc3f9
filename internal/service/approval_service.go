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

// approvalService is the two-phase workflow for high-value transactions.
// Expiry is enforced twice: lazily whenever a request is read, and by the
// periodic sweep, so an overdue request never gets decided even if the
// sweeper is behind.
type approvalService struct {
	store   ports.ApprovalStore
	ledger  ports.LedgerService
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

func NewApprovalService(store ports.ApprovalStore, ledger ports.LedgerService, timeout time.Duration, log zerolog.Logger) ports.ApprovalService {
	return &approvalService{
		store:   store,
		ledger:  ledger,
		timeout: timeout,
		log:     log.With().Str("component", "approval_service").Logger(),
		now:     time.Now,
	}
}

func (s *approvalService) Submit(ctx context.Context, draft domain.Transaction) (*domain.ApprovalRequest, error) {
	now := s.now()
	draft.Status = domain.TransactionStatusPendingApproval

	req := &domain.ApprovalRequest{
		ID:        uuid.New(),
		Draft:     draft,
		CreatedAt: now,
		ExpiresAt: now.Add(s.timeout),
		Status:    domain.ApprovalStatusPending,
	}
	if err := s.store.Put(ctx, req); err != nil {
		return nil, apperror.StorageError(err)
	}

	s.log.Info().
		Str("approval_id", req.ID.String()).
		Str("account_id", draft.AccountID).
		Int64("amount", draft.Amount).
		Time("expires_at", req.ExpiresAt).
		Msg("approval request submitted")
	return req, nil
}

// fetch loads a request and lazily expires it if overdue.
func (s *approvalService) fetch(ctx context.Context, id uuid.UUID) (*domain.ApprovalRequest, error) {
	req, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, apperror.StorageError(err)
	}
	if req == nil {
		return nil, apperror.ErrApprovalNotFound()
	}
	if req.IsOverdue(s.now()) {
		req.Status = domain.ApprovalStatusExpired
		req.Draft.Status = domain.TransactionStatusExpired
		if err := s.store.Put(ctx, req); err != nil {
			return nil, apperror.StorageError(err)
		}
		s.log.Info().Str("approval_id", id.String()).Msg("approval request expired at read")
	}
	return req, nil
}

func (s *approvalService) Status(ctx context.Context, id uuid.UUID) (*domain.ApprovalRequest, error) {
	return s.fetch(ctx, id)
}

func (s *approvalService) Decide(ctx context.Context, id uuid.UUID, approved bool, adminID, reason string) (*domain.ApprovalRequest, error) {
	req, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status == domain.ApprovalStatusExpired {
		return nil, apperror.ErrApprovalExpired()
	}
	if req.IsTerminal() {
		return nil, apperror.ErrApprovalDecided()
	}

	now := s.now()
	req.ReviewedBy = adminID
	req.ReviewedAt = &now
	req.Reason = reason

	if !approved {
		req.Status = domain.ApprovalStatusRejected
		req.Draft.Status = domain.TransactionStatusRejected
		if err := s.store.Put(ctx, req); err != nil {
			return nil, apperror.StorageError(err)
		}
		s.log.Info().
			Str("approval_id", id.String()).
			Str("admin_id", adminID).
			Msg("approval request rejected")
		return req, nil
	}

	committed, err := s.ledger.Commit(ctx, req.Draft)
	if err != nil {
		// The draft no longer fits the account (funds moved while it sat
		// in the queue). The request is closed as rejected so it cannot
		// be retried into a different balance.
		if appErr, ok := apperror.FromError(err); ok && appErr.Code == "WAL_001" {
			req.Status = domain.ApprovalStatusRejected
			req.Draft.Status = domain.TransactionStatusRejected
			if req.Reason == "" {
				req.Reason = "insufficient funds at commit time"
			}
			if putErr := s.store.Put(ctx, req); putErr != nil {
				return nil, apperror.StorageError(putErr)
			}
		}
		return nil, err
	}

	req.Status = domain.ApprovalStatusApproved
	req.Draft = *committed
	if err := s.store.Put(ctx, req); err != nil {
		return nil, apperror.StorageError(err)
	}

	s.log.Info().
		Str("approval_id", id.String()).
		Str("admin_id", adminID).
		Str("transaction_id", committed.ID.String()).
		Msg("approval request approved and committed")
	return req, nil
}

func (s *approvalService) Pending(ctx context.Context) ([]domain.ApprovalRequest, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, apperror.StorageError(err)
	}

	now := s.now()
	pending := make([]domain.ApprovalRequest, 0)
	for _, req := range all {
		if req.Status == domain.ApprovalStatusPending && !req.IsOverdue(now) {
			pending = append(pending, req)
		}
	}
	return pending, nil
}

func (s *approvalService) Sweep(ctx context.Context) (int, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return 0, apperror.StorageError(err)
	}

	now := s.now()
	expired := 0
	for i := range all {
		req := all[i]
		if !req.IsOverdue(now) {
			continue
		}
		req.Status = domain.ApprovalStatusExpired
		req.Draft.Status = domain.TransactionStatusExpired
		if err := s.store.Put(ctx, &req); err != nil {
			return expired, apperror.StorageError(err)
		}
		expired++
	}

	if expired > 0 {
		s.log.Info().Int("expired", expired).Msg("approval sweep expired overdue requests")
	}
	return expired, nil
}
