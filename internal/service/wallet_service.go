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

// walletService runs the authorization pipeline for every wallet operation:
// fraud evaluation first, then threshold routing into the approval workflow,
// then the ledger mutation itself. Insufficient-funds failures feed the
// fraud engine's failed-attempt window.
type walletService struct {
	ledger    ports.LedgerService
	fraud     ports.FraudEngine
	approvals ports.ApprovalService
	audit     ports.AuditService
	threshold int64
	log       zerolog.Logger
	now       func() time.Time
}

func NewWalletService(ledger ports.LedgerService, fraud ports.FraudEngine, approvals ports.ApprovalService, audit ports.AuditService, largeAmountThreshold int64, log zerolog.Logger) ports.WalletService {
	return &walletService{
		ledger:    ledger,
		fraud:     fraud,
		approvals: approvals,
		audit:     audit,
		threshold: largeAmountThreshold,
		log:       log.With().Str("component", "wallet_service").Logger(),
		now:       time.Now,
	}
}

// screen runs the fraud engine over the candidate and translates a non-clear
// outcome into the matching error, logging a security event either way.
func (s *walletService) screen(ctx context.Context, candidate domain.Transaction, rc ports.RequestContext) error {
	decision, err := s.fraud.Evaluate(ctx, candidate, rc)
	if err != nil {
		return err
	}

	switch decision.Outcome {
	case domain.FraudBlocked:
		s.audit.Security(ctx, &domain.SecurityLogEntry{
			AccountID: candidate.AccountID,
			Event:     domain.EventFraudBlock,
			Severity:  domain.SeverityHigh,
			IPAddress: rc.IP,
			Details:   decision.Reason,
		})
		return apperror.ErrFraudBlocked(decision.Reason)
	case domain.FraudRequiresReview:
		s.audit.Security(ctx, &domain.SecurityLogEntry{
			AccountID: candidate.AccountID,
			Event:     domain.EventFraudReview,
			Severity:  domain.SeverityMedium,
			IPAddress: rc.IP,
			Details:   decision.Reason,
		})
		return apperror.ErrFraudReview(decision.Reason)
	}
	return nil
}

// recordIfFundsFailure feeds the failed-attempt window when the ledger
// rejected the mutation for insufficient funds.
func (s *walletService) recordIfFundsFailure(ctx context.Context, accountID string, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Code != "WAL_001" {
		return
	}
	if recErr := s.fraud.RecordFailure(ctx, accountID, s.now()); recErr != nil {
		s.log.Error().Err(recErr).Str("account_id", accountID).Msg("failed to record funds failure")
	}
}

// route either submits the draft for approval or applies it immediately.
func (s *walletService) route(ctx context.Context, draft domain.Transaction, largeEligible bool) (*ports.MovementResult, error) {
	magnitude := draft.Amount
	if magnitude < 0 {
		magnitude = -magnitude
	}

	if largeEligible && magnitude >= s.threshold {
		req, err := s.approvals.Submit(ctx, draft)
		if err != nil {
			return nil, err
		}
		return &ports.MovementResult{Approval: req}, nil
	}

	tx, err := s.ledger.ApplyDelta(ctx, ports.LedgerDelta{
		AccountID:   draft.AccountID,
		Type:        draft.Type,
		Amount:      draft.Amount,
		TableID:     draft.TableID,
		HandID:      draft.HandID,
		CountryCode: draft.CountryCode,
		Description: draft.Description,
	})
	if err != nil {
		s.recordIfFundsFailure(ctx, draft.AccountID, err)
		return nil, err
	}
	return &ports.MovementResult{Transaction: tx}, nil
}

func (s *walletService) Deposit(ctx context.Context, req ports.MovementRequest) (*ports.MovementResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	draft := domain.Transaction{
		ID:          uuid.New(),
		AccountID:   req.AccountID,
		Type:        domain.TransactionTypeDeposit,
		Amount:      req.Amount,
		CountryCode: req.Context.CountryCode,
		Description: req.Description,
	}
	if err := s.screen(ctx, draft, req.Context); err != nil {
		return nil, err
	}
	return s.route(ctx, draft, true)
}

func (s *walletService) Withdraw(ctx context.Context, req ports.MovementRequest) (*ports.MovementResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	draft := domain.Transaction{
		ID:          uuid.New(),
		AccountID:   req.AccountID,
		Type:        domain.TransactionTypeWithdraw,
		Amount:      -req.Amount,
		CountryCode: req.Context.CountryCode,
		Description: req.Description,
	}
	if err := s.screen(ctx, draft, req.Context); err != nil {
		return nil, err
	}
	return s.route(ctx, draft, true)
}

func (s *walletService) Transfer(ctx context.Context, req ports.MovementRequest) (*ports.MovementResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.ToAccountID == "" {
		return nil, apperror.Validation("destination account is required")
	}
	if req.ToAccountID == req.AccountID {
		return nil, apperror.ErrSelfTransfer()
	}

	draft := domain.Transaction{
		ID:           uuid.New(),
		AccountID:    req.AccountID,
		Type:         domain.TransactionTypeTransfer,
		Amount:       -req.Amount,
		Counterparty: req.ToAccountID,
		CountryCode:  req.Context.CountryCode,
		Description:  req.Description,
	}
	if err := s.screen(ctx, draft, req.Context); err != nil {
		return nil, err
	}

	if req.Amount >= s.threshold {
		approval, err := s.approvals.Submit(ctx, draft)
		if err != nil {
			return nil, err
		}
		return &ports.MovementResult{Approval: approval}, nil
	}

	tx, err := s.ledger.Transfer(ctx, req.AccountID, req.ToAccountID, req.Amount, req.Context.CountryCode, req.Description)
	if err != nil {
		s.recordIfFundsFailure(ctx, req.AccountID, err)
		return nil, err
	}
	return &ports.MovementResult{Transaction: tx}, nil
}

func (s *walletService) BuyIn(ctx context.Context, req ports.MovementRequest) (*ports.MovementResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.TableID == "" {
		return nil, apperror.Validation("table id is required")
	}

	draft := domain.Transaction{
		ID:          uuid.New(),
		AccountID:   req.AccountID,
		Type:        domain.TransactionTypeBuyIn,
		Amount:      req.Amount,
		TableID:     req.TableID,
		CountryCode: req.Context.CountryCode,
	}
	if err := s.screen(ctx, draft, req.Context); err != nil {
		return nil, err
	}

	tx, err := s.ledger.Freeze(ctx, req.AccountID, req.TableID, req.Amount, req.Context.CountryCode)
	if err != nil {
		s.recordIfFundsFailure(ctx, req.AccountID, err)
		return nil, err
	}
	return &ports.MovementResult{Transaction: tx}, nil
}

func (s *walletService) CashOut(ctx context.Context, req ports.MovementRequest) (*ports.MovementResult, error) {
	if req.TableID == "" {
		return nil, apperror.Validation("table id is required")
	}

	draft := domain.Transaction{
		ID:          uuid.New(),
		AccountID:   req.AccountID,
		Type:        domain.TransactionTypeCashOut,
		TableID:     req.TableID,
		CountryCode: req.Context.CountryCode,
	}
	if err := s.screen(ctx, draft, req.Context); err != nil {
		return nil, err
	}

	tx, err := s.ledger.Release(ctx, req.AccountID, req.TableID, req.Context.CountryCode)
	if err != nil {
		return nil, err
	}
	return &ports.MovementResult{Transaction: tx}, nil
}

// Settle applies a game result. Settlements are signed like any other
// mutation but never route to the approval queue: they are outcomes imposed
// by the game server, not user-initiated value movements. A fraud block
// still applies.
func (s *walletService) Settle(ctx context.Context, req ports.MovementRequest) (*ports.MovementResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	var txType domain.TransactionType
	amount := req.Amount
	switch req.Outcome {
	case "win":
		txType = domain.TransactionTypeWin
	case "loss":
		txType = domain.TransactionTypeLoss
		amount = -amount
	default:
		return nil, apperror.Validation("outcome must be win or loss")
	}

	draft := domain.Transaction{
		ID:          uuid.New(),
		AccountID:   req.AccountID,
		Type:        txType,
		Amount:      amount,
		TableID:     req.TableID,
		HandID:      req.HandID,
		CountryCode: req.Context.CountryCode,
		Description: req.Description,
	}

	decision, err := s.fraud.Evaluate(ctx, draft, req.Context)
	if err != nil {
		return nil, err
	}
	if decision.Outcome == domain.FraudBlocked {
		s.audit.Security(ctx, &domain.SecurityLogEntry{
			AccountID: req.AccountID,
			Event:     domain.EventFraudBlock,
			Severity:  domain.SeverityHigh,
			IPAddress: req.Context.IP,
			Details:   decision.Reason,
		})
		return nil, apperror.ErrFraudBlocked(decision.Reason)
	}

	return s.route(ctx, draft, false)
}

func (s *walletService) Balance(ctx context.Context, accountID string) (*domain.Wallet, error) {
	return s.ledger.GetBalance(ctx, accountID)
}

func (s *walletService) History(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	return s.ledger.History(ctx, accountID, limit)
}
