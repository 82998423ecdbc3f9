package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"
	"game-wallet-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// adminService exposes the operator-facing read, search, and bulk-approval
// surface. It never mutates the ledger directly; every state change goes
// through the approval workflow.
type adminService struct {
	approvals ports.ApprovalService
	fraud     ports.FraudEngine
	accounts  ports.AccountStore
	audit     ports.AuditService
	log       zerolog.Logger
	now       func() time.Time
}

func NewAdminService(approvals ports.ApprovalService, fraud ports.FraudEngine, accounts ports.AccountStore, audit ports.AuditService, log zerolog.Logger) ports.AdminService {
	return &adminService{
		approvals: approvals,
		fraud:     fraud,
		accounts:  accounts,
		audit:     audit,
		log:       log.With().Str("component", "admin_service").Logger(),
		now:       time.Now,
	}
}

func (s *adminService) PendingApprovals(ctx context.Context) ([]domain.ApprovalRequest, error) {
	return s.approvals.Pending(ctx)
}

// RiskScore aggregates the account's current fraud signals and recent
// security events into a 0-100 score.
func (s *adminService) RiskScore(ctx context.Context, accountID string) (*ports.RiskReport, error) {
	// A zero-amount probe runs every history-derived rule without ever
	// tripping the amount threshold.
	probe := domain.Transaction{AccountID: accountID}
	decision, err := s.fraud.Evaluate(ctx, probe, ports.RequestContext{})
	if err != nil {
		return nil, err
	}

	score := 0
	var factors []string
	for _, sig := range decision.Signals {
		switch sig.Type {
		case domain.SignalMultipleFailedAttempts:
			score += 50
			factors = append(factors, "repeated failed attempts in the active window")
		case domain.SignalRapidTransactions:
			score += 25
			factors = append(factors, "unusually high transaction rate")
		}
	}

	events, total, err := s.recentSecurityEvents(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// Review events carry the rule that fired in their details, which covers
	// the request-scoped rules the probe cannot trip.
	reviewed := make(map[string]bool)
	for _, e := range events {
		if e.Event == domain.EventFraudReview {
			reviewed[e.Details] = true
		}
	}
	if reviewed[string(domain.SignalUnusualAmount)] {
		score += 10
		factors = append(factors, "recent transactions flagged for unusual amounts")
	}
	if reviewed[string(domain.SignalGeoAnomaly)] {
		score += 10
		factors = append(factors, "recent activity from anomalous locations")
	}

	if total > 0 {
		pts := int(total) * 5
		if pts > 25 {
			pts = 25
		}
		score += pts
		factors = append(factors, "recent security events on record")
	}

	if score > 100 {
		score = 100
	}

	recommendation := "no action required"
	switch {
	case score >= 70:
		recommendation = "suspend account pending investigation"
	case score >= 40:
		recommendation = "require manual review for large transactions"
	}

	return &ports.RiskReport{
		AccountID:      accountID,
		Score:          score,
		Factors:        factors,
		Recommendation: recommendation,
	}, nil
}

func (s *adminService) recentSecurityEvents(ctx context.Context, accountID string) ([]domain.SecurityLogEntry, int64, error) {
	from := s.now().Add(-24 * time.Hour)
	return s.audit.SearchSecurity(ctx, ports.SecurityQuery{
		AccountID: accountID,
		From:      &from,
		Limit:     100,
	})
}

// BulkDecide applies one decision per id. Items are independent: a failure
// is recorded per item and never aborts the rest.
func (s *adminService) BulkDecide(ctx context.Context, ids []uuid.UUID, approved bool, adminID, reason string) (*ports.BulkDecisionResult, error) {
	result := &ports.BulkDecisionResult{
		Processed: len(ids),
		Errors:    make(map[string]string),
	}

	for _, id := range ids {
		if _, err := s.approvals.Decide(ctx, id, approved, adminID, reason); err != nil {
			result.Failed++
			if appErr, ok := apperror.FromError(err); ok {
				result.Errors[id.String()] = appErr.Code
			} else {
				result.Errors[id.String()] = "SYS_001"
			}
			continue
		}
		result.Success++
	}

	if len(result.Errors) == 0 {
		result.Errors = nil
	}

	s.log.Info().
		Int("processed", result.Processed).
		Int("success", result.Success).
		Int("failed", result.Failed).
		Bool("approved", approved).
		Str("admin_id", adminID).
		Msg("bulk decision applied")
	return result, nil
}

func periodCutoff(period string, now time.Time) (time.Time, error) {
	switch period {
	case "day":
		return now.Add(-24 * time.Hour), nil
	case "week":
		return now.Add(-7 * 24 * time.Hour), nil
	case "month":
		return now.Add(-30 * 24 * time.Hour), nil
	case "", "all":
		return time.Time{}, nil
	}
	return time.Time{}, apperror.Validation("period must be day, week, month, or all")
}

func (s *adminService) Analytics(ctx context.Context, period string) (*ports.AnalyticsReport, error) {
	cutoff, err := periodCutoff(period, s.now())
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = "all"
	}

	records, err := s.accounts.List(ctx)
	if err != nil {
		return nil, apperror.StorageError(err)
	}

	report := &ports.AnalyticsReport{
		Period: period,
		ByType: make(map[string]ports.TypeStats),
	}
	for _, rec := range records {
		active := false
		for _, tx := range rec.Transactions {
			if !cutoff.IsZero() && !tx.CreatedAt.After(cutoff) {
				continue
			}
			active = true
			amount := tx.Amount
			if amount < 0 {
				amount = -amount
			}
			stats := report.ByType[string(tx.Type)]
			stats.Count++
			stats.Volume += amount
			report.ByType[string(tx.Type)] = stats
			report.TotalCount++
			report.TotalVolume += amount
		}
		if active {
			report.ActiveAccounts++
		}
	}
	return report, nil
}

func (s *adminService) SearchTransactions(ctx context.Context, params ports.TransactionSearchParams) ([]domain.Transaction, error) {
	records, err := s.accounts.List(ctx)
	if err != nil {
		return nil, apperror.StorageError(err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	var matched []domain.Transaction
	for _, rec := range records {
		if params.Account != "" && !strings.Contains(rec.Wallet.AccountID, params.Account) {
			continue
		}
		for _, tx := range rec.Transactions {
			if params.Type != "" && string(tx.Type) != params.Type {
				continue
			}
			amount := tx.Amount
			if amount < 0 {
				amount = -amount
			}
			if params.MinAmount != nil && amount < *params.MinAmount {
				continue
			}
			if params.MaxAmount != nil && amount > *params.MaxAmount {
				continue
			}
			matched = append(matched, tx)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}
