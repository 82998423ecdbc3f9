package service

import (
	"context"
	"fmt"
	"time"

	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"
	"game-wallet-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// FraudConfig holds the rule thresholds and trailing windows.
type FraudConfig struct {
	UnusualAmountThreshold int64
	RapidTransactionCount  int64
	RapidTransactionWindow time.Duration
	FailedAttemptCount     int64
	FailedAttemptWindow    time.Duration
	GeoAnomalyWindow       time.Duration
}

// fraudEngine evaluates the rule set deterministically: every rule runs on
// every call and any match escalates the outcome. Signals are derived from
// ledger history and the failed-attempt window, never stored.
type fraudEngine struct {
	ledger   ports.LedgerService
	failures ports.SlidingWindow
	cfg      FraudConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewFraudEngine(ledger ports.LedgerService, failures ports.SlidingWindow, cfg FraudConfig, log zerolog.Logger) ports.FraudEngine {
	return &fraudEngine{
		ledger:   ledger,
		failures: failures,
		cfg:      cfg,
		log:      log.With().Str("component", "fraud_engine").Logger(),
		now:      time.Now,
	}
}

func (e *fraudEngine) Evaluate(ctx context.Context, candidate domain.Transaction, rc ports.RequestContext) (domain.FraudDecision, error) {
	now := e.now()
	var signals []domain.FraudSignal
	blocked := false

	// Failed-attempt lockout runs first: it blocks regardless of the
	// current request's own validity and stays active until the window
	// drains.
	failCount, _, err := e.failures.Count(ctx, candidate.AccountID, e.cfg.FailedAttemptWindow)
	if err != nil {
		return domain.FraudDecision{}, apperror.StorageError(err)
	}
	if failCount >= e.cfg.FailedAttemptCount {
		blocked = true
		signals = append(signals, domain.FraudSignal{
			Type:      domain.SignalMultipleFailedAttempts,
			AccountID: candidate.AccountID,
			At:        now,
			Details:   fmt.Sprintf("%d failed attempts within %s", failCount, e.cfg.FailedAttemptWindow),
		})
	}

	amount := candidate.Amount
	if amount < 0 {
		amount = -amount
	}
	if amount >= e.cfg.UnusualAmountThreshold {
		signals = append(signals, domain.FraudSignal{
			Type:      domain.SignalUnusualAmount,
			AccountID: candidate.AccountID,
			At:        now,
			Details:   fmt.Sprintf("amount %d at or above threshold %d", amount, e.cfg.UnusualAmountThreshold),
		})
	}

	history, err := e.ledger.History(ctx, candidate.AccountID, 0)
	if err != nil {
		// Accounts the ledger has never seen simply have no history yet.
		if appErr, ok := apperror.FromError(err); ok && appErr.Code == "WAL_003" {
			history = nil
		} else {
			return domain.FraudDecision{}, err
		}
	}

	cutoff := now.Add(-e.cfg.RapidTransactionWindow)
	var recent int64
	for _, tx := range history {
		if tx.CreatedAt.After(cutoff) {
			recent++
		}
	}
	if recent > e.cfg.RapidTransactionCount {
		signals = append(signals, domain.FraudSignal{
			Type:      domain.SignalRapidTransactions,
			AccountID: candidate.AccountID,
			At:        now,
			Details:   fmt.Sprintf("%d transactions within %s", recent, e.cfg.RapidTransactionWindow),
		})
	}

	// Geo anomaly compares against the most recent completed transaction.
	// History is reverse-chronological so the first completed entry is it.
	if rc.CountryCode != "" {
		for _, tx := range history {
			if tx.Status != domain.TransactionStatusCompleted || tx.CountryCode == "" {
				continue
			}
			if tx.CountryCode != rc.CountryCode && now.Sub(tx.CreatedAt) <= e.cfg.GeoAnomalyWindow {
				signals = append(signals, domain.FraudSignal{
					Type:      domain.SignalGeoAnomaly,
					AccountID: candidate.AccountID,
					At:        now,
					Details:   fmt.Sprintf("country changed from %s to %s", tx.CountryCode, rc.CountryCode),
				})
			}
			break
		}
	}

	decision := domain.FraudDecision{Outcome: domain.FraudClear, Signals: signals}
	switch {
	case blocked:
		decision.Outcome = domain.FraudBlocked
		decision.Reason = "multiple failed attempts"
	case len(signals) > 0:
		decision.Outcome = domain.FraudRequiresReview
		decision.Reason = string(signals[0].Type)
	}

	if decision.Outcome != domain.FraudClear {
		e.log.Warn().
			Str("account_id", candidate.AccountID).
			Str("outcome", string(decision.Outcome)).
			Str("reason", decision.Reason).
			Int("signals", len(signals)).
			Msg("fraud evaluation escalated")
	}
	return decision, nil
}

func (e *fraudEngine) RecordFailure(ctx context.Context, accountID string, at time.Time) error {
	if err := e.failures.Record(ctx, accountID, at, e.cfg.FailedAttemptWindow); err != nil {
		return apperror.StorageError(err)
	}
	return nil
}
