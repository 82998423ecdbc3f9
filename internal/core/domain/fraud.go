package domain

import "time"

// FraudSignalType identifies which rule a signal came from.
type FraudSignalType string

const (
	SignalUnusualAmount          FraudSignalType = "unusual_amount"
	SignalRapidTransactions      FraudSignalType = "rapid_transactions"
	SignalMultipleFailedAttempts FraudSignalType = "multiple_failed_attempts"
	SignalGeoAnomaly             FraudSignalType = "geo_anomaly"
)

// FraudSignal is a derived indicator of suspicious activity. Signals are
// recomputed from ledger history and request metadata on every evaluation;
// they are never stored authoritatively.
type FraudSignal struct {
	Type      FraudSignalType `json:"type"`
	AccountID string          `json:"account_id"`
	At        time.Time       `json:"at"`
	Details   string          `json:"details,omitempty"`
}

// FraudOutcome is the tri-state result of a fraud evaluation.
type FraudOutcome string

const (
	FraudClear          FraudOutcome = "clear"
	FraudRequiresReview FraudOutcome = "requires_review"
	FraudBlocked        FraudOutcome = "blocked"
)

// FraudDecision is the full result of evaluating a candidate transaction:
// the outcome, the reason for a non-clear outcome, and every signal that
// matched (for explainability).
type FraudDecision struct {
	Outcome FraudOutcome  `json:"outcome"`
	Reason  string        `json:"reason,omitempty"`
	Signals []FraudSignal `json:"signals,omitempty"`
}
