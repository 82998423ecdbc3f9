package ports

import (
	"context"
	"time"

	"game-wallet-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// HashService handles credential hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles administrative JWT operations.
type TokenService interface {
	Generate(adminID string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AdminID string
}

// AuthService verifies the administrative credential and issues tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}

// RequestContext carries per-request metadata used by fraud evaluation and
// the audit trail.
type RequestContext struct {
	IP          string
	UserAgent   string
	CountryCode string
}

// LedgerDelta describes one balance mutation. Amount is signed: positive
// increases the balance, negative decreases it.
type LedgerDelta struct {
	AccountID   string
	Type        domain.TransactionType
	Amount      int64
	TableID     string
	HandID      string
	CountryCode string
	Description string
}

// LedgerService owns per-account balance state. Every method runs under the
// account's serialization guard: no two mutations for the same account ever
// interleave, which is what makes balance and frozen linearizable.
type LedgerService interface {
	// ApplyDelta atomically applies one balance change and appends the
	// resulting transaction. Withdrawals and transfer debits are gated on
	// available (balance - frozen) funds; deposits and win/loss
	// settlements are not.
	ApplyDelta(ctx context.Context, d LedgerDelta) (*domain.Transaction, error)
	// Transfer debits the source and credits the destination under both
	// account guards, taken in account-id order. Returns the source-side
	// transaction.
	Transfer(ctx context.Context, fromAccount, toAccount string, amount int64, countryCode, description string) (*domain.Transaction, error)
	// Freeze commits amount to an open buy-in at tableID. At most one
	// buy-in may be open per table.
	Freeze(ctx context.Context, accountID, tableID string, amount int64, countryCode string) (*domain.Transaction, error)
	// Release returns the full frozen amount of the open buy-in at
	// tableID to the spendable balance, exactly once.
	Release(ctx context.Context, accountID, tableID string, countryCode string) (*domain.Transaction, error)
	GetBalance(ctx context.Context, accountID string) (*domain.Wallet, error)
	// History returns transactions in reverse-chronological order.
	History(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error)
	// Commit applies a previously approved draft to the ledger and marks
	// it completed, re-checking available funds at commit time.
	Commit(ctx context.Context, draft domain.Transaction) (*domain.Transaction, error)
}

// FraudEngine evaluates a candidate transaction against the rule set.
type FraudEngine interface {
	Evaluate(ctx context.Context, candidate domain.Transaction, rc RequestContext) (domain.FraudDecision, error)
	// RecordFailure feeds the failed-attempt window after an
	// insufficient-funds or rejected attempt.
	RecordFailure(ctx context.Context, accountID string, at time.Time) error
}

// ApprovalService is the two-phase workflow for high-value transactions.
type ApprovalService interface {
	Submit(ctx context.Context, draft domain.Transaction) (*domain.ApprovalRequest, error)
	// Status returns the current state, lazily expiring an overdue
	// pending request at read time.
	Status(ctx context.Context, id uuid.UUID) (*domain.ApprovalRequest, error)
	// Decide approves or rejects a pending request. An approval commits
	// the draft to the ledger; deciding a terminal request is a conflict.
	Decide(ctx context.Context, id uuid.UUID, approved bool, adminID, reason string) (*domain.ApprovalRequest, error)
	Pending(ctx context.Context) ([]domain.ApprovalRequest, error)
	// Sweep expires every overdue pending request, returning the count.
	Sweep(ctx context.Context) (int, error)
}

// AuditService appends and queries the audit and security trails.
type AuditService interface {
	Action(ctx context.Context, entry *domain.AuditLogEntry)
	Security(ctx context.Context, entry *domain.SecurityLogEntry)
	SearchAudit(ctx context.Context, q AuditQuery) ([]domain.AuditLogEntry, int64, error)
	SearchSecurity(ctx context.Context, q SecurityQuery) ([]domain.SecurityLogEntry, int64, error)
}

// MovementRequest is the validated input for one wallet operation.
type MovementRequest struct {
	AccountID   string
	Amount      int64
	Method      string // Opaque funding method code for deposits/withdrawals
	TableID     string
	HandID      string
	ToAccountID string
	Outcome     string // "win" or "loss" for settlements
	Description string
	Context     RequestContext
}

// MovementResult is the outcome of a wallet operation: either a committed
// transaction or an approval request the caller must poll.
type MovementResult struct {
	Transaction *domain.Transaction
	Approval    *domain.ApprovalRequest
}

// WalletService is the transaction-authorization pipeline: fraud evaluation,
// threshold routing to the approval workflow, and ledger mutation.
type WalletService interface {
	Deposit(ctx context.Context, req MovementRequest) (*MovementResult, error)
	Withdraw(ctx context.Context, req MovementRequest) (*MovementResult, error)
	Transfer(ctx context.Context, req MovementRequest) (*MovementResult, error)
	BuyIn(ctx context.Context, req MovementRequest) (*MovementResult, error)
	CashOut(ctx context.Context, req MovementRequest) (*MovementResult, error)
	Settle(ctx context.Context, req MovementRequest) (*MovementResult, error)
	Balance(ctx context.Context, accountID string) (*domain.Wallet, error)
	History(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error)
}

// RiskReport aggregates recent fraud signals into a 0-100 score.
type RiskReport struct {
	AccountID      string   `json:"account_id"`
	Score          int      `json:"score"`
	Factors        []string `json:"factors"`
	Recommendation string   `json:"recommendation"`
}

// BulkDecisionResult reports a bulk approve/reject run. Items are processed
// independently: one failure never aborts the rest.
type BulkDecisionResult struct {
	Processed int               `json:"processed"`
	Success   int               `json:"success"`
	Failed    int               `json:"failed"`
	Errors    map[string]string `json:"errors,omitempty"` // approvalId -> error code
}

// TypeStats aggregates one transaction type.
type TypeStats struct {
	Count  int64 `json:"count"`
	Volume int64 `json:"volume"` // Sum of absolute amounts
}

// AnalyticsReport aggregates ledger activity over a period.
type AnalyticsReport struct {
	Period         string               `json:"period"`
	TotalCount     int64                `json:"total_count"`
	TotalVolume    int64                `json:"total_volume"`
	ByType         map[string]TypeStats `json:"by_type"`
	ActiveAccounts int                  `json:"active_accounts"`
}

// TransactionSearchParams filters the admin transaction search.
type TransactionSearchParams struct {
	Account   string // Substring match on account id
	MinAmount *int64
	MaxAmount *int64
	Type      string
	Limit     int
}

// AdminService exposes read/search/analytics and bulk-approval operations.
type AdminService interface {
	PendingApprovals(ctx context.Context) ([]domain.ApprovalRequest, error)
	RiskScore(ctx context.Context, accountID string) (*RiskReport, error)
	BulkDecide(ctx context.Context, ids []uuid.UUID, approved bool, adminID, reason string) (*BulkDecisionResult, error)
	Analytics(ctx context.Context, period string) (*AnalyticsReport, error)
	SearchTransactions(ctx context.Context, params TransactionSearchParams) ([]domain.Transaction, error)
}
