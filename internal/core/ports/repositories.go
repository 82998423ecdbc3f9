package ports

import (
	"context"
	"time"

	"game-wallet-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// AccountStore persists one record per account in the durable key-value
// collaborator. The store contract is point get/put plus prefix listing;
// all ledger invariants are enforced by the caller under the per-account
// serialization guard.
type AccountStore interface {
	// Get returns the account record, or nil if the account has never
	// been touched.
	Get(ctx context.Context, accountID string) (*domain.AccountRecord, error)
	Put(ctx context.Context, rec *domain.AccountRecord) error
	// List returns every stored account record (prefix scan). Used by
	// administrative analytics and search.
	List(ctx context.Context) ([]domain.AccountRecord, error)
}

// ApprovalStore persists approval requests keyed by approval id.
type ApprovalStore interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.ApprovalRequest, error)
	Put(ctx context.Context, req *domain.ApprovalRequest) error
	// List returns every stored approval request (prefix scan).
	List(ctx context.Context) ([]domain.ApprovalRequest, error)
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if a nonce exists, sets it if not.
	// Returns true if the nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, accountID string, nonce string, ttl time.Duration) (bool, error)
}

// SlidingWindow is a per-key sliding window of event timestamps, backing
// both the rate limiter and the fraud engine's failed-attempt counter.
type SlidingWindow interface {
	// Count prunes entries older than the window and returns how many
	// remain plus the oldest remaining timestamp (zero if none).
	Count(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
	// Record appends an event timestamp and refreshes the key TTL.
	Record(ctx context.Context, key string, at time.Time, window time.Duration) error
}

// AuditQuery filters the audit log.
type AuditQuery struct {
	AccountID string
	Action    string
	From      *time.Time
	To        *time.Time
	MinAmount *int64
	MaxAmount *int64
	Limit     int
	Offset    int
}

// AuditRepository is the append-only audit trail of attempted actions.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLogEntry) error
	List(ctx context.Context, q AuditQuery) ([]domain.AuditLogEntry, int64, error)
}

// SecurityQuery filters the security log.
type SecurityQuery struct {
	AccountID string
	Event     string
	Severity  string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// SecurityRepository is the append-only log of abnormal security events.
type SecurityRepository interface {
	Create(ctx context.Context, entry *domain.SecurityLogEntry) error
	List(ctx context.Context, q SecurityQuery) ([]domain.SecurityLogEntry, int64, error)
}
