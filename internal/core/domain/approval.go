package domain

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus represents the lifecycle state of an approval request.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
	ApprovalStatusExpired  ApprovalStatus = "expired"
)

// ApprovalRequest holds a fraud-clear but high-value draft transaction
// awaiting an administrative decision. The draft is only committed to the
// ledger once the request is approved; until then the account balance is
// untouched.
type ApprovalRequest struct {
	ID         uuid.UUID      `json:"id"`
	Draft      Transaction    `json:"draft"`
	CreatedAt  time.Time      `json:"created_at"`
	ExpiresAt  time.Time      `json:"expires_at"`
	Status     ApprovalStatus `json:"status"`
	ReviewedBy string         `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time     `json:"reviewed_at,omitempty"`
	Reason     string         `json:"reason,omitempty"`
}

// IsTerminal returns true once the request can no longer be decided.
func (a *ApprovalRequest) IsTerminal() bool {
	return a.Status != ApprovalStatusPending
}

// IsOverdue reports whether a still-pending request has passed its deadline.
func (a *ApprovalRequest) IsOverdue(now time.Time) bool {
	return a.Status == ApprovalStatusPending && now.After(a.ExpiresAt)
}
