package dto

import (
	"time"

	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"
)

// ---- Wallet requests ----

type DepositRequest struct {
	Amount      int64  `json:"amount"`
	Method      string `json:"method,omitempty"`
	Description string `json:"description,omitempty"`
}

type WithdrawRequest struct {
	Amount      int64  `json:"amount"`
	Method      string `json:"method,omitempty"`
	Description string `json:"description,omitempty"`
}

type TransferRequest struct {
	Amount      int64  `json:"amount"`
	ToAccountID string `json:"to_account_id"`
	Description string `json:"description,omitempty"`
}

type BuyInRequest struct {
	Amount  int64  `json:"amount"`
	TableID string `json:"table_id"`
}

type CashOutRequest struct {
	TableID string `json:"table_id"`
}

type SettleRequest struct {
	Amount      int64  `json:"amount"`
	Outcome     string `json:"outcome"` // "win" or "loss"
	TableID     string `json:"table_id,omitempty"`
	HandID      string `json:"hand_id,omitempty"`
	Description string `json:"description,omitempty"`
}

// ---- Approval requests ----

type DecisionRequest struct {
	ApprovalID string `json:"approval_id"`
	Approved   *bool  `json:"approved"`
	Reason     string `json:"reason,omitempty"`
}

type BulkDecisionRequest struct {
	ApprovalIDs []string `json:"approval_ids"`
	Approved    *bool    `json:"approved"`
	Reason      string   `json:"reason,omitempty"`
}

// ---- Auth ----

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ---- Responses ----

type TransactionResponse struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	Type         string    `json:"type"`
	Amount       int64     `json:"amount"`
	TableID      string    `json:"table_id,omitempty"`
	HandID       string    `json:"hand_id,omitempty"`
	Counterparty string    `json:"counterparty,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromTransaction(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           tx.ID.String(),
		AccountID:    tx.AccountID,
		Type:         string(tx.Type),
		Amount:       tx.Amount,
		TableID:      tx.TableID,
		HandID:       tx.HandID,
		Counterparty: tx.Counterparty,
		Status:       string(tx.Status),
		CreatedAt:    tx.CreatedAt,
	}
}

type WalletResponse struct {
	AccountID   string    `json:"account_id"`
	Balance     int64     `json:"balance"`
	Frozen      int64     `json:"frozen"`
	Available   int64     `json:"available"`
	Currency    string    `json:"currency"`
	LastUpdated time.Time `json:"last_updated"`
}

func FromWallet(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		AccountID:   w.AccountID,
		Balance:     w.Balance,
		Frozen:      w.Frozen,
		Available:   w.Available(),
		Currency:    w.Currency,
		LastUpdated: w.LastUpdated,
	}
}

// PendingApprovalResponse is the 202 body for a movement deferred to the
// approval workflow.
type PendingApprovalResponse struct {
	Status     string    `json:"status"`
	ApprovalID string    `json:"approval_id"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type ApprovalResponse struct {
	ID         string              `json:"id"`
	Status     string              `json:"status"`
	Draft      TransactionResponse `json:"draft"`
	CreatedAt  time.Time           `json:"created_at"`
	ExpiresAt  time.Time           `json:"expires_at"`
	ReviewedBy string              `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time          `json:"reviewed_at,omitempty"`
	Reason     string              `json:"reason,omitempty"`
}

func FromApproval(a *domain.ApprovalRequest) ApprovalResponse {
	return ApprovalResponse{
		ID:         a.ID.String(),
		Status:     string(a.Status),
		Draft:      FromTransaction(&a.Draft),
		CreatedAt:  a.CreatedAt,
		ExpiresAt:  a.ExpiresAt,
		ReviewedBy: a.ReviewedBy,
		ReviewedAt: a.ReviewedAt,
		Reason:     a.Reason,
	}
}

// MovementResponse renders a wallet operation outcome: either the committed
// transaction or the pending approval handle.
func MovementResponse(res *ports.MovementResult) (interface{}, bool) {
	if res.Approval != nil {
		return PendingApprovalResponse{
			Status:     string(domain.TransactionStatusPendingApproval),
			ApprovalID: res.Approval.ID.String(),
			ExpiresAt:  res.Approval.ExpiresAt,
		}, true
	}
	return FromTransaction(res.Transaction), false
}

// ListResponse is the paginated envelope for log queries and searches.
type ListResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
}
