package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet holds one account's balance state. Amounts are signed integers in
// minor currency units. Frozen is the portion committed to open buy-ins and
// is unavailable for withdrawal, transfer, or further buy-ins.
type Wallet struct {
	AccountID   string    `json:"account_id"`
	Balance     int64     `json:"balance"`
	Frozen      int64     `json:"frozen"`
	Currency    string    `json:"currency"`
	LastUpdated time.Time `json:"last_updated"`
}

// Available returns the spendable portion of the balance.
func (w *Wallet) Available() int64 {
	return w.Balance - w.Frozen
}

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
	TransactionTypeTransfer TransactionType = "transfer"
	TransactionTypeBuyIn    TransactionType = "buy_in"
	TransactionTypeCashOut  TransactionType = "cash_out"
	TransactionTypeWin      TransactionType = "win"
	TransactionTypeLoss     TransactionType = "loss"
)

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusCompleted       TransactionStatus = "completed"
	TransactionStatusPendingApproval TransactionStatus = "pending_approval"
	TransactionStatusRejected        TransactionStatus = "rejected"
	TransactionStatusExpired         TransactionStatus = "expired"
)

// Transaction is one immutable entry in an account's ledger log. The amount
// is signed: positive increases the balance, negative decreases it. Buy-in
// and cash-out entries record the frozen amount moved and leave the balance
// itself untouched.
type Transaction struct {
	ID           uuid.UUID         `json:"id"`
	AccountID    string            `json:"account_id"`
	Type         TransactionType   `json:"type"`
	Amount       int64             `json:"amount"`
	TableID      string            `json:"table_id,omitempty"`
	HandID       string            `json:"hand_id,omitempty"`
	Counterparty string            `json:"counterparty,omitempty"` // Destination account for transfers
	CountryCode  string            `json:"country_code,omitempty"`
	Description  string            `json:"description,omitempty"`
	Status       TransactionStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
}

// IsTerminal returns true once the transaction may no longer change state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted ||
		t.Status == TransactionStatusRejected ||
		t.Status == TransactionStatusExpired
}

// MovesValue reports whether this transaction type changes the balance when
// committed. Buy-in and cash-out only move funds between spendable and frozen.
func (t *Transaction) MovesValue() bool {
	return t.Type != TransactionTypeBuyIn && t.Type != TransactionTypeCashOut
}

// AccountRecord is the unit of persistence: one key-value record per account
// holding the wallet and its transaction log. OpenBuyIns maps a table id to
// the frozen amount of the un-released buy-in at that table, so each freeze
// is released exactly once.
type AccountRecord struct {
	Wallet       Wallet           `json:"wallet"`
	Transactions []Transaction    `json:"transactions"`
	OpenBuyIns   map[string]int64 `json:"open_buy_ins,omitempty"`
}
