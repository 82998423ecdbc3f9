package dto

import (
	"game-wallet-gateway/pkg/apperror"

	"github.com/google/uuid"
)

func (r *DepositRequest) Validate() error {
	if r.Amount <= 0 {
		return apperror.ErrInvalidAmount()
	}
	return nil
}

func (r *WithdrawRequest) Validate() error {
	if r.Amount <= 0 {
		return apperror.ErrInvalidAmount()
	}
	return nil
}

func (r *TransferRequest) Validate() error {
	if r.Amount <= 0 {
		return apperror.ErrInvalidAmount()
	}
	if r.ToAccountID == "" {
		return apperror.Validation("to_account_id is required")
	}
	return nil
}

func (r *BuyInRequest) Validate() error {
	if r.Amount <= 0 {
		return apperror.ErrInvalidAmount()
	}
	if r.TableID == "" {
		return apperror.Validation("table_id is required")
	}
	return nil
}

func (r *CashOutRequest) Validate() error {
	if r.TableID == "" {
		return apperror.Validation("table_id is required")
	}
	return nil
}

func (r *SettleRequest) Validate() error {
	if r.Amount <= 0 {
		return apperror.ErrInvalidAmount()
	}
	if r.Outcome != "win" && r.Outcome != "loss" {
		return apperror.Validation("outcome must be win or loss")
	}
	return nil
}

func (r *DecisionRequest) Validate() (uuid.UUID, error) {
	if r.Approved == nil {
		return uuid.Nil, apperror.Validation("approved is required")
	}
	id, err := uuid.Parse(r.ApprovalID)
	if err != nil {
		return uuid.Nil, apperror.Validation("approval_id must be a valid uuid")
	}
	return id, nil
}

func (r *BulkDecisionRequest) Validate() ([]uuid.UUID, error) {
	if r.Approved == nil {
		return nil, apperror.Validation("approved is required")
	}
	if len(r.ApprovalIDs) == 0 {
		return nil, apperror.Validation("approval_ids must not be empty")
	}
	ids := make([]uuid.UUID, 0, len(r.ApprovalIDs))
	for _, raw := range r.ApprovalIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperror.Validation("approval_ids must be valid uuids")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *LoginRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return apperror.Validation("username and password are required")
	}
	return nil
}
