package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"game-wallet-gateway/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const approvalPrefix = "approval:"

// ApprovalStore implements ports.ApprovalStore: one JSON record per
// approval request, keyed by approval id, listed via prefix scan.
type ApprovalStore struct {
	client *goredis.Client
}

// NewApprovalStore creates a Redis-backed approval store.
func NewApprovalStore(client *goredis.Client) *ApprovalStore {
	return &ApprovalStore{client: client}
}

// Get returns the stored request, or nil if absent.
func (s *ApprovalStore) Get(ctx context.Context, id uuid.UUID) (*domain.ApprovalRequest, error) {
	raw, err := s.client.Get(ctx, approvalPrefix+id.String()).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis approval get: %w", err)
	}

	var req domain.ApprovalRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("unmarshal approval request: %w", err)
	}
	return &req, nil
}

// Put stores the request, overwriting any previous version.
func (s *ApprovalStore) Put(ctx context.Context, req *domain.ApprovalRequest) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal approval request: %w", err)
	}
	if err := s.client.Set(ctx, approvalPrefix+req.ID.String(), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis approval put: %w", err)
	}
	return nil
}

// List scans the approval namespace and returns every stored request.
func (s *ApprovalStore) List(ctx context.Context) ([]domain.ApprovalRequest, error) {
	var requests []domain.ApprovalRequest

	iter := s.client.Scan(ctx, 0, approvalPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if err == goredis.Nil {
				continue
			}
			return nil, fmt.Errorf("redis approval scan get: %w", err)
		}
		var req domain.ApprovalRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("unmarshal approval request %s: %w", iter.Val(), err)
		}
		requests = append(requests, req)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis approval scan: %w", err)
	}
	return requests, nil
}
