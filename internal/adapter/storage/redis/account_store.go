package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"game-wallet-gateway/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

const accountPrefix = "account:"

// AccountStore implements ports.AccountStore on the Redis key-value
// collaborator: one JSON record per account holding the wallet and its
// transaction log.
type AccountStore struct {
	client *goredis.Client
}

// NewAccountStore creates a Redis-backed account store.
func NewAccountStore(client *goredis.Client) *AccountStore {
	return &AccountStore{client: client}
}

// Get returns the stored record for accountID, or nil if absent.
func (s *AccountStore) Get(ctx context.Context, accountID string) (*domain.AccountRecord, error) {
	raw, err := s.client.Get(ctx, accountPrefix+accountID).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis account get: %w", err)
	}

	var rec domain.AccountRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal account record: %w", err)
	}
	return &rec, nil
}

// Put stores the record, overwriting any previous version.
func (s *AccountStore) Put(ctx context.Context, rec *domain.AccountRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal account record: %w", err)
	}
	if err := s.client.Set(ctx, accountPrefix+rec.Wallet.AccountID, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis account put: %w", err)
	}
	return nil
}

// List scans the account namespace and returns every stored record.
func (s *AccountStore) List(ctx context.Context) ([]domain.AccountRecord, error) {
	var records []domain.AccountRecord

	iter := s.client.Scan(ctx, 0, accountPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if err == goredis.Nil {
				continue
			}
			return nil, fmt.Errorf("redis account scan get: %w", err)
		}
		var rec domain.AccountRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal account record %s: %w", iter.Val(), err)
		}
		records = append(records, rec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis account scan: %w", err)
	}
	return records, nil
}
