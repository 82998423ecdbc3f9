package service

import (
	"context"
	"sync"
	"testing"

	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memAuditRepo is an in-memory stand-in for the postgres audit repository.
type memAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLogEntry
}

func (r *memAuditRepo) Create(_ context.Context, entry *domain.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memAuditRepo) List(_ context.Context, q ports.AuditQuery) ([]domain.AuditLogEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.AuditLogEntry
	for _, e := range r.entries {
		if q.AccountID != "" && e.AccountID != q.AccountID {
			continue
		}
		if q.Action != "" && e.Action != q.Action {
			continue
		}
		matched = append(matched, e)
	}
	total := int64(len(matched))
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, total, nil
}

// memSecurityRepo is an in-memory stand-in for the postgres security repository.
type memSecurityRepo struct {
	mu      sync.Mutex
	entries []domain.SecurityLogEntry
}

func (r *memSecurityRepo) Create(_ context.Context, entry *domain.SecurityLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memSecurityRepo) List(_ context.Context, q ports.SecurityQuery) ([]domain.SecurityLogEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.SecurityLogEntry
	for _, e := range r.entries {
		if q.AccountID != "" && e.AccountID != q.AccountID {
			continue
		}
		if q.Event != "" && string(e.Event) != q.Event {
			continue
		}
		matched = append(matched, e)
	}
	total := int64(len(matched))
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, total, nil
}

func TestAuditService_ActionFillsDefaults(t *testing.T) {
	repo := &memAuditRepo{}
	svc := NewAuditService(repo, &memSecurityRepo{}, zerolog.Nop())
	ctx := context.Background()

	amount := int64(500)
	svc.Action(ctx, &domain.AuditLogEntry{
		AccountID: "acct-1",
		Action:    "wallet.deposit",
		Amount:    &amount,
		IPAddress: "10.0.0.1",
		Result:    domain.AuditResultSuccess,
	})

	entries, total, err := svc.SearchAudit(ctx, ports.AuditQuery{AccountID: "acct-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.NotZero(t, entries[0].ID)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestAuditService_SecuritySearch(t *testing.T) {
	repo := &memSecurityRepo{}
	svc := NewAuditService(&memAuditRepo{}, repo, zerolog.Nop())
	ctx := context.Background()

	svc.Security(ctx, &domain.SecurityLogEntry{
		AccountID: "acct-1",
		Event:     domain.EventInvalidSignature,
		Severity:  domain.SeverityMedium,
		IPAddress: "10.0.0.1",
	})
	svc.Security(ctx, &domain.SecurityLogEntry{
		AccountID: "acct-2",
		Event:     domain.EventFraudBlock,
		Severity:  domain.SeverityHigh,
		IPAddress: "10.0.0.2",
	})

	entries, total, err := svc.SearchSecurity(ctx, ports.SecurityQuery{Event: string(domain.EventFraudBlock)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, "acct-2", entries[0].AccountID)
}
