package integration

import (
	"context"
	"sync"
	"time"

	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"

	"github.com/google/uuid"
)

// In-memory stand-ins for the postgres log repositories, so the integration
// tests run the full stack without a database.

type inMemoryAuditRepo struct {
	mu      sync.RWMutex
	entries []domain.AuditLogEntry
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(_ context.Context, entry *domain.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *inMemoryAuditRepo) List(_ context.Context, q ports.AuditQuery) ([]domain.AuditLogEntry, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.AuditLogEntry, 0)
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
	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return nil, total, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, total, nil
}

type inMemorySecurityRepo struct {
	mu      sync.RWMutex
	entries []domain.SecurityLogEntry
}

func newInMemorySecurityRepo() *inMemorySecurityRepo {
	return &inMemorySecurityRepo{}
}

func (r *inMemorySecurityRepo) Create(_ context.Context, entry *domain.SecurityLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *inMemorySecurityRepo) List(_ context.Context, q ports.SecurityQuery) ([]domain.SecurityLogEntry, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.SecurityLogEntry, 0)
	for _, e := range r.entries {
		if q.AccountID != "" && e.AccountID != q.AccountID {
			continue
		}
		if q.Event != "" && string(e.Event) != q.Event {
			continue
		}
		if q.Severity != "" && string(e.Severity) != q.Severity {
			continue
		}
		matched = append(matched, e)
	}
	total := int64(len(matched))
	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return nil, total, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, total, nil
}
