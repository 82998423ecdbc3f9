package postgres

import (
	"context"
	"fmt"
	"strings"

	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"
)

// AuditRepo implements ports.AuditRepository on an append-only table.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a PostgreSQL-backed audit repository.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create appends one audit entry. Entries are never updated or deleted.
func (r *AuditRepo) Create(ctx context.Context, e *domain.AuditLogEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, account_id, action, amount, ip_address, user_agent, result, error_code, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.AccountID, e.Action, e.Amount, e.IPAddress,
		e.UserAgent, string(e.Result), e.ErrorCode, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List returns matching entries newest first, plus the unpaginated total.
func (r *AuditRepo) List(ctx context.Context, q ports.AuditQuery) ([]domain.AuditLogEntry, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	add := func(cond string, val any) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, val)
		argIdx++
	}

	if q.AccountID != "" {
		add("account_id = $%d", q.AccountID)
	}
	if q.Action != "" {
		add("action = $%d", q.Action)
	}
	if q.From != nil {
		add("created_at >= $%d", *q.From)
	}
	if q.To != nil {
		add("created_at <= $%d", *q.To)
	}
	if q.MinAmount != nil {
		add("amount >= $%d", *q.MinAmount)
	}
	if q.MaxAmount != nil {
		add("amount <= $%d", *q.MaxAmount)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_logs %s", where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(
		`SELECT id, account_id, action, amount, ip_address, user_agent, result, error_code, created_at
		 FROM audit_logs %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1,
	)
	args = append(args, limit, q.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditLogEntry
	for rows.Next() {
		var e domain.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Action, &e.Amount, &e.IPAddress,
			&e.UserAgent, &e.Result, &e.ErrorCode, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate audit logs: %w", err)
	}
	return entries, total, nil
}
