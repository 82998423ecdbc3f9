package postgres

import (
	"context"
	"fmt"
	"strings"

	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"
)

// SecurityRepo implements ports.SecurityRepository on an append-only table.
type SecurityRepo struct {
	pool Pool
}

// NewSecurityRepo creates a PostgreSQL-backed security log repository.
func NewSecurityRepo(pool Pool) *SecurityRepo {
	return &SecurityRepo{pool: pool}
}

// Create appends one security event.
func (r *SecurityRepo) Create(ctx context.Context, e *domain.SecurityLogEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO security_logs (id, event, severity, account_id, ip_address, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, string(e.Event), string(e.Severity), e.AccountID, e.IPAddress, e.Details, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert security log: %w", err)
	}
	return nil
}

// List returns matching events newest first, plus the unpaginated total.
func (r *SecurityRepo) List(ctx context.Context, q ports.SecurityQuery) ([]domain.SecurityLogEntry, int64, error) {
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
	if q.Event != "" {
		add("event = $%d", q.Event)
	}
	if q.Severity != "" {
		add("severity = $%d", q.Severity)
	}
	if q.From != nil {
		add("created_at >= $%d", *q.From)
	}
	if q.To != nil {
		add("created_at <= $%d", *q.To)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM security_logs %s", where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count security logs: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(
		`SELECT id, event, severity, account_id, ip_address, details, created_at
		 FROM security_logs %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1,
	)
	args = append(args, limit, q.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query security logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.SecurityLogEntry
	for rows.Next() {
		var e domain.SecurityLogEntry
		if err := rows.Scan(&e.ID, &e.Event, &e.Severity, &e.AccountID, &e.IPAddress,
			&e.Details, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan security log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate security logs: %w", err)
	}
	return entries, total, nil
}
