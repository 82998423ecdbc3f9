package postgres

import (
	"context"
	"testing"
	"time"

	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func newAuditEntry() *domain.AuditLogEntry {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.AuditLogEntry{
		ID:        uuid.New(),
		AccountID: "acct-1",
		Action:    "withdraw",
		Amount:    int64Ptr(6000),
		IPAddress: "192.168.1.1",
		UserAgent: "poker-client/2.4",
		Result:    domain.AuditResultFailure,
		ErrorCode: "WAL_001",
		CreatedAt: now,
	}
}

func auditColumns() []string {
	return []string{"id", "account_id", "action", "amount", "ip_address", "user_agent", "result", "error_code", "created_at"}
}

func auditRow(e *domain.AuditLogEntry) *pgxmock.Rows {
	return pgxmock.NewRows(auditColumns()).AddRow(
		e.ID, e.AccountID, e.Action, e.Amount, e.IPAddress,
		e.UserAgent, e.Result, e.ErrorCode, e.CreatedAt,
	)
}

func TestAuditRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	entry := newAuditEntry()

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(entry.ID, entry.AccountID, entry.Action, entry.Amount, entry.IPAddress,
			entry.UserAgent, string(entry.Result), entry.ErrorCode, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), entry))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_List_NoFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	entry := newAuditEntry()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM audit_logs").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT id, account_id, action, amount").
		WithArgs(50, 0).
		WillReturnRows(auditRow(entry))

	entries, total, err := repo.List(context.Background(), ports.AuditQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, "withdraw", entries[0].Action)
	assert.Equal(t, "WAL_001", entries[0].ErrorCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_List_AccountAndAmountFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	entry := newAuditEntry()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM audit_logs WHERE account_id = \\$1 AND amount >= \\$2").
		WithArgs("acct-1", int64(5000)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))
	mock.ExpectQuery("SELECT id, account_id, action, amount").
		WithArgs("acct-1", int64(5000), 10, 0).
		WillReturnRows(auditRow(entry))

	entries, total, err := repo.List(context.Background(), ports.AuditQuery{
		AccountID: "acct-1",
		MinAmount: int64Ptr(5000),
		Limit:     10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Len(t, entries, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_List_TimeRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	from := time.Now().Add(-time.Hour).UTC()
	to := time.Now().UTC()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM audit_logs WHERE created_at >= \\$1 AND created_at <= \\$2").
		WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery("SELECT id, account_id, action, amount").
		WithArgs(from, to, 50, 0).
		WillReturnRows(pgxmock.NewRows(auditColumns()))

	entries, total, err := repo.List(context.Background(), ports.AuditQuery{From: &from, To: &to})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, entries)
	require.NoError(t, mock.ExpectationsWereMet())
}
