package service

import (
	"context"
	"testing"
	"time"

	"game-wallet-gateway/internal/adapter/storage/redis"
	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	admin     ports.AdminService
	approvals ports.ApprovalService
	ledger    ports.LedgerService
	engine    ports.FraudEngine
	audit     ports.AuditService
}

func newAdminFixture(t *testing.T, initialBalance int64) *adminFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	accounts := redis.NewAccountStore(client)
	ledger := NewLedgerService(accounts, "CHIP", initialBalance, 100, zerolog.Nop())
	engine := NewFraudEngine(ledger, redis.NewWindowStore(client, "failures:"), FraudConfig{
		UnusualAmountThreshold: 1000000,
		RapidTransactionCount:  5,
		RapidTransactionWindow: time.Minute,
		FailedAttemptCount:     3,
		FailedAttemptWindow:    10 * time.Minute,
		GeoAnomalyWindow:       time.Hour,
	}, zerolog.Nop())
	approvals := NewApprovalService(redis.NewApprovalStore(client), ledger, time.Hour, zerolog.Nop())
	audit := NewAuditService(&memAuditRepo{}, &memSecurityRepo{}, zerolog.Nop())
	admin := NewAdminService(approvals, engine, accounts, audit, zerolog.Nop())

	return &adminFixture{admin: admin, approvals: approvals, ledger: ledger, engine: engine, audit: audit}
}

func TestAdminService_PendingApprovals(t *testing.T) {
	f := newAdminFixture(t, 0)
	ctx := context.Background()

	_, err := f.approvals.Submit(ctx, withdrawalDraft("acct-1", 9000))
	require.NoError(t, err)

	pending, err := f.admin.PendingApprovals(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "acct-1", pending[0].Draft.AccountID)
}

func TestAdminService_RiskScore(t *testing.T) {
	f := newAdminFixture(t, 0)
	ctx := context.Background()

	// A quiet account scores zero.
	report, err := f.admin.RiskScore(ctx, "acct-quiet")
	require.NoError(t, err)
	assert.Zero(t, report.Score)
	assert.Equal(t, "no action required", report.Recommendation)

	// Failed attempts plus a security event push the score up.
	now := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, f.engine.RecordFailure(ctx, "acct-hot", now))
	}
	f.audit.Security(ctx, &domain.SecurityLogEntry{
		AccountID: "acct-hot",
		Event:     domain.EventFraudBlock,
		Severity:  domain.SeverityHigh,
		IPAddress: "10.0.0.1",
	})

	report, err = f.admin.RiskScore(ctx, "acct-hot")
	require.NoError(t, err)
	assert.Equal(t, 55, report.Score)
	assert.NotEmpty(t, report.Factors)
	assert.Equal(t, "require manual review for large transactions", report.Recommendation)
}

func TestAdminService_RiskScore_ReviewEventFactors(t *testing.T) {
	f := newAdminFixture(t, 0)
	ctx := context.Background()

	// Past review events carry the rule that fired, so amount and geo
	// anomalies surface in the score without re-running those rules.
	f.audit.Security(ctx, &domain.SecurityLogEntry{
		AccountID: "acct-1",
		Event:     domain.EventFraudReview,
		Severity:  domain.SeverityMedium,
		IPAddress: "10.0.0.1",
		Details:   string(domain.SignalUnusualAmount),
	})
	f.audit.Security(ctx, &domain.SecurityLogEntry{
		AccountID: "acct-1",
		Event:     domain.EventFraudReview,
		Severity:  domain.SeverityMedium,
		IPAddress: "10.0.0.1",
		Details:   string(domain.SignalGeoAnomaly),
	})

	report, err := f.admin.RiskScore(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, 30, report.Score)
	assert.Contains(t, report.Factors, "recent transactions flagged for unusual amounts")
	assert.Contains(t, report.Factors, "recent activity from anomalous locations")
	assert.Contains(t, report.Factors, "recent security events on record")
}

func TestAdminService_BulkDecide_PartialFailure(t *testing.T) {
	f := newAdminFixture(t, 20000)
	ctx := context.Background()

	a, err := f.approvals.Submit(ctx, withdrawalDraft("acct-1", 6000))
	require.NoError(t, err)
	b, err := f.approvals.Submit(ctx, withdrawalDraft("acct-2", 7000))
	require.NoError(t, err)
	unknown := uuid.New()

	result, err := f.admin.BulkDecide(ctx, []uuid.UUID{a.ID, unknown, b.ID}, true, "operator", "")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "APPR_001", result.Errors[unknown.String()])

	// The failure in the middle did not stop the later item.
	w, err := f.ledger.GetBalance(ctx, "acct-2")
	require.NoError(t, err)
	assert.Equal(t, int64(13000), w.Balance)
}

func TestAdminService_Analytics(t *testing.T) {
	f := newAdminFixture(t, 0)
	ctx := context.Background()

	_, err := f.ledger.ApplyDelta(ctx, ports.LedgerDelta{AccountID: "alice", Type: domain.TransactionTypeDeposit, Amount: 1000})
	require.NoError(t, err)
	_, err = f.ledger.ApplyDelta(ctx, ports.LedgerDelta{AccountID: "alice", Type: domain.TransactionTypeWithdraw, Amount: -400})
	require.NoError(t, err)
	_, err = f.ledger.ApplyDelta(ctx, ports.LedgerDelta{AccountID: "bob", Type: domain.TransactionTypeDeposit, Amount: 600})
	require.NoError(t, err)

	report, err := f.admin.Analytics(ctx, "day")
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.TotalCount)
	assert.Equal(t, int64(2000), report.TotalVolume)
	assert.Equal(t, 2, report.ActiveAccounts)
	assert.Equal(t, int64(2), report.ByType["deposit"].Count)
	assert.Equal(t, int64(1600), report.ByType["deposit"].Volume)
	assert.Equal(t, int64(400), report.ByType["withdraw"].Volume)

	_, err = f.admin.Analytics(ctx, "fortnight")
	assertAppError(t, err, "WAL_002")
}

func TestAdminService_SearchTransactions(t *testing.T) {
	f := newAdminFixture(t, 0)
	ctx := context.Background()

	_, err := f.ledger.ApplyDelta(ctx, ports.LedgerDelta{AccountID: "player-alice", Type: domain.TransactionTypeDeposit, Amount: 1000})
	require.NoError(t, err)
	_, err = f.ledger.ApplyDelta(ctx, ports.LedgerDelta{AccountID: "player-bob", Type: domain.TransactionTypeDeposit, Amount: 250})
	require.NoError(t, err)
	_, err = f.ledger.ApplyDelta(ctx, ports.LedgerDelta{AccountID: "player-bob", Type: domain.TransactionTypeWithdraw, Amount: -100})
	require.NoError(t, err)

	// Account substring match.
	txs, err := f.admin.SearchTransactions(ctx, ports.TransactionSearchParams{Account: "alice"})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "player-alice", txs[0].AccountID)

	// Type filter.
	txs, err = f.admin.SearchTransactions(ctx, ports.TransactionSearchParams{Type: "withdraw"})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(-100), txs[0].Amount)

	// Amount bounds apply to the magnitude.
	min := int64(200)
	max := int64(500)
	txs, err = f.admin.SearchTransactions(ctx, ports.TransactionSearchParams{MinAmount: &min, MaxAmount: &max})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(250), txs[0].Amount)
}
