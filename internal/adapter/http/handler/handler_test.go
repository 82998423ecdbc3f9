package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"game-wallet-gateway/internal/adapter/http/dto"
	"game-wallet-gateway/internal/adapter/http/middleware"
	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"
	"game-wallet-gateway/internal/core/ports/mocks"
	"game-wallet-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonRequest(method, path string, payload interface{}) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

func completedTx(accountID string, txType domain.TransactionType, amount int64) *domain.Transaction {
	return &domain.Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Type:      txType,
		Amount:    amount,
		Status:    domain.TransactionStatusCompleted,
		CreatedAt: time.Now(),
	}
}

// --- Wallet Handler Tests ---

func TestDeposit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	tx := completedTx("acct_1", domain.TransactionTypeDeposit, 500)
	mockWallet.EXPECT().Deposit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.MovementRequest) (*ports.MovementResult, error) {
			assert.Equal(t, "acct_1", req.AccountID)
			assert.Equal(t, int64(500), req.Amount)
			return &ports.MovementResult{Transaction: tx}, nil
		})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxAccountID, "acct_1")
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/deposit", dto.DepositRequest{Amount: 500})

	h.Deposit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, tx.ID.String(), data["id"])
	assert.Equal(t, "deposit", data["type"])
	assert.Equal(t, float64(500), data["amount"])
}

func TestDeposit_MissingAccountContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/deposit", dto.DepositRequest{Amount: 500})

	h.Deposit(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeposit_InvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxAccountID, "acct_1")
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/deposit", dto.DepositRequest{Amount: -10})

	h.Deposit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWithdraw_DeferredToApproval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	approval := &domain.ApprovalRequest{
		ID:        uuid.New(),
		Status:    domain.ApprovalStatusPending,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	mockWallet.EXPECT().Withdraw(gomock.Any(), gomock.Any()).Return(&ports.MovementResult{Approval: approval}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxAccountID, "acct_1")
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/withdraw", dto.WithdrawRequest{Amount: 100000})

	h.Withdraw(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "pending_approval", data["status"])
	assert.Equal(t, approval.ID.String(), data["approval_id"])
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	mockWallet.EXPECT().Withdraw(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInsufficientFunds())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxAccountID, "acct_1")
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/withdraw", dto.WithdrawRequest{Amount: 100})

	h.Withdraw(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestTransfer_FraudBlocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	mockWallet.EXPECT().Transfer(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrFraudBlocked("multiple failed attempts"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxAccountID, "acct_1")
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/transfer", dto.TransferRequest{Amount: 100, ToAccountID: "acct_2"})

	h.Transfer(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "FRAUD_002", resp["error_code"])
	assert.Equal(t, "multiple failed attempts", resp["fraud_reason"])
}

func TestTransfer_MissingDestination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxAccountID, "acct_1")
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/transfer", dto.TransferRequest{Amount: 100})

	h.Transfer(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuyIn_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	tx := completedTx("acct_1", domain.TransactionTypeBuyIn, 300)
	tx.TableID = "table_9"
	mockWallet.EXPECT().BuyIn(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.MovementRequest) (*ports.MovementResult, error) {
			assert.Equal(t, "table_9", req.TableID)
			return &ports.MovementResult{Transaction: tx}, nil
		})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxAccountID, "acct_1")
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/buy-in", dto.BuyInRequest{Amount: 300, TableID: "table_9"})

	h.BuyIn(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "table_9", data["table_id"])
}

func TestCashOut_NoOpenBuyIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	mockWallet.EXPECT().CashOut(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrNoOpenBuyIn("table_9"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxAccountID, "acct_1")
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/cash-out", dto.CashOutRequest{TableID: "table_9"})

	h.CashOut(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettle_InvalidOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxAccountID, "acct_1")
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/settle", dto.SettleRequest{Amount: 100, Outcome: "push"})

	h.Settle(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	mockWallet.EXPECT().Balance(gomock.Any(), "acct_1").Return(&domain.Wallet{
		AccountID: "acct_1",
		Balance:   1000,
		Frozen:    300,
		Currency:  "CHIP",
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "accountId", Value: "acct_1"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/admin/balance/acct_1", nil)

	h.Balance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(1000), data["balance"])
	assert.Equal(t, float64(300), data["frozen"])
	assert.Equal(t, float64(700), data["available"])
}

func TestHistory_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	txs := []domain.Transaction{
		*completedTx("acct_1", domain.TransactionTypeWithdraw, -200),
		*completedTx("acct_1", domain.TransactionTypeDeposit, 500),
	}
	mockWallet.EXPECT().History(gomock.Any(), "acct_1", 10).Return(txs, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "accountId", Value: "acct_1"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/admin/history/acct_1?limit=10", nil)

	h.History(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(2), data["total"])
}

// --- Approval Handler Tests ---

func TestApprovalStatus_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockApproval := mocks.NewMockApprovalService(ctrl)
	h := NewApprovalHandler(mockApproval)

	id := uuid.New()
	mockApproval.EXPECT().Status(gomock.Any(), id).Return(&domain.ApprovalRequest{
		ID:     id,
		Status: domain.ApprovalStatusPending,
		Draft:  *completedTx("acct_1", domain.TransactionTypeWithdraw, -10000),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/approval-status?approvalId="+id.String(), nil)

	h.Status(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "pending", data["status"])
}

func TestApprovalStatus_BadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockApproval := mocks.NewMockApprovalService(ctrl)
	h := NewApprovalHandler(mockApproval)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/approval-status?approvalId=not-a-uuid", nil)

	h.Status(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecide_Approve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockApproval := mocks.NewMockApprovalService(ctrl)
	h := NewApprovalHandler(mockApproval)

	id := uuid.New()
	approved := true
	mockApproval.EXPECT().Decide(gomock.Any(), id, true, "admin", "looks fine").Return(&domain.ApprovalRequest{
		ID:     id,
		Status: domain.ApprovalStatusApproved,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxAdminID, "admin")
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/approve-transaction", dto.DecisionRequest{
		ApprovalID: id.String(),
		Approved:   &approved,
		Reason:     "looks fine",
	})

	h.Decide(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "approved", data["status"])
}

func TestDecide_AlreadyDecided(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockApproval := mocks.NewMockApprovalService(ctrl)
	h := NewApprovalHandler(mockApproval)

	id := uuid.New()
	approved := false
	mockApproval.EXPECT().Decide(gomock.Any(), id, false, gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrApprovalDecided())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxAdminID, "admin")
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/approve-transaction", dto.DecisionRequest{
		ApprovalID: id.String(),
		Approved:   &approved,
	})

	h.Decide(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDecide_MissingApprovedFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockApproval := mocks.NewMockApprovalService(ctrl)
	h := NewApprovalHandler(mockApproval)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/approve-transaction", dto.DecisionRequest{
		ApprovalID: uuid.New().String(),
	})

	h.Decide(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Admin Handler Tests ---

func TestPendingTransactions_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	mockAudit := mocks.NewMockAuditService(ctrl)
	h := NewAdminHandler(mockAdmin, mockAudit)

	mockAdmin.EXPECT().PendingApprovals(gomock.Any()).Return([]domain.ApprovalRequest{
		{ID: uuid.New(), Status: domain.ApprovalStatusPending},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/admin/pending-transactions", nil)

	h.PendingTransactions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(1), data["total"])
}

func TestRiskScore_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	mockAudit := mocks.NewMockAuditService(ctrl)
	h := NewAdminHandler(mockAdmin, mockAudit)

	mockAdmin.EXPECT().RiskScore(gomock.Any(), "acct_1").Return(&ports.RiskReport{
		AccountID: "acct_1",
		Score:     55,
		Factors:   []string{"multiple_failed_attempts"},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "accountId", Value: "acct_1"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/admin/risk-score/acct_1", nil)

	h.RiskScore(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(55), data["score"])
}

func TestBulkDecide_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	mockAudit := mocks.NewMockAuditService(ctrl)
	h := NewAdminHandler(mockAdmin, mockAudit)

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	approved := true
	mockAdmin.EXPECT().BulkDecide(gomock.Any(), ids, true, "admin", "batch").Return(&ports.BulkDecisionResult{
		Processed: 2,
		Success:   2,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxAdminID, "admin")
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/admin/bulk-approve", dto.BulkDecisionRequest{
		ApprovalIDs: []string{ids[0].String(), ids[1].String()},
		Approved:    &approved,
		Reason:      "batch",
	})

	h.BulkDecide(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(2), data["success"])
}

func TestBulkDecide_EmptyList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	mockAudit := mocks.NewMockAuditService(ctrl)
	h := NewAdminHandler(mockAdmin, mockAudit)

	approved := true
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/wallet/admin/bulk-approve", dto.BulkDecisionRequest{
		Approved: &approved,
	})

	h.BulkDecide(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalytics_DefaultsToAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	mockAudit := mocks.NewMockAuditService(ctrl)
	h := NewAdminHandler(mockAdmin, mockAudit)

	mockAdmin.EXPECT().Analytics(gomock.Any(), "all").Return(&ports.AnalyticsReport{
		Period:     "all",
		TotalCount: 3,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/admin/analytics", nil)

	h.Analytics(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchTransactions_BadAmountFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	mockAudit := mocks.NewMockAuditService(ctrl)
	h := NewAdminHandler(mockAdmin, mockAudit)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/admin/search-transactions?min_amount=abc", nil)

	h.SearchTransactions(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditLogs_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	mockAudit := mocks.NewMockAuditService(ctrl)
	h := NewAdminHandler(mockAdmin, mockAudit)

	mockAudit.EXPECT().SearchAudit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, q ports.AuditQuery) ([]domain.AuditLogEntry, int64, error) {
			assert.Equal(t, "acct_1", q.AccountID)
			assert.Equal(t, "wallet.withdraw", q.Action)
			assert.Equal(t, 50, q.Limit)
			return []domain.AuditLogEntry{{AccountID: "acct_1", Action: "wallet.withdraw"}}, 1, nil
		})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/audit-logs?account=acct_1&action=wallet.withdraw", nil)

	h.AuditLogs(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(1), data["total"])
}

func TestSecurityLogs_BadTimeRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	mockAudit := mocks.NewMockAuditService(ctrl)
	h := NewAdminHandler(mockAdmin, mockAudit)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/security-logs?from=yesterday", nil)

	h.SecurityLogs(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Auth Handler Tests ---

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	mockAuth.EXPECT().Login(gomock.Any(), "admin", "secret").Return("token-123", expiry, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "admin", Password: "secret"})

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "token-123", data["token"])
}

func TestLogin_BadCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "admin", "wrong").
		Return("", time.Time{}, apperror.ErrInvalidCredentials())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "admin", Password: "wrong"})

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "admin"})

	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Health Check Tests ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                 { return s.name }
func (s stubChecker) Ping(_ context.Context) error { return s.err }

func TestHealthCheck_AllHealthy(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck(stubChecker{name: "redis"}, stubChecker{name: "postgres"}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck(
		stubChecker{name: "redis"},
		stubChecker{name: "postgres", err: errors.New("connection refused")},
	))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
}
