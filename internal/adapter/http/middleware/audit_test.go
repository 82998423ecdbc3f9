package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports/mocks"
	"game-wallet-gateway/pkg/apperror"
	"game-wallet-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuditTrail_RecordsSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var recorded *domain.AuditLogEntry
	auditSvc := mocks.NewMockAuditService(ctrl)
	auditSvc.EXPECT().Action(gomock.Any(), gomock.Any()).Do(func(_ interface{}, entry *domain.AuditLogEntry) {
		recorded = entry
	})

	router := gin.New()
	router.Use(AuditTrail(auditSvc))
	router.POST("/api/v1/wallet/deposit", func(c *gin.Context) {
		c.Set(CtxAccountID, "acct_1")
		c.Set(CtxAuditAmount, int64(500))
		response.OK(c, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/deposit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.NotNil(t, recorded)
	assert.Equal(t, "wallet.deposit", recorded.Action)
	assert.Equal(t, "acct_1", recorded.AccountID)
	assert.Equal(t, domain.AuditResultSuccess, recorded.Result)
	require.NotNil(t, recorded.Amount)
	assert.Equal(t, int64(500), *recorded.Amount)
	assert.Empty(t, recorded.ErrorCode)
}

func TestAuditTrail_RecordsFailureWithErrorCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var recorded *domain.AuditLogEntry
	auditSvc := mocks.NewMockAuditService(ctrl)
	auditSvc.EXPECT().Action(gomock.Any(), gomock.Any()).Do(func(_ interface{}, entry *domain.AuditLogEntry) {
		recorded = entry
	})

	router := gin.New()
	router.Use(AuditTrail(auditSvc))
	router.POST("/api/v1/wallet/withdraw", func(c *gin.Context) {
		c.Set(CtxAccountID, "acct_1")
		response.Error(c, apperror.ErrInsufficientFunds())
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/withdraw", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	require.NotNil(t, recorded)
	assert.Equal(t, "wallet.withdraw", recorded.Action)
	assert.Equal(t, domain.AuditResultFailure, recorded.Result)
	assert.Equal(t, "WAL_001", recorded.ErrorCode)
}

func TestAuditTrail_FallsBackToHeaderAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var recorded *domain.AuditLogEntry
	auditSvc := mocks.NewMockAuditService(ctrl)
	auditSvc.EXPECT().Action(gomock.Any(), gomock.Any()).Do(func(_ interface{}, entry *domain.AuditLogEntry) {
		recorded = entry
	})

	router := gin.New()
	router.Use(AuditTrail(auditSvc))
	// Rejected before authentication ever runs, so only the header names
	// the claimed account.
	router.POST("/api/v1/wallet/transfer", func(c *gin.Context) {
		response.Error(c, apperror.ErrSignatureRequired())
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/transfer", nil)
	req.Header.Set(HeaderAccountID, "acct_9")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.NotNil(t, recorded)
	assert.Equal(t, "acct_9", recorded.AccountID)
	assert.Equal(t, "SEC_001", recorded.ErrorCode)
}

func TestAuditTrail_IgnoresUnmappedPaths(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	auditSvc := mocks.NewMockAuditService(ctrl)

	router := gin.New()
	router.Use(AuditTrail(auditSvc))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
