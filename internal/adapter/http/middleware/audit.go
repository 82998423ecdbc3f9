package middleware

import (
	"strings"

	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"
	"game-wallet-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuditTrail records one audit entry per attempted action, whether it
// succeeded, failed validation, was blocked, or was deferred for approval.
// It runs after the handler chain so it sees the final status and the
// error code recorded by the response package.
func AuditTrail(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		action := mapPathToAction(c.Request.URL.Path, c.Request.Method)
		if action == "" {
			return
		}

		accountID := c.GetString(CtxAccountID)
		if accountID == "" {
			accountID = c.GetHeader(HeaderAccountID)
		}

		status := c.Writer.Status()
		result := domain.AuditResultSuccess
		if status >= 400 {
			result = domain.AuditResultFailure
		}

		var amount *int64
		if v, exists := c.Get(CtxAuditAmount); exists {
			if a, ok := v.(int64); ok {
				amount = &a
			}
		}

		auditSvc.Action(c.Request.Context(), &domain.AuditLogEntry{
			AccountID: accountID,
			Action:    action,
			Amount:    amount,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Result:    result,
			ErrorCode: c.GetString(response.CtxErrorCode),
		})
	}
}

func mapPathToAction(path, method string) string {
	switch {
	case strings.HasPrefix(path, "/api/v1/wallet/deposit") && method == "POST":
		return "wallet.deposit"
	case strings.HasPrefix(path, "/api/v1/wallet/withdraw") && method == "POST":
		return "wallet.withdraw"
	case strings.HasPrefix(path, "/api/v1/wallet/transfer") && method == "POST":
		return "wallet.transfer"
	case strings.HasPrefix(path, "/api/v1/wallet/buy-in") && method == "POST":
		return "wallet.buy_in"
	case strings.HasPrefix(path, "/api/v1/wallet/cash-out") && method == "POST":
		return "wallet.cash_out"
	case strings.HasPrefix(path, "/api/v1/wallet/settle") && method == "POST":
		return "wallet.settle"
	case strings.HasPrefix(path, "/api/v1/wallet/approve-transaction") && method == "POST":
		return "approval.decide"
	case strings.HasPrefix(path, "/api/v1/wallet/admin/bulk-approve") && method == "POST":
		return "approval.bulk_decide"
	case strings.HasPrefix(path, "/api/v1/auth/login") && method == "POST":
		return "auth.login"
	}
	return ""
}
