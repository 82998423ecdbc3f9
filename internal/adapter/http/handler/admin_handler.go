package handler

import (
	"strconv"
	"time"

	"game-wallet-gateway/internal/adapter/http/dto"
	"game-wallet-gateway/internal/adapter/http/middleware"
	"game-wallet-gateway/internal/core/ports"
	"game-wallet-gateway/pkg/apperror"
	"game-wallet-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles the operator read, search, analytics, and log-query
// endpoints.
type AdminHandler struct {
	adminSvc ports.AdminService
	auditSvc ports.AuditService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc ports.AdminService, auditSvc ports.AuditService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, auditSvc: auditSvc}
}

// PendingTransactions handles GET /api/v1/wallet/admin/pending-transactions.
func (h *AdminHandler) PendingTransactions(c *gin.Context) {
	pending, err := h.adminSvc.PendingApprovals(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ApprovalResponse, 0, len(pending))
	for i := range pending {
		items = append(items, dto.FromApproval(&pending[i]))
	}
	response.OK(c, dto.ListResponse{Items: items, Total: int64(len(items))})
}

// RiskScore handles GET /api/v1/wallet/admin/risk-score/:accountId.
func (h *AdminHandler) RiskScore(c *gin.Context) {
	account := c.Param("accountId")
	if account == "" {
		response.Error(c, apperror.Validation("account id is required"))
		return
	}

	report, err := h.adminSvc.RiskScore(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// BulkDecide handles POST /api/v1/wallet/admin/bulk-approve.
func (h *AdminHandler) BulkDecide(c *gin.Context) {
	var req dto.BulkDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	ids, err := req.Validate()
	if err != nil {
		response.Error(c, err)
		return
	}

	adminID := c.GetString(middleware.CtxAdminID)
	result, err := h.adminSvc.BulkDecide(c.Request.Context(), ids, *req.Approved, adminID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Analytics handles GET /api/v1/wallet/admin/analytics.
func (h *AdminHandler) Analytics(c *gin.Context) {
	period := c.DefaultQuery("period", "all")
	report, err := h.adminSvc.Analytics(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// SearchTransactions handles GET /api/v1/wallet/admin/search-transactions.
func (h *AdminHandler) SearchTransactions(c *gin.Context) {
	params := ports.TransactionSearchParams{
		Account: c.Query("account"),
		Type:    c.Query("type"),
	}
	if raw := c.Query("min_amount"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, apperror.Validation("min_amount must be an integer"))
			return
		}
		params.MinAmount = &v
	}
	if raw := c.Query("max_amount"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, apperror.Validation("max_amount must be an integer"))
			return
		}
		params.MaxAmount = &v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			response.Error(c, apperror.Validation("limit must be a non-negative integer"))
			return
		}
		params.Limit = v
	}

	txs, err := h.adminSvc.SearchTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		items = append(items, dto.FromTransaction(&txs[i]))
	}
	response.OK(c, dto.ListResponse{Items: items, Total: int64(len(items))})
}

// parseTimeRange reads the optional from/to RFC3339 query parameters.
func parseTimeRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, apperror.Validation("from must be RFC3339")
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, apperror.Validation("to must be RFC3339")
		}
		to = &t
	}
	return from, to, nil
}

func parsePagination(c *gin.Context) (int, int, error) {
	limit := 50
	offset := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, apperror.Validation("limit must be a non-negative integer")
		}
		limit = v
	}
	if raw := c.Query("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, apperror.Validation("offset must be a non-negative integer")
		}
		offset = v
	}
	return limit, offset, nil
}

// AuditLogs handles GET /api/v1/wallet/audit-logs.
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	from, to, err := parseTimeRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	limit, offset, err := parsePagination(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	q := ports.AuditQuery{
		AccountID: c.Query("account"),
		Action:    c.Query("action"),
		From:      from,
		To:        to,
		Limit:     limit,
		Offset:    offset,
	}
	if raw := c.Query("min_amount"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, apperror.Validation("min_amount must be an integer"))
			return
		}
		q.MinAmount = &v
	}
	if raw := c.Query("max_amount"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, apperror.Validation("max_amount must be an integer"))
			return
		}
		q.MaxAmount = &v
	}

	entries, total, err := h.auditSvc.SearchAudit(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ListResponse{Items: entries, Total: total})
}

// SecurityLogs handles GET /api/v1/wallet/security-logs.
func (h *AdminHandler) SecurityLogs(c *gin.Context) {
	from, to, err := parseTimeRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	limit, offset, err := parsePagination(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	entries, total, err := h.auditSvc.SearchSecurity(c.Request.Context(), ports.SecurityQuery{
		AccountID: c.Query("account"),
		Event:     c.Query("event"),
		Severity:  c.Query("severity"),
		From:      from,
		To:        to,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ListResponse{Items: entries, Total: total})
}
