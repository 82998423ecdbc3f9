package handler

import (
	"game-wallet-gateway/internal/adapter/http/dto"
	"game-wallet-gateway/internal/adapter/http/middleware"
	"game-wallet-gateway/internal/core/ports"
	"game-wallet-gateway/pkg/apperror"
	"game-wallet-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ApprovalHandler handles the approval-status poll and the administrative
// decision endpoint.
type ApprovalHandler struct {
	approvalSvc ports.ApprovalService
}

// NewApprovalHandler creates a new ApprovalHandler.
func NewApprovalHandler(approvalSvc ports.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalSvc: approvalSvc}
}

// Status handles GET /api/v1/wallet/approval-status. The caller polls this
// after receiving a 202; an overdue pending request expires at read time.
func (h *ApprovalHandler) Status(c *gin.Context) {
	raw := c.Query("approvalId")
	if raw == "" {
		response.Error(c, apperror.Validation("approvalId query parameter is required"))
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(c, apperror.Validation("approvalId must be a valid uuid"))
		return
	}

	req, err := h.approvalSvc.Status(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromApproval(req))
}

// Decide handles POST /api/v1/wallet/approve-transaction.
func (h *ApprovalHandler) Decide(c *gin.Context) {
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	id, err := req.Validate()
	if err != nil {
		response.Error(c, err)
		return
	}

	adminID := c.GetString(middleware.CtxAdminID)
	decided, err := h.approvalSvc.Decide(c.Request.Context(), id, *req.Approved, adminID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromApproval(decided))
}
