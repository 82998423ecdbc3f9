package handler

import (
	"strconv"

	"game-wallet-gateway/internal/adapter/http/dto"
	"game-wallet-gateway/internal/adapter/http/middleware"
	"game-wallet-gateway/internal/core/ports"
	"game-wallet-gateway/pkg/apperror"
	"game-wallet-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles the signed wallet movement and read endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// accountID pulls the authenticated account from the request context.
func accountID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.CtxAccountID)
	if id == "" {
		response.Error(c, apperror.ErrSignatureRequired())
		return "", false
	}
	return id, true
}

// respond renders a movement result: 200 for a committed transaction,
// 202 when the movement was parked in the approval queue.
func respond(c *gin.Context, res *ports.MovementResult) {
	body, pending := dto.MovementResponse(res)
	if pending {
		response.Accepted(c, body)
		return
	}
	response.OK(c, body)
}

// Deposit handles POST /api/v1/wallet/deposit.
func (h *WalletHandler) Deposit(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.CtxAuditAmount, req.Amount)

	res, err := h.walletSvc.Deposit(c.Request.Context(), ports.MovementRequest{
		AccountID:   account,
		Amount:      req.Amount,
		Method:      req.Method,
		Description: req.Description,
		Context:     middleware.RequestCtx(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, res)
}

// Withdraw handles POST /api/v1/wallet/withdraw.
func (h *WalletHandler) Withdraw(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.CtxAuditAmount, req.Amount)

	res, err := h.walletSvc.Withdraw(c.Request.Context(), ports.MovementRequest{
		AccountID:   account,
		Amount:      req.Amount,
		Method:      req.Method,
		Description: req.Description,
		Context:     middleware.RequestCtx(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, res)
}

// Transfer handles POST /api/v1/wallet/transfer.
func (h *WalletHandler) Transfer(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.CtxAuditAmount, req.Amount)

	res, err := h.walletSvc.Transfer(c.Request.Context(), ports.MovementRequest{
		AccountID:   account,
		Amount:      req.Amount,
		ToAccountID: req.ToAccountID,
		Description: req.Description,
		Context:     middleware.RequestCtx(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, res)
}

// BuyIn handles POST /api/v1/wallet/buy-in.
func (h *WalletHandler) BuyIn(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		return
	}

	var req dto.BuyInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.CtxAuditAmount, req.Amount)

	res, err := h.walletSvc.BuyIn(c.Request.Context(), ports.MovementRequest{
		AccountID: account,
		Amount:    req.Amount,
		TableID:   req.TableID,
		Context:   middleware.RequestCtx(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, res)
}

// CashOut handles POST /api/v1/wallet/cash-out.
func (h *WalletHandler) CashOut(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		return
	}

	var req dto.CashOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.walletSvc.CashOut(c.Request.Context(), ports.MovementRequest{
		AccountID: account,
		TableID:   req.TableID,
		Context:   middleware.RequestCtx(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, res)
}

// Settle handles POST /api/v1/wallet/settle.
func (h *WalletHandler) Settle(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		return
	}

	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.CtxAuditAmount, req.Amount)

	res, err := h.walletSvc.Settle(c.Request.Context(), ports.MovementRequest{
		AccountID:   account,
		Amount:      req.Amount,
		Outcome:     req.Outcome,
		TableID:     req.TableID,
		HandID:      req.HandID,
		Description: req.Description,
		Context:     middleware.RequestCtx(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, res)
}

// Balance handles GET /api/v1/wallet/admin/balance/:accountId.
func (h *WalletHandler) Balance(c *gin.Context) {
	account := c.Param("accountId")
	if account == "" {
		response.Error(c, apperror.Validation("account id is required"))
		return
	}

	w, err := h.walletSvc.Balance(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromWallet(w))
}

// History handles GET /api/v1/wallet/admin/history/:accountId.
func (h *WalletHandler) History(c *gin.Context) {
	account := c.Param("accountId")
	if account == "" {
		response.Error(c, apperror.Validation("account id is required"))
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		response.Error(c, apperror.Validation("limit must be a non-negative integer"))
		return
	}

	txs, err := h.walletSvc.History(c.Request.Context(), account, limit)
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
