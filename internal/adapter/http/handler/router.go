package handler

import (
	"time"

	"game-wallet-gateway/internal/adapter/http/middleware"
	"game-wallet-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc   ports.WalletService
	ApprovalSvc ports.ApprovalService
	AdminSvc    ports.AdminService
	AuthSvc     ports.AuthService
	AuditSvc    ports.AuditService
	SigSvc      ports.SignatureService
	TokenSvc    ports.TokenService
	NonceStore  ports.NonceStore

	HMACSecret      string
	TimestampWindow time.Duration
	NonceTTL        time.Duration

	RateWindows ports.SlidingWindow // nil = rate limiting disabled
	RateRules   middleware.RateLimitRules

	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// One audit entry per attempted action, success or failure.
	r.Use(middleware.AuditTrail(deps.AuditSvc))

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Helper: rate limiter for one operation class, noop when disabled.
	rl := func(class string) gin.HandlerFunc {
		if deps.RateWindows == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateWindows, deps.AuditSvc, class, deps.RateRules, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Public routes ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	v1.POST("/auth/login", rl("generic"), authHandler.Login)

	approvalHandler := NewApprovalHandler(deps.ApprovalSvc)
	// The 202 poll endpoint carries no account secret and stays public.
	v1.GET("/wallet/approval-status", approvalHandler.Status)

	// --- Signed wallet movements (game server API) ---
	hmacAuth := middleware.HMACAuth(
		deps.HMACSecret,
		deps.SigSvc,
		deps.NonceStore,
		deps.AuditSvc,
		deps.TimestampWindow,
		deps.NonceTTL,
		deps.Logger,
	)
	walletHandler := NewWalletHandler(deps.WalletSvc)
	wallet := v1.Group("/wallet", hmacAuth)
	{
		wallet.POST("/deposit", rl("deposit"), walletHandler.Deposit)
		wallet.POST("/withdraw", rl("withdraw"), walletHandler.Withdraw)
		wallet.POST("/transfer", rl("transfer"), walletHandler.Transfer)
		wallet.POST("/buy-in", rl("generic"), walletHandler.BuyIn)
		wallet.POST("/cash-out", rl("generic"), walletHandler.CashOut)
		wallet.POST("/settle", rl("generic"), walletHandler.Settle)
	}

	// --- Administrative routes (JWT) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.AuditSvc, deps.Logger)
	adminHandler := NewAdminHandler(deps.AdminSvc, deps.AuditSvc)

	v1.POST("/wallet/approve-transaction", jwtAuth, approvalHandler.Decide)
	v1.GET("/wallet/audit-logs", jwtAuth, adminHandler.AuditLogs)
	v1.GET("/wallet/security-logs", jwtAuth, adminHandler.SecurityLogs)

	admin := v1.Group("/wallet/admin", jwtAuth)
	{
		admin.GET("/pending-transactions", adminHandler.PendingTransactions)
		admin.GET("/risk-score/:accountId", adminHandler.RiskScore)
		admin.POST("/bulk-approve", adminHandler.BulkDecide)
		admin.GET("/analytics", adminHandler.Analytics)
		admin.GET("/search-transactions", adminHandler.SearchTransactions)
		admin.GET("/balance/:accountId", walletHandler.Balance)
		admin.GET("/history/:accountId", walletHandler.History)
	}

	return r
}
