package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"game-wallet-gateway/config"
	httpHandler "game-wallet-gateway/internal/adapter/http/handler"
	"game-wallet-gateway/internal/adapter/http/middleware"
	pgStorage "game-wallet-gateway/internal/adapter/storage/postgres"
	redisStorage "game-wallet-gateway/internal/adapter/storage/redis"
	"game-wallet-gateway/internal/core/ports"
	"game-wallet-gateway/internal/service"
	"game-wallet-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Game Wallet Gateway")

	if cfg.Security.HMACSecret == "" {
		log.Fatal().Msg("security.hmac_secret must be configured")
	}
	if cfg.Admin.Password == "" || cfg.Admin.JWTSecret == "" {
		log.Fatal().Msg("admin.password and admin.jwt_secret must be configured")
	}

	ctx := context.Background()

	// Initialize PostgreSQL pool (audit and security trails)
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client (account records, nonces, approvals, windows)
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize stores
	accountStore := redisStorage.NewAccountStore(rdb)
	approvalStore := redisStorage.NewApprovalStore(rdb)
	nonceStore := redisStorage.NewNonceStore(rdb)
	rateWindows := redisStorage.NewWindowStore(rdb, "rate:")
	failureWindows := redisStorage.NewWindowStore(rdb, "failures:")
	auditRepo := pgStorage.NewAuditRepo(pool)
	securityRepo := pgStorage.NewSecurityRepo(pool)

	// Initialize core services
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.Admin.JWTSecret, cfg.Admin.JWTExpiry, cfg.Admin.JWTIssuer)

	authSvc, err := service.NewAuthService(cfg.Admin.Username, cfg.Admin.Password, hashSvc, tokenSvc, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize auth service")
	}

	// Initialize business services
	auditSvc := service.NewAuditService(auditRepo, securityRepo, log)
	ledgerSvc := service.NewLedgerService(accountStore, cfg.Wallet.Currency, cfg.Wallet.InitialBalance, cfg.Wallet.HistoryCap, log)
	fraudEngine := service.NewFraudEngine(ledgerSvc, failureWindows, service.FraudConfig{
		UnusualAmountThreshold: cfg.Fraud.UnusualAmountThreshold,
		RapidTransactionCount:  int64(cfg.Fraud.RapidTransactionCount),
		RapidTransactionWindow: cfg.Fraud.RapidTransactionWindow,
		FailedAttemptCount:     int64(cfg.Fraud.FailedAttemptCount),
		FailedAttemptWindow:    cfg.Fraud.FailedAttemptWindow,
		GeoAnomalyWindow:       cfg.Fraud.GeoAnomalyWindow,
	}, log)
	approvalSvc := service.NewApprovalService(approvalStore, ledgerSvc, cfg.Approval.Timeout, log)
	walletSvc := service.NewWalletService(ledgerSvc, fraudEngine, approvalSvc, auditSvc, cfg.Approval.LargeAmountThreshold, log)
	adminSvc := service.NewAdminService(approvalSvc, fraudEngine, accountStore, auditSvc, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:       walletSvc,
		ApprovalSvc:     approvalSvc,
		AdminSvc:        adminSvc,
		AuthSvc:         authSvc,
		AuditSvc:        auditSvc,
		SigSvc:          sigSvc,
		TokenSvc:        tokenSvc,
		NonceStore:      nonceStore,
		HMACSecret:      cfg.Security.HMACSecret,
		TimestampWindow: cfg.Security.TimestampWindow,
		NonceTTL:        cfg.Security.NonceTTL,
		RateWindows:     rateWindows,
		RateRules: middleware.RateLimitRules{
			Window:   cfg.RateLimit.Window,
			Deposit:  cfg.RateLimit.DepositLimit,
			Withdraw: cfg.RateLimit.WithdrawLimit,
			Transfer: cfg.RateLimit.TransferLimit,
			Generic:  cfg.RateLimit.GenericLimit,
			Global:   cfg.RateLimit.GlobalLimit,
		},
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// Background sweep for overdue approval requests. Expiry is also
	// enforced lazily at read time, so the sweep only bounds staleness.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(cfg.Approval.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if _, err := approvalSvc.Sweep(sweepCtx); err != nil {
					log.Error().Err(err).Msg("approval sweep failed")
				}
			}
		}
	}()

	// HTTP server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
