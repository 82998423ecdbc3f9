package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"time"

	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"
	"game-wallet-gateway/pkg/apperror"
	"game-wallet-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	// Header names for signed wallet requests
	HeaderAccountID   = "X-Account-ID"
	HeaderSignature   = "X-Signature"
	HeaderTimestamp   = "X-Timestamp"
	HeaderNonce       = "X-Nonce"
	HeaderCountryCode = "X-Country-Code"

	// Context keys
	CtxAccountID   = "account_id"
	CtxCountryCode = "country_code"
	CtxAdminID     = "admin_id"
	CtxAuditAmount = "audit_amount"
)

// RequestCtx builds the per-request metadata handed to the fraud engine and
// the audit trail.
func RequestCtx(c *gin.Context) ports.RequestContext {
	return ports.RequestContext{
		IP:          c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		CountryCode: c.GetString(CtxCountryCode),
	}
}

// HMACAuth verifies signed wallet requests. Checks run in a fixed order so
// the caller always gets the first failing reason: presence, timestamp
// freshness, nonce uniqueness, then the signature itself. Every rejection
// is recorded as a security event.
func HMACAuth(
	secret string,
	sigSvc ports.SignatureService,
	nonceStore ports.NonceStore,
	auditSvc ports.AuditService,
	timestampWindow time.Duration,
	nonceTTL time.Duration,
	log zerolog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := c.GetHeader(HeaderAccountID)
		signature := c.GetHeader(HeaderSignature)
		timestampStr := c.GetHeader(HeaderTimestamp)
		nonce := c.GetHeader(HeaderNonce)

		security := func(event domain.SecurityEvent, severity domain.SecuritySeverity, details string) {
			auditSvc.Security(c.Request.Context(), &domain.SecurityLogEntry{
				AccountID: accountID,
				Event:     event,
				Severity:  severity,
				IPAddress: c.ClientIP(),
				Details:   details,
			})
		}

		if accountID == "" || signature == "" || timestampStr == "" || nonce == "" {
			security(domain.EventSignatureRequired, domain.SeverityMedium, "missing authentication headers")
			response.Error(c, apperror.ErrSignatureRequired())
			c.Abort()
			return
		}

		// Step 1: timestamp freshness, epoch milliseconds.
		timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
		if err != nil {
			security(domain.EventExpiredSignature, domain.SeverityMedium, "unparseable timestamp")
			response.Error(c, apperror.ErrTimestampExpired())
			c.Abort()
			return
		}
		drift := time.Since(time.UnixMilli(timestamp))
		if drift < 0 {
			drift = -drift
		}
		if drift > timestampWindow {
			security(domain.EventExpiredSignature, domain.SeverityMedium, "timestamp outside freshness window")
			response.Error(c, apperror.ErrTimestampExpired())
			c.Abort()
			return
		}

		// Step 2: nonce uniqueness per account.
		isNew, err := nonceStore.CheckAndSet(c.Request.Context(), accountID, nonce, nonceTTL)
		if err != nil {
			log.Error().Err(err).Msg("nonce store error")
			response.Error(c, apperror.StorageError(err))
			c.Abort()
			return
		}
		if !isNew {
			security(domain.EventNonceReused, domain.SeverityHigh, "nonce replayed")
			response.Error(c, apperror.ErrNonceUsed())
			c.Abort()
			return
		}

		// Step 3: signature verification over the canonical string.
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, apperror.Validation("cannot read request body"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		canonical := sigSvc.BuildCanonicalString(
			c.Request.Method,
			c.Request.URL.Path,
			timestamp,
			nonce,
			string(bodyBytes),
		)
		if !sigSvc.Verify(secret, canonical, signature) {
			security(domain.EventInvalidSignature, domain.SeverityHigh, "signature mismatch")
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		c.Set(CtxAccountID, accountID)
		if cc := c.GetHeader(HeaderCountryCode); cc != "" {
			c.Set(CtxCountryCode, cc)
		}
		c.Next()
	}
}

// JWTAuth validates the administrative bearer token.
func JWTAuth(tokenSvc ports.TokenService, auditSvc ports.AuditService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			auditSvc.Security(c.Request.Context(), &domain.SecurityLogEntry{
				Event:     domain.EventAdminAuthFailed,
				Severity:  domain.SeverityMedium,
				IPAddress: c.ClientIP(),
				Details:   "missing bearer token",
			})
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		claims, err := tokenSvc.Validate(authHeader[7:])
		if err != nil {
			auditSvc.Security(c.Request.Context(), &domain.SecurityLogEntry{
				Event:     domain.EventAdminAuthFailed,
				Severity:  domain.SeverityMedium,
				IPAddress: c.ClientIP(),
				Details:   "token validation failed",
			})
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		c.Set(CtxAdminID, claims.AdminID)
		c.Next()
	}
}

// RequestLogger logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
