package middleware

import (
	"strconv"
	"time"

	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"
	"game-wallet-gateway/pkg/apperror"
	"game-wallet-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitRules holds the per-class and global per-account budgets. The
// classes are separate, non-interacting counters: exhausting the deposit
// budget never blocks a withdrawal.
type RateLimitRules struct {
	Window   time.Duration
	Deposit  int64
	Withdraw int64
	Transfer int64
	Generic  int64
	Global   int64
}

func (r RateLimitRules) classLimit(class string) int64 {
	switch class {
	case "deposit":
		return r.Deposit
	case "withdraw":
		return r.Withdraw
	case "transfer":
		return r.Transfer
	}
	return r.Generic
}

// RateLimiter enforces the sliding-window budget for one operation class
// plus the account's global budget. Timestamps are only recorded for
// requests that pass both checks, so rejected requests never consume
// budget.
func RateLimiter(windows ports.SlidingWindow, auditSvc ports.AuditService, class string, rules RateLimitRules, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := c.GetHeader(HeaderAccountID)
		if accountID == "" {
			accountID = c.ClientIP()
		}

		classKey := accountID + ":" + class
		globalKey := accountID + ":global"
		limit := rules.classLimit(class)

		classCount, classOldest, err := windows.Count(c.Request.Context(), classKey, rules.Window)
		if err != nil {
			log.Warn().Err(err).Str("class", class).Msg("rate limit check failed, allowing request")
			c.Next()
			return
		}
		globalCount, globalOldest, err := windows.Count(c.Request.Context(), globalKey, rules.Window)
		if err != nil {
			log.Warn().Err(err).Str("class", class).Msg("rate limit check failed, allowing request")
			c.Next()
			return
		}

		remaining := limit - classCount
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		exceeded := classCount >= limit
		oldest := classOldest
		if !exceeded && globalCount >= rules.Global {
			exceeded = true
			oldest = globalOldest
		}

		if exceeded {
			retryAfter := int64(1)
			if !oldest.IsZero() {
				secs := int64((rules.Window - time.Since(oldest)).Seconds())
				if secs > retryAfter {
					retryAfter = secs
				}
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))

			auditSvc.Security(c.Request.Context(), &domain.SecurityLogEntry{
				AccountID: accountID,
				Event:     domain.EventRateLimited,
				Severity:  domain.SeverityLow,
				IPAddress: c.ClientIP(),
				Details:   class,
			})
			response.Error(c, apperror.ErrRateLimitExceeded(retryAfter))
			c.Abort()
			return
		}

		now := time.Now()
		if err := windows.Record(c.Request.Context(), classKey, now, rules.Window); err != nil {
			log.Warn().Err(err).Msg("failed to record rate limit event")
		}
		if err := windows.Record(c.Request.Context(), globalKey, now, rules.Window); err != nil {
			log.Warn().Err(err).Msg("failed to record rate limit event")
		}

		c.Next()
	}
}
