package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditResult marks whether an attempted action succeeded.
type AuditResult string

const (
	AuditResultSuccess AuditResult = "success"
	AuditResultFailure AuditResult = "failure"
)

// AuditLogEntry records one attempted financial or administrative action,
// whether it succeeded or not. The log is append-only.
type AuditLogEntry struct {
	ID        uuid.UUID   `json:"id"`
	AccountID string      `json:"account_id,omitempty"`
	Action    string      `json:"action"`
	Amount    *int64      `json:"amount,omitempty"`
	IPAddress string      `json:"ip_address"`
	UserAgent string      `json:"user_agent,omitempty"`
	Result    AuditResult `json:"result"`
	ErrorCode string      `json:"error_code,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// SecurityEvent identifies an abnormal security-relevant occurrence.
type SecurityEvent string

const (
	EventSignatureRequired SecurityEvent = "signature_required"
	EventInvalidSignature  SecurityEvent = "invalid_signature"
	EventExpiredSignature  SecurityEvent = "expired_signature"
	EventNonceReused       SecurityEvent = "nonce_reused"
	EventRateLimited       SecurityEvent = "rate_limited"
	EventFraudReview       SecurityEvent = "fraud_review"
	EventFraudBlock        SecurityEvent = "fraud_block"
	EventAdminAuthFailed   SecurityEvent = "admin_auth_failed"
)

// SecuritySeverity grades a security event.
type SecuritySeverity string

const (
	SeverityLow    SecuritySeverity = "low"
	SeverityMedium SecuritySeverity = "medium"
	SeverityHigh   SecuritySeverity = "high"
)

// SecurityLogEntry records one abnormal authentication, rate-limit, or
// fraud event. The log is append-only.
type SecurityLogEntry struct {
	ID        uuid.UUID        `json:"id"`
	Event     SecurityEvent    `json:"event"`
	Severity  SecuritySeverity `json:"severity"`
	AccountID string           `json:"account_id,omitempty"`
	IPAddress string           `json:"ip_address"`
	Details   string           `json:"details,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
