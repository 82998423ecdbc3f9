package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string            `json:"error_code"`
	Message    string            `json:"message"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"` // Wrapped internal error (not exposed to client)
	Meta       map[string]string `json:"-"` // Extra machine-readable fields for the envelope
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithMeta attaches a machine-readable key/value to the error envelope.
func (e *AppError) WithMeta(key, value string) *AppError {
	if e.Meta == nil {
		e.Meta = make(map[string]string)
	}
	e.Meta[key] = value
	return e
}

// FromError extracts an AppError from an error chain.
func FromError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Request authentication (SEC) ----

func ErrSignatureRequired() *AppError {
	return New("SEC_001", "Signature required", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Request timestamp expired", http.StatusUnauthorized)
}

func ErrNonceUsed() *AppError {
	return New("SEC_004", "Nonce has already been used", http.StatusUnauthorized)
}

// ---- Wallet business logic (WAL) ----

func ErrInsufficientFunds() *AppError {
	return New("WAL_001", "Insufficient available balance", http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New("WAL_002", "Invalid amount", http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("WAL_003", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrBuyInOpen(tableID string) *AppError {
	return New("WAL_004", fmt.Sprintf("buy-in already open for table %s", tableID), http.StatusConflict)
}

func ErrNoOpenBuyIn(tableID string) *AppError {
	return New("WAL_005", fmt.Sprintf("no open buy-in for table %s", tableID), http.StatusNotFound)
}

func ErrSelfTransfer() *AppError {
	return New("WAL_006", "Cannot transfer to the same account", http.StatusBadRequest)
}

// Validation returns a WAL_002-style validation error with a custom message.
func Validation(message string) *AppError {
	return New("WAL_002", message, http.StatusBadRequest)
}

// ---- Fraud decisions (FRAUD) ----

func ErrFraudReview(reason string) *AppError {
	return New("FRAUD_001", "Transaction requires manual review", http.StatusForbidden).
		WithMeta("fraud_reason", reason)
}

func ErrFraudBlocked(reason string) *AppError {
	return New("FRAUD_002", "Transaction blocked", http.StatusForbidden).
		WithMeta("fraud_reason", reason)
}

// ---- Approval workflow (APPR) ----

func ErrApprovalNotFound() *AppError {
	return New("APPR_001", "Approval request not found", http.StatusNotFound)
}

func ErrApprovalExpired() *AppError {
	return New("APPR_002", "Approval request has expired", http.StatusGone)
}

func ErrApprovalDecided() *AppError {
	return New("APPR_003", "Approval request already decided", http.StatusConflict)
}

// ---- Rate limiting (RATE) ----

func ErrRateLimitExceeded(retryAfterSec int64) *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests).
		WithMeta("retry_after", fmt.Sprintf("%d", retryAfterSec))
}

// ---- Administrative authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- System & infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// StorageError wraps a key-value or database failure.
func StorageError(err error) *AppError {
	return Wrap("SYS_002", "Internal storage error", http.StatusInternalServerError, err)
}
