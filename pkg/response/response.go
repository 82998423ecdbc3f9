package response

import (
	"errors"
	"net/http"
	"time"

	"game-wallet-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxErrorCode is the gin context key under which Error records the
// error code of a failed request, for the audit trail middleware.
const CtxErrorCode = "error_code"

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	ErrorCode   string `json:"error_code"`
	Message     string `json:"message"`
	FraudReason string `json:"fraud_reason,omitempty"`
	RetryAfter  string `json:"retry_after,omitempty"`
	RequestID   string `json:"request_id"`
	Timestamp   string `json:"timestamp"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data:      data,
		RequestID: getRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Accepted sends a 202 response, used for movements deferred to the
// approval workflow.
func Accepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, SuccessResponse{
		Data:      data,
		RequestID: getRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it accordingly, otherwise returns 500. The error code is also
// recorded on the gin context so the audit middleware can pick it up.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.Set(CtxErrorCode, appErr.Code)
		c.JSON(appErr.HTTPStatus, ErrorResponse{
			ErrorCode:   appErr.Code,
			Message:     appErr.Message,
			FraudReason: appErr.Meta["fraud_reason"],
			RetryAfter:  appErr.Meta["retry_after"],
			RequestID:   getRequestID(c),
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	// Unknown error -> 500
	c.Set(CtxErrorCode, "SYS_000")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		ErrorCode: "SYS_000",
		Message:   "Internal server error",
		RequestID: getRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// getRequestID retrieves request ID from context, or generates one.
func getRequestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
