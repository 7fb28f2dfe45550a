// Package api provides error handling utilities for HTTP APIs
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mantonx/cinelist/internal/logger"
	"github.com/mantonx/cinelist/internal/types"
)

// Request id lookup keys shared with the request id middleware
const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Error   ErrorDetails `json:"error"`
	Success bool         `json:"success"`
}

// ErrorDetails contains detailed error information
type ErrorDetails struct {
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	UserMessage string                 `json:"user_message,omitempty"`
	Retryable   bool                   `json:"retryable"`
	RetryAfter  int                    `json:"retry_after,omitempty"` // seconds
	Context     map[string]interface{} `json:"context,omitempty"`
	RequestID   string                 `json:"request_id,omitempty"`
}

// RespondWithError sends a structured error response. Errors that are not
// AppErrors are reported as internal errors, except context expiry.
func RespondWithError(c *gin.Context, err error) {
	requestID := c.GetString(RequestIDKey)
	if requestID == "" {
		requestID = c.GetHeader(RequestIDHeader)
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		appErr = classify(err)
	}
	if appErr.RequestID == "" {
		appErr.WithRequestID(requestID)
	}

	response := ErrorResponse{
		Success: false,
		Error: ErrorDetails{
			Code:        string(appErr.Code),
			Message:     appErr.Message,
			Details:     appErr.Details,
			UserMessage: appErr.UserMessage,
			Retryable:   appErr.Retryable,
			Context:     appErr.Context,
			RequestID:   appErr.RequestID,
		},
	}

	if appErr.RetryAfter != nil {
		seconds := int(appErr.RetryAfter.Seconds())
		response.Error.RetryAfter = seconds
		c.Header("Retry-After", strconv.Itoa(seconds))
	}

	logError(appErr)

	status := appErr.HTTPStatus
	if status == 0 {
		status = types.HTTPStatusFromErrorCode(appErr.Code)
	}
	c.AbortWithStatusJSON(status, response)
}

func classify(err error) *types.AppError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return types.NewAppErrorWithCause(types.ErrorCodeTimeout, "request timed out", http.StatusGatewayTimeout, err)
	case errors.Is(err, context.Canceled):
		return types.NewAppErrorWithCause(types.ErrorCodeCancelled, "request cancelled", http.StatusRequestTimeout, err)
	default:
		return types.NewInternalError(err.Error(), err)
	}
}

// RespondWithValidationError sends a validation error response
func RespondWithValidationError(c *gin.Context, message string, details ...string) {
	RespondWithError(c, types.NewValidationError(message, details...))
}

// RespondWithNotFound sends a not found error response
func RespondWithNotFound(c *gin.Context, resource string, id string) {
	RespondWithError(c, types.NewNotFoundError(resource, id))
}

// logError logs the error with appropriate severity
func logError(err *types.AppError) {
	fields := []interface{}{
		"error_code", err.Code,
		"error_message", err.Message,
		"request_id", err.RequestID,
	}

	if err.Details != "" {
		fields = append(fields, "details", err.Details)
	}

	for k, v := range err.Context {
		fields = append(fields, k, v)
	}

	if err.Cause != nil {
		fields = append(fields, "cause", err.Cause.Error())
	}

	switch err.Severity {
	case types.SeverityCritical, types.SeverityError:
		logger.Error("request failed", fields...)
	case types.SeverityWarning:
		logger.Warn("request rejected", fields...)
	default:
		logger.Debug("request error", fields...)
	}
}

// ErrorMiddleware recovers from panics and answers with a 500 envelope
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				var err error
				switch v := r.(type) {
				case error:
					err = v
				case string:
					err = errors.New(v)
				default:
					err = fmt.Errorf("panic: %v", v)
				}

				logger.Error("panic recovered",
					"error", err,
					"request_path", c.Request.URL.Path,
					"request_method", c.Request.Method,
				)

				RespondWithError(c, types.NewInternalError("panic recovered", err))
			}
		}()

		c.Next()
	}
}
