// Package dto holds the JSON shapes of the stoic-quote HTTP API and the
// mapping from domain errors to error envelopes.
package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/stoic-quote/internal/domain"
	"github.com/jsamuelsen/stoic-quote/internal/platform/logging"
)

// ErrorResponse is the envelope for every non-2xx response.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail is the machine- and human-readable error.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

const (
	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrorCodeConflict         = "CONFLICT"
	ErrorCodeValidation       = "VALIDATION_ERROR"
	ErrorCodeBadRequest       = "BAD_REQUEST"
	ErrorCodeUnavailable      = "SERVICE_UNAVAILABLE"
	ErrorCodeTimeout          = "TIMEOUT"
	ErrorCodeCanceled         = "CANCELED"
	ErrorCodeInternal         = "INTERNAL_ERROR"
)

// StatusClientClosedRequest reports a caller that disconnected before the
// response was ready. net/http has no name for it.
const StatusClientClosedRequest = 499

// NewErrorResponse creates an envelope with code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// WithTraceID sets the trace ID and returns e.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps an error code to its HTTP status.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrorCodeCanceled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// MapDomainError maps err to a status and envelope. Unknown errors become a
// 500 with a generic message. Fetch failures never reach here: they are
// part of the returned state, not an API error.
func MapDomainError(err error) (int, *ErrorResponse) {
	switch {
	case domain.IsFetchInProgress(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())
	case domain.IsClipboardUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, "clipboard unavailable")
	case errors.Is(err, domain.ErrClosed):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, "service is shutting down")
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewErrorResponse(ErrorCodeTimeout, "quote fetch did not settle in time")
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, NewErrorResponse(ErrorCodeCanceled, "request canceled")
	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}
}

// TraceIDFromContext returns the active trace ID, or "".
func TraceIDFromContext(ctx context.Context) string {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

// HandleError writes the envelope for err. Internal errors are logged with
// their full text, which is never sent to the caller.
func HandleError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	status, resp := MapDomainError(err)
	resp.WithTraceID(TraceIDFromContext(ctx))

	switch status {
	case http.StatusInternalServerError:
		logging.FromContext(ctx).ErrorContext(ctx, "internal error",
			slog.Any("error", err),
			slog.String("trace_id", resp.TraceID),
		)
	case StatusClientClosedRequest:
		logging.FromContext(ctx).DebugContext(ctx, "client went away before the fetch settled")
	}

	c.AbortWithStatusJSON(status, resp)
}

// HandleErrorCode writes an envelope for an adapter-level error code.
func HandleErrorCode(c *gin.Context, code, message string) {
	resp := NewErrorResponse(code, message).WithTraceID(TraceIDFromContext(c.Request.Context()))
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), resp)
}

// HandleBindError writes a 400 for a failed BindQueryAndValidate.
func HandleBindError(c *gin.Context, err error) {
	resp := NewErrorResponse(ErrorCodeBadRequest, "invalid query parameters")
	if errors.Is(err, ErrValidation) {
		resp = NewErrorResponse(ErrorCodeValidation, "request validation failed")
		resp.Error.Details = ValidationErrors(err)
	}

	resp.WithTraceID(TraceIDFromContext(c.Request.Context()))
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}
