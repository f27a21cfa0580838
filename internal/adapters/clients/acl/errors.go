package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/jsamuelsen/stoic-quote/internal/adapters/clients"
	"github.com/jsamuelsen/stoic-quote/internal/domain"
)

// maxErrorBody caps how much of an error response is read for a message.
const maxErrorBody = 4 << 10

// ErrorResponse is the error body some upstreams return. Both the nested
// {"error":{"message":...}} and the flat {"message":...} shapes are accepted.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail is the nested form of an upstream error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetMessage returns whichever message form was populated.
func (e *ErrorResponse) GetMessage() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}
	return e.Message
}

// ParseErrorResponse decodes an error body, returning nil when the body is
// empty, not JSON, or carries no message.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&errResp); err != nil {
		return nil
	}
	if errResp.GetMessage() == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError folds a failed call into a domain.FetchError. clientErr wins
// when set; otherwise resp must be a non-2xx response, whose body is read
// for a message but not closed.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewFetchError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	message := defaultMessageForStatus(resp.StatusCode)
	if errResp := ParseErrorResponse(resp.Body); errResp != nil {
		message = errResp.GetMessage()
	}

	return domain.NewFetchStatusError(serviceName, resp.StatusCode, message)
}

func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewFetchError(serviceName, "upstream unavailable (circuit open)")
	case isTimeout(err):
		return domain.NewFetchError(serviceName, operation+" timed out")
	case errors.Is(err, context.Canceled):
		return domain.NewFetchError(serviceName, operation+" canceled")
	default:
		return domain.NewFetchError(serviceName, fmt.Sprintf("%s failed: %v", operation, err))
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// defaultMessageForStatus is used when the upstream sent no error message.
func defaultMessageForStatus(status int) string {
	switch status {
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	}

	if text := http.StatusText(status); text != "" {
		return strings.ToLower(text)
	}
	return "unexpected status"
}
