package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// Domain errors describe what went wrong for the quote display, not how the
// failure surfaced on the wire. Adapters map them to HTTP or terminal output.
var (
	// ErrFetchFailed indicates the quote could not be obtained from upstream.
	// Connectivity errors, non-success statuses and malformed bodies all
	// collapse into this one kind.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrFetchInProgress indicates a refresh was rejected because another
	// fetch is still in flight.
	ErrFetchInProgress = errors.New("fetch already in progress")

	// ErrClipboardUnavailable indicates no clipboard backend accepted the write.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")

	// ErrClosed indicates the controller has been shut down.
	ErrClosed = errors.New("controller closed")
)

// FetchError provides context for a failed quote fetch.
type FetchError struct {
	// Service names the upstream, e.g. "stoic-quote".
	Service string

	// Reason is a human-readable description of the failure.
	Reason string

	// StatusCode is the upstream HTTP status, 0 if none was received.
	StatusCode int
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Service, e.Reason, e.StatusCode)
	}

	return fmt.Sprintf("%s: %s", e.Service, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *FetchError) Unwrap() error {
	return ErrFetchFailed
}

// Info converts the error into the display payload carried by the Error state.
func (e *FetchError) Info() ErrorInfo {
	return ErrorInfo{Message: e.Reason, StatusCode: e.StatusCode}
}

// NewFetchError creates a fetch error without an HTTP status.
func NewFetchError(service, reason string) error {
	return &FetchError{Service: service, Reason: reason}
}

// NewFetchStatusError creates a fetch error for a non-success HTTP status.
func NewFetchStatusError(service string, statusCode int, reason string) error {
	return &FetchError{Service: service, Reason: reason, StatusCode: statusCode}
}

// ErrorInfoFrom builds ErrorInfo for any error. FetchError keeps its status
// code; anything else is reported by its message alone.
func ErrorInfoFrom(err error) ErrorInfo {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Info()
	}

	return ErrorInfo{Message: err.Error()}
}

// IsFetchFailure checks if err is a fetch failure.
func IsFetchFailure(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}

// IsFetchInProgress checks if err is a rejected concurrent refresh.
func IsFetchInProgress(err error) bool {
	return errors.Is(err, ErrFetchInProgress)
}

// IsClipboardUnavailable checks if err is a clipboard failure.
func IsClipboardUnavailable(err error) bool {
	return errors.Is(err, ErrClipboardUnavailable)
}
