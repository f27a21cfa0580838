// Package domain contains the quote display model: quotes, fetch state,
// sanitization rules and the errors the core can produce.
// It has no dependencies on adapters or infrastructure.
package domain

import (
	"strconv"
	"strings"
	"time"
)

// RawQuote is an upstream quote payload after translation out of the
// transport DTO but before sanitization.
type RawQuote struct {
	Author Optional
	Quote  Optional
}

// Quote is a sanitized quote ready for display.
// It is a value type: a new fetch replaces it wholesale.
type Quote struct {
	Author Optional `json:"author"`
	Text   Optional `json:"text"`
}

// IsZero reports whether no quote has been produced yet.
func (q Quote) IsZero() bool {
	return !q.Author.IsPresent() && !q.Text.IsPresent()
}

// DisplayText joins text and author with a single space. Absent or empty
// parts are left out, so an empty quote renders as "".
func (q Quote) DisplayText() string {
	parts := make([]string, 0, 2)
	if text, ok := q.Text.Get(); ok && text != "" {
		parts = append(parts, text)
	}
	if author, ok := q.Author.Get(); ok && author != "" {
		parts = append(parts, author)
	}
	return strings.Join(parts, " ")
}

// FetchStatus is the phase of the fetch lifecycle.
type FetchStatus int

const (
	// StatusIdle is the initial state before the first refresh.
	StatusIdle FetchStatus = iota

	// StatusLoading means a fetch is in flight.
	StatusLoading

	// StatusSuccess means the last fetch completed and the quote was replaced.
	StatusSuccess

	// StatusError means the last fetch failed. The previous quote is kept.
	StatusError
)

// String returns the lowercase name of the status.
func (s FetchStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText lets the status appear by name in JSON.
func (s FetchStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrorInfo describes a failed fetch for display.
type ErrorInfo struct {
	Message string `json:"message"`

	// StatusCode is the upstream HTTP status, or 0 when the failure
	// happened before a response was received.
	StatusCode int `json:"statusCode,omitempty"`
}

// String renders the message, with the status code when known.
func (e ErrorInfo) String() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return e.Message + " (HTTP " + strconv.Itoa(e.StatusCode) + ")"
}

// State is an immutable snapshot of the fetch lifecycle.
type State struct {
	Status    FetchStatus `json:"status"`
	Quote     Quote       `json:"quote"`
	Err       *ErrorInfo  `json:"error,omitempty"`
	InFlight  bool        `json:"inFlight"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// DisplayText returns the display text of the held quote.
func (s State) DisplayText() string {
	return s.Quote.DisplayText()
}
