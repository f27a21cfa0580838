package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote_DisplayText(t *testing.T) {
	tests := []struct {
		name     string
		quote    Quote
		expected string
	}{
		{
			name: "text and author",
			quote: Quote{
				Author: Some("Seneca"),
				Text:   Some("Luck is what happens when preparation meets opportunity."),
			},
			expected: "Luck is what happens when preparation meets opportunity. Seneca",
		},
		{
			name:     "absent author",
			quote:    Quote{Text: Some("Waste no more time.")},
			expected: "Waste no more time.",
		},
		{
			name:     "absent text",
			quote:    Quote{Author: Some("Epictetus")},
			expected: "Epictetus",
		},
		{
			name:     "empty text after sanitizing",
			quote:    Quote{Author: Some("Unknown"), Text: Some("")},
			expected: "Unknown",
		},
		{
			name:     "zero quote",
			quote:    Quote{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.quote.DisplayText())
		})
	}
}

func TestQuote_IsZero(t *testing.T) {
	assert.True(t, Quote{}.IsZero())
	assert.False(t, Quote{Text: Some("")}.IsZero())
}

func TestFetchStatus_String(t *testing.T) {
	tests := []struct {
		status   FetchStatus
		expected string
	}{
		{StatusIdle, "idle"},
		{StatusLoading, "loading"},
		{StatusSuccess, "success"},
		{StatusError, "error"},
		{FetchStatus(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

func TestErrorInfo_String(t *testing.T) {
	assert.Equal(t, "timeout", ErrorInfo{Message: "timeout"}.String())
	assert.Equal(t, "bad gateway (HTTP 502)", ErrorInfo{Message: "bad gateway", StatusCode: 502}.String())
}

func TestOptional(t *testing.T) {
	v, ok := Some("x").Get()
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = Absent().Get()
	assert.False(t, ok)

	assert.Equal(t, "fallback", Absent().Or("fallback"))
	assert.Equal(t, "", Some("").Or("fallback"))

	s := "hello"
	assert.Equal(t, Some("hello"), FromPtr(&s))
	assert.Equal(t, Absent(), FromPtr(nil))
}

func TestOptional_JSON(t *testing.T) {
	type payload struct {
		Author Optional `json:"author"`
		Quote  Optional `json:"quote"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"author":null,"quote":""}`), &p))
	assert.False(t, p.Author.IsPresent())
	assert.Equal(t, Some(""), p.Quote)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"author":null,"quote":""}`, string(out))
}

func TestState_JSON(t *testing.T) {
	st := State{
		Status: StatusError,
		Quote:  Quote{Author: Some("Seneca"), Text: Some("Begin at once to live.")},
		Err:    &ErrorInfo{Message: "bad gateway", StatusCode: 502},
	}

	out, err := json.Marshal(st)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "error", decoded["status"])
	assert.Equal(t, false, decoded["inFlight"])
	assert.Equal(t, map[string]any{"author": "Seneca", "text": "Begin at once to live."}, decoded["quote"])
}
