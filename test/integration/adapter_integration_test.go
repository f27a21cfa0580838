//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/stoic-quote/internal/adapters/clients"
	"github.com/jsamuelsen/stoic-quote/internal/adapters/clients/acl"
	"github.com/jsamuelsen/stoic-quote/internal/domain"
	"github.com/jsamuelsen/stoic-quote/internal/platform/config"
)

// newQuoteClient wires a QuoteClient to upstream through a real Client.
func newQuoteClient(t *testing.T, upstream *fakeUpstream, circuit config.CircuitBreakerConfig) (*acl.QuoteClient, *clients.Client) {
	t.Helper()

	cfg := testClientConfig(upstream.URL())
	cfg.Circuit = circuit
	client, err := clients.New(cfg)
	require.NoError(t, err)

	return acl.NewQuoteClient(acl.QuoteClientConfig{Client: client, Logger: quietLogger()}), client
}

func defaultCircuit() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{Enabled: true, MaxFailures: 3, Timeout: 100 * time.Millisecond, HalfOpenLimit: 1}
}

// TestQuoteClient_TranslationAccuracy verifies that null, empty and present
// fields survive the translation unchanged. Sanitizing happens later.
func TestQuoteClient_TranslationAccuracy(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantAuthor domain.Optional
		wantQuote  domain.Optional
	}{
		{
			name:       "both present",
			body:       `{"author":"Marcus Aurelius","quote":"The obstacle is the way."}`,
			wantAuthor: domain.Some("Marcus Aurelius"),
			wantQuote:  domain.Some("The obstacle is the way."),
		},
		{
			name:       "empty author kept raw",
			body:       `{"author":"","quote":"Control your @mind@."}`,
			wantAuthor: domain.Some(""),
			wantQuote:  domain.Some("Control your @mind@."),
		},
		{
			name:       "nulls",
			body:       `{"author":null,"quote":null}`,
			wantAuthor: domain.Absent(),
			wantQuote:  domain.Absent(),
		},
		{
			name:       "missing fields",
			body:       `{}`,
			wantAuthor: domain.Absent(),
			wantQuote:  domain.Absent(),
		},
		{
			name:       "extra fields ignored",
			body:       `{"author":"Seneca","quote":"Begin at once to live.","id":42}`,
			wantAuthor: domain.Some("Seneca"),
			wantQuote:  domain.Some("Begin at once to live."),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := newFakeUpstream()
			defer upstream.Close()
			upstream.respond(http.StatusOK, tt.body)

			qc, _ := newQuoteClient(t, upstream, defaultCircuit())

			raw, err := qc.FetchQuote(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantAuthor, raw.Author)
			assert.Equal(t, tt.wantQuote, raw.Quote)
		})
	}
}

// TestQuoteClient_ErrorMapping verifies that every kind of upstream failure
// becomes a FetchError carrying a displayable reason.
func TestQuoteClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason string
		wantStatus int
	}{
		{
			name:       "service unavailable",
			status:     http.StatusServiceUnavailable,
			wantReason: "service temporarily unavailable",
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			wantReason: "rate limit exceeded",
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "upstream message preferred",
			status:     http.StatusBadRequest,
			body:       `{"error":{"code":"BAD","message":"quote pool exhausted"}}`,
			wantReason: "quote pool exhausted",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "malformed payload",
			status: http.StatusOK,
			body:   `{"author":`,
		},
		{
			name:   "wrong field types",
			status: http.StatusOK,
			body:   `{"author":7,"quote":["x"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := newFakeUpstream()
			defer upstream.Close()
			upstream.respond(tt.status, tt.body)

			qc, _ := newQuoteClient(t, upstream, defaultCircuit())

			_, err := qc.FetchQuote(context.Background())
			require.Error(t, err)
			assert.True(t, domain.IsFetchFailure(err), "expected fetch failure, got %v", err)

			var fetchErr *domain.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, upstreamName, fetchErr.Service)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, fetchErr.Reason)
			}
			assert.Equal(t, tt.wantStatus, fetchErr.StatusCode)
		})
	}
}

// TestQuoteClient_ErrorMapping_CircuitOpen verifies that an open breaker
// fails fast without calling the upstream and flips the health check.
func TestQuoteClient_ErrorMapping_CircuitOpen(t *testing.T) {
	upstream := newFakeUpstream()
	defer upstream.Close()
	upstream.respond(http.StatusInternalServerError, "")

	qc, client := newQuoteClient(t, upstream, config.CircuitBreakerConfig{
		Enabled:       true,
		MaxFailures:   2,
		Timeout:       time.Minute,
		HalfOpenLimit: 1,
	})

	require.NoError(t, qc.Check(context.Background()))

	for range 2 {
		_, err := qc.FetchQuote(context.Background())
		require.Error(t, err)
	}
	require.Equal(t, clients.StateOpen, client.CircuitState())

	calls := upstream.calls.Load()
	_, err := qc.FetchQuote(context.Background())

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "upstream unavailable (circuit open)", fetchErr.Reason)
	assert.Equal(t, calls, upstream.calls.Load(), "no upstream call while open")
	assert.Error(t, qc.Check(context.Background()))
}

// TestQuoteClient_Timeout verifies that a slow upstream surfaces as a timed
// out fetch.
func TestQuoteClient_Timeout(t *testing.T) {
	upstream := newFakeUpstream()
	defer upstream.Close()
	upstream.hold()

	cfg := testClientConfig(upstream.URL())
	cfg.Timeout = 100 * time.Millisecond
	client, err := clients.New(cfg)
	require.NoError(t, err)
	qc := acl.NewQuoteClient(acl.QuoteClientConfig{Client: client, Logger: quietLogger()})

	_, err = qc.FetchQuote(context.Background())

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "fetch quote timed out", fetchErr.Reason)
	assert.Zero(t, fetchErr.StatusCode)
}

// TestQuoteClient_CustomPath verifies that the configured path is used.
func TestQuoteClient_CustomPath(t *testing.T) {
	upstream := newFakeUpstream()
	defer upstream.Close()

	client, err := clients.New(testClientConfig(upstream.URL()))
	require.NoError(t, err)
	qc := acl.NewQuoteClient(acl.QuoteClientConfig{Client: client, Path: "/elsewhere", Logger: quietLogger()})

	_, err = qc.FetchQuote(context.Background())

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}
