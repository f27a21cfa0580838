package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/stoic-quote/internal/domain"
)

type stubChecker struct {
	name  string
	err   error
	delay time.Duration
}

func (s *stubChecker) Name() string { return s.name }

func (s *stubChecker) Check(ctx context.Context) error {
	if s.delay == 0 {
		return s.err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
		return s.err
	}
}

func TestRegister_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&stubChecker{name: "stoic-quote"}))

	err := registry.Register(&stubChecker{name: "stoic-quote"})
	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "stoic-quote")
	assert.Len(t, registry.checkers, 1)
}

func TestCheckAll(t *testing.T) {
	tests := []struct {
		name       string
		checkers   []*stubChecker
		wantStatus HealthStatus
		wantFailed map[string]string
	}{
		{
			name:       "empty registry is healthy",
			wantStatus: HealthStatusHealthy,
		},
		{
			name: "all healthy",
			checkers: []*stubChecker{
				{name: "stoic-quote"},
				{name: "clipboard"},
			},
			wantStatus: HealthStatusHealthy,
		},
		{
			name: "one unhealthy marks the whole result",
			checkers: []*stubChecker{
				{name: "stoic-quote", err: errors.New("circuit breaker open")},
				{name: "clipboard", delay: 5 * time.Millisecond},
			},
			wantStatus: HealthStatusUnhealthy,
			wantFailed: map[string]string{"stoic-quote": "circuit breaker open"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry()
			for _, c := range tt.checkers {
				require.NoError(t, registry.Register(c))
			}

			result := registry.CheckAll(context.Background())

			require.NotNil(t, result)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Len(t, result.Checks, len(tt.checkers))
			assert.False(t, result.Timestamp.IsZero())

			for _, c := range tt.checkers {
				cr := result.Checks[c.name]
				require.NotNil(t, cr, c.name)

				if msg, failed := tt.wantFailed[c.name]; failed {
					assert.Equal(t, HealthStatusUnhealthy, cr.Status)
					assert.Equal(t, msg, cr.Message)
				} else {
					assert.Equal(t, HealthStatusHealthy, cr.Status)
					assert.Empty(t, cr.Message)
				}
			}
		})
	}
}

func TestCheckAll_ContextCancelled(t *testing.T) {
	registry := NewHealthRegistry()
	require.NoError(t, registry.Register(&stubChecker{name: "stoic-quote", delay: time.Second}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["stoic-quote"].Message, "context canceled")
}

func TestQuoteSourceFunc(t *testing.T) {
	want := domain.RawQuote{Author: domain.Some("Zeno"), Quote: domain.Some("Well-being is realized by small steps.")}

	var src QuoteSource = QuoteSourceFunc(func(context.Context) (domain.RawQuote, error) {
		return want, nil
	})

	got, err := src.FetchQuote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClipboardFunc(t *testing.T) {
	var written string

	var cb Clipboard = ClipboardFunc(func(_ context.Context, text string) error {
		written = text
		return nil
	})

	require.NoError(t, cb.WriteText(context.Background(), "copied"))
	assert.Equal(t, "copied", written)
}
