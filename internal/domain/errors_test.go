package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrFetchFailed,
		ErrFetchInProgress,
		ErrClipboardUnavailable,
		ErrClosed,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestFetchError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedMsg  string
		expectedInfo ErrorInfo
	}{
		{
			name:         "transport failure",
			err:          NewFetchError("stoic-quote", "connection refused"),
			expectedMsg:  "stoic-quote: connection refused",
			expectedInfo: ErrorInfo{Message: "connection refused"},
		},
		{
			name:         "status failure",
			err:          NewFetchStatusError("stoic-quote", 502, "bad gateway"),
			expectedMsg:  "stoic-quote: bad gateway (status 502)",
			expectedInfo: ErrorInfo{Message: "bad gateway", StatusCode: 502},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrFetchFailed)
			assert.True(t, IsFetchFailure(tt.err))

			var fetchErr *FetchError
			require.ErrorAs(t, tt.err, &fetchErr)
			assert.Equal(t, tt.expectedInfo, fetchErr.Info())
		})
	}
}

func TestFetchError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("refreshing: %w", NewFetchStatusError("stoic-quote", 500, "server error"))

	assert.True(t, IsFetchFailure(err))
	assert.Equal(t, ErrorInfo{Message: "server error", StatusCode: 500}, ErrorInfoFrom(err))
}

func TestErrorInfoFrom_PlainError(t *testing.T) {
	info := ErrorInfoFrom(errors.New("boom"))

	assert.Equal(t, "boom", info.Message)
	assert.Zero(t, info.StatusCode)
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"fetch failure sentinel", ErrFetchFailed, IsFetchFailure, true},
		{"in progress sentinel", ErrFetchInProgress, IsFetchInProgress, true},
		{"wrapped in progress", fmt.Errorf("refresh: %w", ErrFetchInProgress), IsFetchInProgress, true},
		{"clipboard sentinel", ErrClipboardUnavailable, IsClipboardUnavailable, true},
		{"in progress is not failure", ErrFetchInProgress, IsFetchFailure, false},
		{"nil error", nil, IsFetchFailure, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}
