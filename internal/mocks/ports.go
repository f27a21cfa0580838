// Package mocks provides testify mocks for the ports interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/stoic-quote/internal/domain"
	"github.com/jsamuelsen/stoic-quote/internal/ports"
)

// MockQuoteSource is a mock ports.QuoteSource.
type MockQuoteSource struct {
	mock.Mock
}

// NewMockQuoteSource creates a MockQuoteSource whose expectations are
// asserted when the test ends.
func NewMockQuoteSource(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockQuoteSource {
	m := &MockQuoteSource{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// FetchQuote implements ports.QuoteSource.
func (m *MockQuoteSource) FetchQuote(ctx context.Context) (domain.RawQuote, error) {
	args := m.Called(ctx)

	if fn, ok := args.Get(0).(func(context.Context) (domain.RawQuote, error)); ok {
		return fn(ctx)
	}

	raw, _ := args.Get(0).(domain.RawQuote)
	return raw, args.Error(1)
}

// MockClipboard is a mock ports.Clipboard.
type MockClipboard struct {
	mock.Mock
}

// NewMockClipboard creates a MockClipboard whose expectations are asserted
// when the test ends.
func NewMockClipboard(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockClipboard {
	m := &MockClipboard{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// WriteText implements ports.Clipboard.
func (m *MockClipboard) WriteText(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}

// MockHealthRegistry is a mock ports.HealthRegistry.
type MockHealthRegistry struct {
	mock.Mock
}

// NewMockHealthRegistry creates a MockHealthRegistry whose expectations are
// asserted when the test ends.
func NewMockHealthRegistry(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockHealthRegistry {
	m := &MockHealthRegistry{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Register implements ports.HealthRegistry.
func (m *MockHealthRegistry) Register(checker ports.HealthChecker) error {
	return m.Called(checker).Error(0)
}

// CheckAll implements ports.HealthRegistry.
func (m *MockHealthRegistry) CheckAll(ctx context.Context) *ports.HealthResult {
	res, _ := m.Called(ctx).Get(0).(*ports.HealthResult)
	return res
}
