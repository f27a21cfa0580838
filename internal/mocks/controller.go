package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/stoic-quote/internal/domain"
)

// MockQuoteController is a mock of the controller surface consumed by the
// HTTP handlers and the terminal UI.
type MockQuoteController struct {
	mock.Mock
}

// NewMockQuoteController creates a MockQuoteController whose expectations
// are asserted when the test ends.
func NewMockQuoteController(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockQuoteController {
	m := &MockQuoteController{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Snapshot returns the configured state.
func (m *MockQuoteController) Snapshot() domain.State {
	state, _ := m.Called().Get(0).(domain.State)
	return state
}

// Refresh returns whether the refresh was accepted.
func (m *MockQuoteController) Refresh() bool {
	return m.Called().Bool(0)
}

// RefreshAndWait returns the configured settled state.
func (m *MockQuoteController) RefreshAndWait(ctx context.Context) (domain.State, error) {
	args := m.Called(ctx)

	if fn, ok := args.Get(0).(func(context.Context) (domain.State, error)); ok {
		return fn(ctx)
	}

	state, _ := args.Get(0).(domain.State)
	return state, args.Error(1)
}

// CopyCurrent records the call and returns the configured error.
func (m *MockQuoteController) CopyCurrent() error {
	return m.Called().Error(0)
}

// Subscribe returns the configured channel and unsubscribe func.
func (m *MockQuoteController) Subscribe() (<-chan domain.State, func()) {
	args := m.Called()

	ch, _ := args.Get(0).(<-chan domain.State)
	unsubscribe, _ := args.Get(1).(func())
	if unsubscribe == nil {
		unsubscribe = func() {}
	}
	return ch, unsubscribe
}
