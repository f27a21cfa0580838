// Package ports defines the contracts between the quote controller and the
// outside world. Adapters implement them; the app layer depends only on these
// interfaces and on domain types.
//
// Port conventions:
//   - context.Context first on anything that may block
//   - domain types in and out, never transport DTOs
//   - failures reported as domain errors (domain.FetchError and friends)
package ports

import (
	"context"

	"github.com/jsamuelsen/stoic-quote/internal/domain"
)

// QuoteSource fetches one quote from upstream.
//
// Implementations must collapse every failure (network, non-2xx, malformed
// body) into an error satisfying domain.IsFetchFailure, and must return the
// payload unsanitized: sanitizing is the controller's job.
type QuoteSource interface {
	FetchQuote(ctx context.Context) (domain.RawQuote, error)
}

// Clipboard writes text to a clipboard. Writes are best effort; callers are
// free to ignore the error.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// QuoteSourceFunc adapts a plain function to QuoteSource.
type QuoteSourceFunc func(ctx context.Context) (domain.RawQuote, error)

// FetchQuote calls f(ctx).
func (f QuoteSourceFunc) FetchQuote(ctx context.Context) (domain.RawQuote, error) {
	return f(ctx)
}

// ClipboardFunc adapts a plain function to Clipboard.
type ClipboardFunc func(ctx context.Context, text string) error

// WriteText calls f(ctx, text).
func (f ClipboardFunc) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}
