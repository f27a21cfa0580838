// Package clients provides the instrumented HTTP client used to reach the
// upstream quote API.
package clients

import "errors"

// Client errors are infrastructure failures. The ACL translates them into
// domain.FetchError before they reach the controller.
var (
	// ErrCircuitOpen is returned without touching the network while the
	// breaker considers the upstream unhealthy.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrRequestFailed wraps transport-level failures: DNS, connection
	// refused, TLS, timeouts.
	ErrRequestFailed = errors.New("request failed")
)
