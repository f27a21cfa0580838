package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/stoic-quote/internal/adapters/clients"
	"github.com/jsamuelsen/stoic-quote/internal/domain"
)

// maxResponseBody caps a successful response body. A quote is a few
// hundred bytes; anything near this size is not a quote.
const maxResponseBody = 64 << 10

// BaseAdapter couples a clients.Client with error translation. Service
// adapters embed it.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a BaseAdapter for serviceName.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{client: client, serviceName: serviceName}
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// ServiceName returns the upstream name used in errors.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET and returns the body of a 2xx response. Any other
// outcome is returned as a domain.FetchError. The caller closes the body.
func (a *BaseAdapter) Get(ctx context.Context, path, operation string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = resp.Body.Close() }()
		return nil, MapHTTPError(resp, nil, a.serviceName, operation)
	}

	return resp.Body, nil
}

// DecodeResponse decodes a JSON body into T.
func DecodeResponse[T any](body io.Reader) (*T, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}

	var result T
	if err := json.NewDecoder(io.LimitReader(body, maxResponseBody)).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// DecodeResponseForService decodes like DecodeResponse but reports failure
// as a domain.FetchError for serviceName.
func DecodeResponseForService[T any](body io.Reader, serviceName string) (*T, error) {
	result, err := DecodeResponse[T](body)
	if err != nil {
		return nil, domain.NewFetchError(serviceName, "malformed response: "+err.Error())
	}
	return result, nil
}
