package acl

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jsamuelsen/stoic-quote/internal/adapters/clients"
	"github.com/jsamuelsen/stoic-quote/internal/domain"
	"github.com/jsamuelsen/stoic-quote/internal/platform/logging"
)

// DefaultQuotePath is the stoic quote endpoint, relative to the client's
// base URL.
const DefaultQuotePath = "/stoic-quote"

// errCircuitOpen is reported by Check while the breaker is open.
var errCircuitOpen = errors.New("upstream circuit open")

// QuoteClientConfig configures a QuoteClient.
type QuoteClientConfig struct {
	// Client must have BaseURL pointing at the quote API host.
	Client *clients.Client

	// Path overrides DefaultQuotePath.
	Path string

	Logger *slog.Logger
}

// QuoteClient fetches stoic quotes. It satisfies ports.QuoteSource and
// ports.HealthChecker.
type QuoteClient struct {
	BaseAdapter
	path   string
	logger *slog.Logger
}

// NewQuoteClient creates a quote adapter. It panics if Client is nil.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	path := cfg.Path
	if path == "" {
		path = DefaultQuotePath
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, cfg.Client.ServiceName()),
		path:        path,
		logger:      logger.With(slog.String("component", "acl.QuoteClient")),
	}
}

// stoicQuoteResponse is the upstream payload. Either field may be null.
type stoicQuoteResponse struct {
	Author *string `json:"author"`
	Quote  *string `json:"quote"`
}

// FetchQuote performs one GET against the quote endpoint.
func (c *QuoteClient) FetchQuote(ctx context.Context) (domain.RawQuote, error) {
	c.logger.Log(ctx, logging.LevelTrace, "fetching quote", slog.String("path", c.path))

	body, err := c.Get(ctx, c.path, "fetch quote")
	if err != nil {
		return domain.RawQuote{}, err
	}
	defer func() { _ = body.Close() }()

	ext, err := DecodeResponseForService[stoicQuoteResponse](body, c.ServiceName())
	if err != nil {
		c.logger.WarnContext(ctx, "upstream returned malformed quote", slog.Any("error", err))
		return domain.RawQuote{}, err
	}

	raw := translateQuote(ext)
	c.logger.DebugContext(ctx, "quote fetched",
		slog.Bool("has_author", raw.Author.IsPresent()),
		slog.Bool("has_text", raw.Quote.IsPresent()),
	)

	return raw, nil
}

func translateQuote(ext *stoicQuoteResponse) domain.RawQuote {
	return domain.RawQuote{
		Author: domain.FromPtr(ext.Author),
		Quote:  domain.FromPtr(ext.Quote),
	}
}

// Name implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return c.ServiceName()
}

// Check reports unhealthy while the circuit breaker is open. It does not
// call the upstream, so readiness probes never consume quotes.
func (c *QuoteClient) Check(_ context.Context) error {
	if c.Client().CircuitState() == clients.StateOpen {
		return errCircuitOpen
	}
	return nil
}
