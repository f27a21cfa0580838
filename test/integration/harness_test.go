//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/stoic-quote/internal/adapters/clients"
	"github.com/jsamuelsen/stoic-quote/internal/adapters/clients/acl"
	httpadapter "github.com/jsamuelsen/stoic-quote/internal/adapters/http"
	"github.com/jsamuelsen/stoic-quote/internal/adapters/http/handlers"
	"github.com/jsamuelsen/stoic-quote/internal/app"
	"github.com/jsamuelsen/stoic-quote/internal/platform/config"
	"github.com/jsamuelsen/stoic-quote/internal/ports"
)

const upstreamName = "stoic-quote"

// fakeUpstream plays the public quote API. Responses can be switched and
// held open while a scenario runs.
type fakeUpstream struct {
	server *httptest.Server
	calls  atomic.Int32

	mu     sync.Mutex
	status int
	body   string
	gate   chan struct{}
}

func newFakeUpstream() *fakeUpstream {
	u := &fakeUpstream{status: http.StatusOK, body: `{"author":"Marcus Aurelius","quote":"You have power over your mind."}`}
	u.server = httptest.NewServer(http.HandlerFunc(u.serve))
	return u
}

func (u *fakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	u.calls.Add(1)

	u.mu.Lock()
	status, body, gate := u.status, u.body, u.gate
	u.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	if r.URL.Path != acl.DefaultQuotePath {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// respond sets the next responses.
func (u *fakeUpstream) respond(status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status, u.body = status, body
}

// hold makes requests block until release is called.
func (u *fakeUpstream) hold() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.gate == nil {
		u.gate = make(chan struct{})
	}
}

func (u *fakeUpstream) release() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.gate != nil {
		close(u.gate)
		u.gate = nil
	}
}

func (u *fakeUpstream) URL() string {
	return u.server.URL
}

func (u *fakeUpstream) Close() {
	u.release()
	u.server.Close()
}

// testClientConfig returns a client config for url with a quiet logger and
// short limits.
func testClientConfig(url string) *clients.Config {
	return &clients.Config{
		BaseURL:     url,
		ServiceName: upstreamName,
		Timeout:     2 * time.Second,
		UserAgent:   "stoicquote-integration",
		Circuit: config.CircuitBreakerConfig{
			Enabled:       true,
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
		Logger: quietLogger(),
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// harness is the full quote service running in-process over a fakeUpstream.
type harness struct {
	upstream    *fakeUpstream
	client      *clients.Client
	quoteClient *acl.QuoteClient
	controller  *app.QuoteController
	metrics     *prometheus.Registry
	api         *httptest.Server
}

func newHarness(circuit config.CircuitBreakerConfig) (*harness, error) {
	gin.SetMode(gin.TestMode)

	upstream := newFakeUpstream()

	cfg := testClientConfig(upstream.URL())
	cfg.Circuit = circuit
	client, err := clients.New(cfg)
	if err != nil {
		upstream.Close()
		return nil, fmt.Errorf("creating client: %w", err)
	}

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{Client: client, Logger: quietLogger()})

	reg := prometheus.NewRegistry()
	controller, err := app.NewQuoteController(app.QuoteControllerConfig{
		Source:     quoteClient,
		Clipboard:  ports.ClipboardFunc(func(context.Context, string) error { return nil }),
		Logger:     quietLogger(),
		Registerer: reg,
	})
	if err != nil {
		upstream.Close()
		return nil, fmt.Errorf("creating controller: %w", err)
	}

	registry := ports.NewHealthRegistry()
	if err := registry.Register(quoteClient); err != nil {
		upstream.Close()
		return nil, fmt.Errorf("registering health check: %w", err)
	}

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.NewDefaultRouterConfig(
		"stoic-quote-integration",
		handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "unknown"), handlers.WithGatherer(reg)),
		handlers.NewQuoteHandler(controller),
	))

	return &harness{
		upstream:    upstream,
		client:      client,
		quoteClient: quoteClient,
		controller:  controller,
		metrics:     reg,
		api:         httptest.NewServer(engine),
	}, nil
}

// refreshCount reads stoicquote_refresh_total for one result label.
func (h *harness) refreshCount(result string) float64 {
	families, err := h.metrics.Gather()
	if err != nil {
		return 0
	}

	for _, family := range families {
		if family.GetName() != "stoicquote_refresh_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "result" && label.GetValue() == result {
					return m.GetCounter().GetValue()
				}
			}
		}
	}

	return 0
}

// Close releases held upstream requests, stops the API and waits for the
// controller's fetch to finish.
func (h *harness) Close() {
	h.upstream.release()
	h.api.Close()
	_ = h.controller.Close()
	h.upstream.Close()
}
