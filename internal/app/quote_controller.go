// Package app holds the quote controller: the fetch lifecycle behind every
// presentation surface.
//
// The controller owns one domain.State at a time and moves it through
//
//	Idle -> Loading -> Success | Error -> Loading -> ...
//
// A refresh requested while a fetch is outstanding is dropped. Presentation
// layers read snapshots, subscribe to changes and call Refresh or
// CopyCurrent; they never see the transport.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/stoic-quote/internal/domain"
	"github.com/jsamuelsen/stoic-quote/internal/ports"
)

// QuoteControllerConfig holds the controller's collaborators.
type QuoteControllerConfig struct {
	// Source is required.
	Source ports.QuoteSource

	// Clipboard receives CopyCurrent writes. Nil means copying always fails
	// (and is logged).
	Clipboard ports.Clipboard

	Logger *slog.Logger

	// Registerer receives the controller's collectors. Nil leaves them
	// unregistered.
	Registerer prometheus.Registerer

	// BaseContext is passed to fetches started by Refresh and to clipboard
	// writes. It carries values only; its cancellation is ignored.
	BaseContext context.Context

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// flight is one outstanding fetch. result is written before done is closed.
type flight struct {
	done   chan struct{}
	result domain.State
}

// fetchOutcome is the settled result of one transport call.
type fetchOutcome struct {
	quote domain.Quote
	err   error
}

// QuoteController runs the quote fetch state machine. It is safe for
// concurrent use.
type QuoteController struct {
	source    ports.QuoteSource
	clipboard ports.Clipboard
	logger    *slog.Logger
	metrics   *Metrics
	baseCtx   context.Context
	now       func() time.Time

	startOnce sync.Once
	wg        sync.WaitGroup

	mu      sync.Mutex
	state   domain.State
	current *flight // non-nil exactly while a fetch is in flight
	closed  bool
	subs    map[uint64]chan domain.State
	nextSub uint64
}

// NewQuoteController creates an Idle controller. It panics if Source is nil
// and returns an error only if metrics registration fails.
func NewQuoteController(cfg QuoteControllerConfig) (*QuoteController, error) {
	if cfg.Source == nil {
		panic("QuoteController: Source is required")
	}

	metrics, err := NewMetrics(cfg.Registerer)
	if err != nil {
		return nil, fmt.Errorf("registering controller metrics: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clipboard := cfg.Clipboard
	if clipboard == nil {
		clipboard = ports.ClipboardFunc(func(context.Context, string) error {
			return domain.ErrClipboardUnavailable
		})
	}

	baseCtx := cfg.BaseContext
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &QuoteController{
		source:    cfg.Source,
		clipboard: clipboard,
		logger:    logger.With(slog.String("component", "app.QuoteController")),
		metrics:   metrics,
		baseCtx:   context.WithoutCancel(baseCtx),
		now:       now,
		state:     domain.State{Status: domain.StatusIdle, UpdatedAt: now()},
		subs:      make(map[uint64]chan domain.State),
	}, nil
}

// Start performs the automatic refresh at initialization. Only the first
// call has any effect. ctx supplies values for that fetch, not a deadline.
func (c *QuoteController) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		c.begin(ctx)
	})
}

// Refresh starts a fetch unless one is already in flight or the controller
// is closed. It reports whether a fetch was started and never blocks on the
// network.
func (c *QuoteController) Refresh() bool {
	_, started := c.begin(c.baseCtx)
	return started
}

// RefreshAndWait starts a fetch, or joins the one in flight, and returns
// the state it settled in. If ctx ends first the current snapshot is
// returned with ctx's error; the fetch keeps running.
func (c *QuoteController) RefreshAndWait(ctx context.Context) (domain.State, error) {
	f, _ := c.begin(ctx)
	if f == nil {
		return c.Snapshot(), domain.ErrClosed
	}

	select {
	case <-f.done:
		return f.result, nil
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	}
}

// begin applies the Loading transition and launches the fetch. It returns
// the flight now outstanding (new or joined) and whether it started one.
func (c *QuoteController) begin(ctx context.Context) (*flight, bool) {
	c.mu.Lock()

	if c.current != nil {
		f := c.current
		c.mu.Unlock()
		c.metrics.refreshTotal.WithLabelValues(resultRejected).Inc()
		c.logger.DebugContext(ctx, "refresh ignored, fetch in flight")
		return f, false
	}

	if c.closed {
		c.mu.Unlock()
		return nil, false
	}

	f := &flight{done: make(chan struct{})}
	c.current = f
	c.state = domain.State{
		Status:    domain.StatusLoading,
		Quote:     c.state.Quote,
		InFlight:  true,
		UpdatedAt: c.now(),
	}
	c.metrics.inFlight.Inc()
	c.publishLocked()
	c.wg.Add(1)
	c.mu.Unlock()

	go c.fetch(context.WithoutCancel(ctx), f)

	return f, true
}

func (c *QuoteController) fetch(ctx context.Context, f *flight) {
	defer c.wg.Done()

	var outcome fetchOutcome
	defer func() { c.settle(ctx, f, outcome) }()

	start := c.now()
	outcome = c.callSource(ctx)
	c.metrics.fetchDuration.Observe(c.now().Sub(start).Seconds())
}

// callSource runs the transport and sanitizes a successful payload. A
// panicking source becomes a failed fetch so the guard is still released.
func (c *QuoteController) callSource(ctx context.Context) (out fetchOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = fetchOutcome{err: fmt.Errorf("quote source panicked: %v", r)}
		}
	}()

	raw, err := c.source.FetchQuote(ctx)
	if err != nil {
		return fetchOutcome{err: err}
	}

	return fetchOutcome{quote: domain.Sanitize(raw)}
}

// settle applies Success or Error and releases the guard in one step.
func (c *QuoteController) settle(ctx context.Context, f *flight, outcome fetchOutcome) {
	c.mu.Lock()

	next := domain.State{Quote: c.state.Quote, UpdatedAt: c.now()}
	if outcome.err != nil {
		info := domain.ErrorInfoFrom(outcome.err)
		next.Status = domain.StatusError
		next.Err = &info
	} else {
		next.Status = domain.StatusSuccess
		next.Quote = outcome.quote
	}

	c.state = next
	f.result = next
	c.current = nil
	c.metrics.inFlight.Dec()
	c.publishLocked()
	c.mu.Unlock()

	close(f.done)

	if outcome.err != nil {
		c.metrics.refreshTotal.WithLabelValues(resultError).Inc()
		c.logger.WarnContext(ctx, "quote fetch failed", slog.Any("error", outcome.err))
		return
	}

	c.metrics.refreshTotal.WithLabelValues(resultSuccess).Inc()
	c.logger.InfoContext(ctx, "quote fetched",
		slog.Bool("has_text", outcome.quote.Text.IsPresent()),
		slog.Bool("has_author", outcome.quote.Author.IsPresent()),
	)
}

// Snapshot returns the current state.
func (c *QuoteController) Snapshot() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentDisplayText returns the held quote as display text. It is valid in
// every state; during Loading and Error it reflects the last success.
func (c *QuoteController) CurrentDisplayText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.DisplayText()
}

// CopyCurrent writes CurrentDisplayText to the clipboard once. A failed
// write is logged and returned so the caller can say so; it never touches
// the fetch state.
func (c *QuoteController) CopyCurrent() error {
	text := c.CurrentDisplayText()

	if err := c.clipboard.WriteText(c.baseCtx, text); err != nil {
		c.metrics.copyTotal.WithLabelValues(resultError).Inc()
		c.logger.WarnContext(c.baseCtx, "copy to clipboard failed", slog.Any("error", err))
		return err
	}

	c.metrics.copyTotal.WithLabelValues(resultSuccess).Inc()
	c.logger.DebugContext(c.baseCtx, "copied quote to clipboard", slog.Int("length", len(text)))
	return nil
}

// Subscribe returns a channel that receives the current snapshot
// immediately and then every state change. The channel holds one value; a
// slow reader skips intermediate states but always sees the latest. The
// returned func unsubscribes and closes the channel.
func (c *QuoteController) Subscribe() (<-chan domain.State, func()) {
	ch := make(chan domain.State, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	ch <- c.state
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// publishLocked offers the current state to every subscriber, replacing any
// value the subscriber has not read yet. c.mu must be held.
func (c *QuoteController) publishLocked() {
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c.state:
		default:
		}
	}
}

// Wait blocks until no fetch is in flight.
func (c *QuoteController) Wait() {
	c.wg.Wait()
}

// Close stops accepting refreshes, waits for the in-flight fetch to settle
// and closes every subscriber channel. It is safe to call more than once.
func (c *QuoteController) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}

	return nil
}
