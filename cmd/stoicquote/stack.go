package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/stoic-quote/internal/adapters/clients"
	"github.com/jsamuelsen/stoic-quote/internal/adapters/clients/acl"
	"github.com/jsamuelsen/stoic-quote/internal/adapters/clipboard"
	"github.com/jsamuelsen/stoic-quote/internal/app"
	"github.com/jsamuelsen/stoic-quote/internal/platform/config"
	"github.com/jsamuelsen/stoic-quote/internal/platform/logging"
	"github.com/jsamuelsen/stoic-quote/internal/platform/telemetry"
)

// stackOptions selects the environment-specific pieces of a quoteStack.
type stackOptions struct {
	// LogWriter receives console logs. Nil sends logs to the file only.
	LogWriter io.Writer

	// Terminal receives OSC 52 clipboard sequences. Nil disables them.
	Terminal io.Writer

	// Registerer receives controller metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
}

// quoteStack is everything between the configuration and a presentation
// surface.
type quoteStack struct {
	cfg         *config.Config
	logger      *slog.Logger
	quoteClient *acl.QuoteClient
	controller  *app.QuoteController

	closeLog  func() error
	telemetry *telemetry.Provider
}

// newQuoteStack builds logging, telemetry, the upstream client and the
// controller. The controller is not started.
func newQuoteStack(ctx context.Context, cfg *config.Config, opts stackOptions) (*quoteStack, error) {
	logger, closeLog := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, opts.LogWriter)
	logging.SetDefault(logger)

	stack := &quoteStack{cfg: cfg, logger: logger, closeLog: closeLog}

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		stack.Close(ctx)
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}
	stack.telemetry = tel

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Quote.BaseURL,
		ServiceName: cfg.Services.Quote.Name,
		Timeout:     cfg.Client.Timeout,
		UserAgent:   "stoicquote/" + Version,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		stack.Close(ctx)
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	stack.quoteClient = acl.NewQuoteClient(acl.QuoteClientConfig{
		Client: httpClient,
		Logger: logger,
	})

	stack.controller, err = app.NewQuoteController(app.QuoteControllerConfig{
		Source: stack.quoteClient,
		Clipboard: clipboard.New(clipboard.Config{
			Terminal: opts.Terminal,
			Logger:   logger,
		}),
		Logger:      logger,
		Registerer:  opts.Registerer,
		BaseContext: ctx,
	})
	if err != nil {
		stack.Close(ctx)
		return nil, fmt.Errorf("creating quote controller: %w", err)
	}

	return stack, nil
}

// Close stops the controller, flushes telemetry and closes the log file.
func (s *quoteStack) Close(ctx context.Context) {
	if s.controller != nil {
		_ = s.controller.Close()
	}

	if s.telemetry != nil {
		if err := s.telemetry.Shutdown(context.WithoutCancel(ctx)); err != nil {
			s.logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}

	if s.closeLog != nil {
		_ = s.closeLog()
	}
}
