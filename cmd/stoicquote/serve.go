package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/jsamuelsen/stoic-quote/internal/adapters/http"
	"github.com/jsamuelsen/stoic-quote/internal/adapters/http/handlers"
	"github.com/jsamuelsen/stoic-quote/internal/platform/config"
	"github.com/jsamuelsen/stoic-quote/internal/ports"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the quote state as a JSON API",
		Long: `Serve the quote state over HTTP:

  GET  /api/v1/quote          current state
  POST /api/v1/quote/refresh  start a fetch (?wait=true blocks until it settles)
  POST /api/v1/quote/copy     copy the current quote on the host

Operational endpoints live under /-/ (live, ready, build, metrics).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "override server.port")

	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	stack, err := newQuoteStack(ctx, cfg, stackOptions{
		LogWriter:  cmd.OutOrStdout(),
		Registerer: reg,
	})
	if err != nil {
		return err
	}
	defer stack.Close(ctx)

	logger := stack.logger
	logger.InfoContext(ctx, "starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	registry := ports.NewHealthRegistry()
	if err := registry.Register(stack.quoteClient); err != nil {
		return fmt.Errorf("registering quote client health check: %w", err)
	}

	server := httpadapter.New(&cfg.Server, logger)
	httpadapter.SetupRouter(server.Engine(), httpadapter.RouterConfig{
		ServiceName: cfg.App.Name,
		HealthHandler: handlers.NewHealthHandler(registry,
			handlers.NewBuildInfo(Version, Commit, BuildTime),
			handlers.WithGatherer(reg),
		),
		QuoteHandler: handlers.NewQuoteHandler(stack.controller),
		Timeout:      cfg.Server.WriteTimeout,
	})

	serverErr, err := server.Start()
	if err != nil {
		return err
	}

	stack.controller.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err, ok := <-serverErr; ok {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		logger.InfoContext(shutdownCtx, "initiating graceful shutdown",
			slog.Duration("timeout", cfg.Server.ShutdownTimeout),
		)
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.InfoContext(ctx, "shutdown complete")
	return nil
}
