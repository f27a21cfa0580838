package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/stoic-quote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/stoic-quote/internal/adapters/tui"
	"github.com/jsamuelsen/stoic-quote/internal/platform/logging"
)

func newTUICmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Show quotes in the terminal (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
}

// runTUI owns the terminal, so logs only go to the log file when enabled.
// Every fetch of one session shares a correlation ID.
func runTUI(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	session := uuid.NewString()
	ctx := middleware.ContextWithCorrelationID(cmd.Context(), session)

	stack, err := newQuoteStack(ctx, cfg, stackOptions{Terminal: os.Stderr})
	if err != nil {
		return err
	}
	defer stack.Close(ctx)

	ctx = logging.WithContext(ctx, stack.logger)
	ctx = logging.WithCorrelationID(ctx, session)
	logging.FromContext(ctx).InfoContext(ctx, "starting terminal UI", "version", Version)
	stack.controller.Start(ctx)

	return tui.Run(ctx, stack.controller, tui.RunOptions{
		Options:   tui.Options{NoticeDuration: cfg.TUI.NoticeDuration},
		AltScreen: cfg.TUI.AltScreen,
		Mouse:     cfg.TUI.Mouse,
		Input:     cmd.InOrStdin(),
		Output:    cmd.OutOrStdout(),
	})
}
