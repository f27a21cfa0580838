package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/stoic-quote/internal/adapters/http/dto"
	"github.com/jsamuelsen/stoic-quote/internal/domain"
)

// errFetchFailed is returned after the error has been printed.
var errFetchFailed = errors.New("quote fetch failed")

type fetchOptions struct {
	copy    bool
	jsonOut bool
}

func newFetchCmd(opts *globalOptions) *cobra.Command {
	fo := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one quote and print it",
		Long: `Fetch one quote, print its display text and exit.
A failed fetch prints the error and exits non-zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd, opts, fo)
		},
	}

	cmd.Flags().BoolVar(&fo.copy, "copy", false, "also copy the quote to the clipboard")
	cmd.Flags().BoolVar(&fo.jsonOut, "json", false, "print the full state as JSON")

	return cmd
}

func runFetch(cmd *cobra.Command, opts *globalOptions, fo *fetchOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	stack, err := newQuoteStack(ctx, cfg, stackOptions{
		LogWriter: cmd.ErrOrStderr(),
		Terminal:  os.Stderr,
	})
	if err != nil {
		return err
	}
	defer stack.Close(ctx)

	// Upper bound on top of the client timeout.
	waitCtx, cancel := context.WithTimeout(ctx, 2*cfg.Client.Timeout)
	defer cancel()

	state, err := stack.controller.RefreshAndWait(waitCtx)
	if err != nil {
		return fmt.Errorf("waiting for quote: %w", err)
	}

	if fo.copy && state.Status == domain.StatusSuccess {
		if err := stack.controller.CopyCurrent(); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: quote not copied:", err)
		}
	}

	out := cmd.OutOrStdout()

	if fo.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(dto.NewQuoteStateResponse(state)); err != nil {
			return fmt.Errorf("encoding state: %w", err)
		}
	} else if state.Status == domain.StatusSuccess {
		if _, err := fmt.Fprintln(out, state.DisplayText()); err != nil {
			return err
		}
	}

	if state.Status == domain.StatusError {
		if !fo.jsonOut && state.Err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", state.Err.String())
		}
		return errFetchFailed
	}

	return nil
}
