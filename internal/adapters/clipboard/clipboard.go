// Package clipboard writes quote text to the user's clipboard.
//
// The system clipboard is tried first. When it is unavailable (headless
// hosts, SSH sessions) the text is sent to the terminal as an OSC 52
// sequence, which most modern terminals forward to the local clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/jsamuelsen/stoic-quote/internal/domain"
)

// systemWrite is replaced in tests.
var systemWrite = clipboard.WriteAll

// systemUnsupported reports whether no system clipboard tool was found.
var systemUnsupported = func() bool { return clipboard.Unsupported }

// Config configures a Clipboard.
type Config struct {
	// Terminal receives OSC 52 sequences. Nil disables the terminal fallback.
	Terminal io.Writer

	// DisableSystem skips the system clipboard.
	DisableSystem bool

	// Getenv reads the environment to detect tmux and screen. Defaults to
	// os.Getenv.
	Getenv func(string) string

	Logger *slog.Logger
}

// Clipboard implements ports.Clipboard.
type Clipboard struct {
	terminal      io.Writer
	disableSystem bool
	getenv        func(string) string
	logger        *slog.Logger

	// terminal writes must not interleave
	mu sync.Mutex
}

// New creates a Clipboard.
func New(cfg Config) *Clipboard {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	getenv := cfg.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	return &Clipboard{
		terminal:      cfg.Terminal,
		disableSystem: cfg.DisableSystem,
		getenv:        getenv,
		logger:        logger.With(slog.String("component", "clipboard")),
	}
}

// WriteText copies text. It returns an error wrapping
// domain.ErrClipboardUnavailable when every backend failed.
func (c *Clipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var errs []error

	if !c.disableSystem {
		err := c.writeSystem(text)
		if err == nil {
			return nil
		}
		c.logger.DebugContext(ctx, "system clipboard failed", slog.Any("error", err))
		errs = append(errs, err)
	}

	if c.terminal != nil {
		err := c.writeTerminal(text)
		if err == nil {
			c.logger.DebugContext(ctx, "copied via OSC 52")
			return nil
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return domain.ErrClipboardUnavailable
	}

	return fmt.Errorf("%w: %w", domain.ErrClipboardUnavailable, errors.Join(errs...))
}

func (c *Clipboard) writeSystem(text string) error {
	if systemUnsupported() {
		return errors.New("system clipboard: no backend found")
	}
	if err := systemWrite(text); err != nil {
		return fmt.Errorf("system clipboard: %w", err)
	}
	return nil
}

func (c *Clipboard) writeTerminal(text string) error {
	seq := osc52.New(text)

	switch term := c.getenv("TERM"); {
	case c.getenv("TMUX") != "" || strings.HasPrefix(term, "tmux"):
		seq = seq.Tmux()
	case c.getenv("STY") != "" || strings.HasPrefix(term, "screen"):
		seq = seq.Screen()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := seq.WriteTo(c.terminal); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}
