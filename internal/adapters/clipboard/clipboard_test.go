package clipboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/stoic-quote/internal/domain"
	"github.com/jsamuelsen/stoic-quote/internal/ports"
)

var _ ports.Clipboard = (*Clipboard)(nil)

const seneca = "Luck is what happens when preparation meets opportunity. Seneca"

// stubSystem replaces the system clipboard for the duration of the test.
func stubSystem(t *testing.T, unsupported bool, write func(string) error) {
	t.Helper()

	origWrite, origUnsupported := systemWrite, systemUnsupported
	systemWrite = write
	systemUnsupported = func() bool { return unsupported }
	t.Cleanup(func() {
		systemWrite, systemUnsupported = origWrite, origUnsupported
	})
}

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("tty closed") }

func TestClipboard_WriteText(t *testing.T) {
	tests := []struct {
		name         string
		unsupported  bool
		systemErr    error
		terminal     io.Writer
		env          map[string]string
		wantSystem   bool
		wantTerminal string
		wantErr      bool
	}{
		{
			name:       "system clipboard",
			wantSystem: true,
		},
		{
			name:         "falls back to osc52 when system fails",
			systemErr:    errors.New("exit status 1"),
			terminal:     &bytes.Buffer{},
			wantSystem:   true,
			wantTerminal: osc52.New(seneca).String(),
		},
		{
			name:         "falls back to osc52 when unsupported",
			unsupported:  true,
			terminal:     &bytes.Buffer{},
			wantTerminal: osc52.New(seneca).String(),
		},
		{
			name:         "tmux passthrough",
			unsupported:  true,
			terminal:     &bytes.Buffer{},
			env:          map[string]string{"TMUX": "/tmp/tmux-1000/default,1,0"},
			wantTerminal: osc52.New(seneca).Tmux().String(),
		},
		{
			name:         "screen passthrough",
			unsupported:  true,
			terminal:     &bytes.Buffer{},
			env:          map[string]string{"TERM": "screen-256color"},
			wantTerminal: osc52.New(seneca).Screen().String(),
		},
		{
			name:        "no terminal fallback",
			unsupported: true,
			wantErr:     true,
		},
		{
			name:       "both backends fail",
			systemErr:  errors.New("exit status 1"),
			terminal:   failingWriter{},
			wantSystem: true,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSystem []string
			stubSystem(t, tt.unsupported, func(s string) error {
				gotSystem = append(gotSystem, s)
				return tt.systemErr
			})

			clip := New(Config{
				Terminal: tt.terminal,
				Getenv:   env(tt.env),
				Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
			})

			err := clip.WriteText(context.Background(), seneca)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrClipboardUnavailable)
				assert.True(t, domain.IsClipboardUnavailable(err))
			} else {
				require.NoError(t, err)
			}

			if tt.wantSystem {
				assert.Equal(t, []string{seneca}, gotSystem)
			} else {
				assert.Empty(t, gotSystem)
			}

			if buf, ok := tt.terminal.(*bytes.Buffer); ok {
				assert.Equal(t, tt.wantTerminal, buf.String())
			}
		})
	}
}

func TestClipboard_DisableSystem(t *testing.T) {
	stubSystem(t, false, func(string) error {
		t.Fatal("system clipboard must not be used")
		return nil
	})

	var buf bytes.Buffer
	clip := New(Config{Terminal: &buf, DisableSystem: true, Getenv: env(nil)})

	require.NoError(t, clip.WriteText(context.Background(), "hi"))
	assert.Equal(t, osc52.New("hi").String(), buf.String())
}

func TestClipboard_NoBackends(t *testing.T) {
	clip := New(Config{DisableSystem: true})

	err := clip.WriteText(context.Background(), "hi")

	assert.ErrorIs(t, err, domain.ErrClipboardUnavailable)
}

func TestClipboard_CanceledContext(t *testing.T) {
	stubSystem(t, false, func(string) error {
		t.Fatal("canceled write must not reach a backend")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(Config{}).WriteText(ctx, "hi")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestClipboard_EmptyText(t *testing.T) {
	var got []string
	stubSystem(t, false, func(s string) error {
		got = append(got, s)
		return nil
	})

	require.NoError(t, New(Config{}).WriteText(context.Background(), ""))
	assert.Equal(t, []string{""}, got)
}
