package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// RunOptions configures the terminal program.
type RunOptions struct {
	Options

	AltScreen bool
	Mouse     bool

	// Input and Output default to the process TTY.
	Input  io.Reader
	Output io.Writer
}

// Run blocks until the user quits or ctx is canceled. Cancellation is not an
// error.
func Run(ctx context.Context, ctrl Controller, opts RunOptions) error {
	m := NewModel(ctrl, opts.Options)
	defer m.Close()

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if opts.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	if _, err := tea.NewProgram(m, programOpts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running terminal UI: %w", err)
	}

	return nil
}
