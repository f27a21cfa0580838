// Package tui renders the quote in the terminal with Bubble Tea.
//
// The model never fetches on its own. It subscribes to the controller,
// redraws on every published state and forwards refresh and copy requests.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jsamuelsen/stoic-quote/internal/domain"
)

// DefaultNoticeDuration is how long "Copied" stays on screen.
const DefaultNoticeDuration = 1500 * time.Millisecond

const (
	defaultWidth = 60
	maxWidth     = 80
	minWidth     = 20

	copiedNotice     = "Copied to clipboard"
	copyFailedNotice = "Clipboard unavailable"
)

// Controller is the part of app.QuoteController the TUI drives.
type Controller interface {
	Snapshot() domain.State
	Refresh() bool
	CopyCurrent() error
	Subscribe() (<-chan domain.State, func())
}

// Options customizes a Model.
type Options struct {
	NoticeDuration time.Duration
	Keys           *KeyMap
	Styles         *Styles
}

// Model is the Bubble Tea model for the quote view.
type Model struct {
	ctrl        Controller
	states      <-chan domain.State
	unsubscribe func()

	keys    KeyMap
	styles  Styles
	help    help.Model
	spinner spinner.Model

	state    domain.State
	spinning bool

	notice         string
	noticeID       int
	noticeDuration time.Duration

	width    int
	quitting bool
}

// NewModel subscribes to ctrl. Call Close when the program exits.
func NewModel(ctrl Controller, opts Options) Model {
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}

	noticeDuration := opts.NoticeDuration
	if noticeDuration <= 0 {
		noticeDuration = DefaultNoticeDuration
	}

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(Bronze)),
	)

	states, unsubscribe := ctrl.Subscribe()

	return Model{
		ctrl:           ctrl,
		states:         states,
		unsubscribe:    unsubscribe,
		keys:           keys,
		styles:         styles,
		help:           help.New(),
		spinner:        sp,
		state:          ctrl.Snapshot(),
		noticeDuration: noticeDuration,
	}
}

// Close releases the controller subscription. It is safe to call twice.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// State returns the last state the model rendered.
func (m Model) State() domain.State {
	return m.state
}

// Notice returns the transient notice, or "".
func (m Model) Notice() string {
	return m.notice
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForState(m.states)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			m.ctrl.Refresh()
		}
		return m, nil

	case StateMsg:
		m.state = msg.State
		cmds := []tea.Cmd{waitForState(m.states)}
		if m.state.Status == domain.StatusLoading && !m.spinning {
			m.spinning = true
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case subscriptionClosedMsg:
		return m, nil

	case spinner.TickMsg:
		if m.state.Status != domain.StatusLoading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case copiedMsg:
		m.noticeID++
		m.notice = copiedNotice
		if msg.err != nil {
			m.notice = copyFailedNotice
		}
		return m, expireNotice(m.noticeID, m.noticeDuration)

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		m.ctrl.Refresh()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, copyCmd(m.ctrl)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.body())
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(m.styles.Notice.Render(m.notice))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))

	return m.styles.Frame.Render(b.String())
}

func (m Model) body() string {
	switch m.state.Status {
	case domain.StatusIdle:
		return m.styles.Status.Render("Waiting for the first quote...")

	case domain.StatusLoading:
		line := m.spinner.View() + " " + m.styles.Status.Render("Loading...")
		if m.state.Quote.IsZero() {
			return line
		}
		return line + "\n\n" + m.renderQuote(m.styles.Stale)

	case domain.StatusError:
		msg := "Error"
		if m.state.Err != nil {
			msg = "Error: " + m.state.Err.String()
		}
		line := m.styles.Error.Width(m.contentWidth()).Render(msg)
		if m.state.Quote.IsZero() {
			return line
		}
		return line + "\n\n" + m.renderQuote(m.styles.Stale)

	default:
		return m.renderQuote(m.styles.Quote)
	}
}

// renderQuote lays the text out wrapped and the author right-aligned below.
func (m Model) renderQuote(textStyle lipgloss.Style) string {
	width := m.contentWidth()
	parts := make([]string, 0, 3)

	if text, ok := m.state.Quote.Text.Get(); ok && text != "" {
		parts = append(parts, textStyle.Width(width).Render(text))
	}

	if author, ok := m.state.Quote.Author.Get(); ok && author != "" {
		if len(parts) > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, m.styles.Author.Width(width).Align(lipgloss.Right).Render(author))
	}

	return strings.Join(parts, "\n")
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	w := m.width - m.styles.Frame.GetHorizontalFrameSize()
	return max(minWidth, min(w, maxWidth))
}
