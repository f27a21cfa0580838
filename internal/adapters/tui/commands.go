package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsamuelsen/stoic-quote/internal/domain"
)

// waitForState blocks on the subscription and delivers the next snapshot.
func waitForState(states <-chan domain.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-states
		if !ok {
			return subscriptionClosedMsg{}
		}
		return StateMsg{State: state}
	}
}

// copyCmd copies off the update loop; clipboard backends may shell out.
func copyCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: ctrl.CopyCurrent()}
	}
}

// expireNotice schedules removal of notice id.
func expireNotice(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}
