package tui

import "github.com/jsamuelsen/stoic-quote/internal/domain"

// StateMsg carries a controller snapshot into the update loop.
type StateMsg struct {
	State domain.State
}

// subscriptionClosedMsg reports that the controller stopped publishing.
type subscriptionClosedMsg struct{}

// copiedMsg reports that a CopyCurrent call returned, with its error.
type copiedMsg struct {
	err error
}

// noticeExpiredMsg clears the notice it was scheduled for.
type noticeExpiredMsg struct {
	id int
}
