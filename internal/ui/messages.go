package ui

import (
	"time"

	"skylaunch/internal/eventbus"
	"skylaunch/internal/search"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// AsyncResultMsg carries a finished background search back to the UI loop
type AsyncResultMsg struct {
	Result search.Result
}

// tickMsg is sent on a timer for the scanning spinner
type tickMsg time.Time

// clearStatusMsg clears the status line
type clearStatusMsg struct {
	seq int
}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}
