package tui

import "github.com/pacwatch/pacwatch/internal/sched"

// Message types for Bubble Tea update loop.

// tickClockMsg fires every second to refresh relative timestamps.
type tickClockMsg struct{}

// stateMsg carries a scheduler update into the model.
type stateMsg struct {
	Update sched.Update
}

// launchedMsg reports the outcome of spawning a command in a terminal.
type launchedMsg struct {
	Action string
	Err    error
}
