package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	// updateBufferSize sizes the scheduler update channel; the scheduler
	// drops updates rather than block when the UI falls this far behind.
	updateBufferSize = 16
	clockTickSeconds = 1
	// maxSectionRows caps each package section; the remainder collapses
	// into a single "... and N more" line.
	maxSectionRows = 12
	// errorDisplayMax keeps failure messages to one line; full text is in
	// the logs and the state cache.
	errorDisplayMax = 72

	clockTickInterval = time.Duration(clockTickSeconds) * time.Second
)
