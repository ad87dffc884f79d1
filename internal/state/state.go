// Package state holds the data model shared by the checker, the scheduler,
// and the status surfaces: parsed update records, per-check snapshots, and
// the app-level status value the scheduler owns and republishes.
package state

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status describes where the watcher currently stands in its check cycle.
type Status int

const (
	StatusChecking Status = iota
	StatusUpToDate
	StatusUpdatesAvailable
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusChecking:
		return "checking"
	case StatusUpToDate:
		return "up-to-date"
	case StatusUpdatesAvailable:
		return "updates-available"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalJSON encodes the status as its string name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status from its string name.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "checking":
		*s = StatusChecking
	case "up-to-date":
		*s = StatusUpToDate
	case "updates-available":
		*s = StatusUpdatesAvailable
	case "error":
		*s = StatusError
	default:
		return fmt.Errorf("unknown status %q", raw)
	}
	return nil
}

// Source tags which repository family reported an update.
type Source int

const (
	SourceOfficial Source = iota
	SourceAUR
)

func (s Source) String() string {
	switch s {
	case SourceOfficial:
		return "official"
	case SourceAUR:
		return "aur"
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// MarshalJSON encodes the source as its string name.
func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a source from its string name.
func (s *Source) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "official":
		*s = SourceOfficial
	case "aur":
		*s = SourceAUR
	default:
		return fmt.Errorf("unknown source %q", raw)
	}
	return nil
}

// PackageUpdate is one pending update as reported by a package manager.
// Immutable once parsed.
type PackageUpdate struct {
	Name    string `json:"name"`
	Current string `json:"current"`
	Latest  string `json:"latest"`
	Source  Source `json:"source"`
}

// UpdateSnapshot is the complete result of one successful check cycle,
// ordered as the package managers reported it. Never mutated in place.
type UpdateSnapshot struct {
	Official []PackageUpdate `json:"official"`
	AUR      []PackageUpdate `json:"aur"`
}

// Total is the combined pending-update count across both sources.
func (s UpdateSnapshot) Total() int {
	return len(s.Official) + len(s.AUR)
}

// AppState is the coarse status the scheduler publishes after every cycle.
// Exactly one logical value exists per scheduler; it is replaced wholesale,
// never mutated concurrently.
type AppState struct {
	Status        Status    `json:"status"`
	OfficialCount int       `json:"official_count"`
	AURCount      int       `json:"aur_count"`
	TotalCount    int       `json:"total_count"`
	LastChecked   time.Time `json:"last_checked,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
}

// New returns the baseline state used before any cycle has settled.
func New() AppState {
	return AppState{Status: StatusChecking}
}

// FromSnapshot derives the settled state for a successful check.
func FromSnapshot(snapshot UpdateSnapshot, checkedAt time.Time) AppState {
	total := snapshot.Total()
	status := StatusUpToDate
	if total > 0 {
		status = StatusUpdatesAvailable
	}
	return AppState{
		Status:        status,
		OfficialCount: len(snapshot.Official),
		AURCount:      len(snapshot.AUR),
		TotalCount:    total,
		LastChecked:   checkedAt,
	}
}

// WithError marks a failed cycle. Counts are retained from the previous
// successful cycle; only status, message, and timestamp move.
func (s AppState) WithError(message string, checkedAt time.Time) AppState {
	s.Status = StatusError
	s.LastChecked = checkedAt
	s.LastError = message
	return s
}

// WithChecking marks a cycle as in progress, clearing any previous error
// while keeping counts and timestamp for display.
func (s AppState) WithChecking() AppState {
	s.Status = StatusChecking
	s.LastError = ""
	return s
}
