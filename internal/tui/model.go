package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pacwatch/pacwatch/internal/checker"
	"github.com/pacwatch/pacwatch/internal/config"
	"github.com/pacwatch/pacwatch/internal/notify"
	"github.com/pacwatch/pacwatch/internal/sched"
	"github.com/pacwatch/pacwatch/internal/state"
	"github.com/pacwatch/pacwatch/internal/statecache"
)

// Model is the root Bubble Tea model.
type Model struct {
	cfg       config.Config
	scheduler *sched.Scheduler
	cache     *statecache.Cache
	notifier  *notify.Notifier

	// last published check outcome
	current  state.AppState
	official []state.PackageUpdate
	aur      []state.PackageUpdate
	helper   checker.Helper

	now      time.Time
	spin     spinner.Model
	flash    string
	width    int
	height   int
	quitting bool

	// inbound updates from the scheduler bridge
	updatesCh <-chan sched.Update

	// ui state
	helpVisible bool

	// keymap for consistent keybindings
	keys keyMap
}

// NewModel constructs a Model seeded from the cached state, so the first
// frame shows the last known counts instead of an empty screen.
func NewModel(
	cfg config.Config,
	scheduler *sched.Scheduler,
	cache *statecache.Cache,
	notifier *notify.Notifier,
	updates <-chan sched.Update,
) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	return Model{
		cfg:       cfg,
		scheduler: scheduler,
		cache:     cache,
		notifier:  notifier,
		current:   cache.Data.State,
		official:  cache.Data.Snapshot.Official,
		aur:       cache.Data.Snapshot.AUR,
		helper:    cache.Data.Helper,
		now:       time.Now(),
		spin:      sp,
		updatesCh: updates,
		keys:      newKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.listenForUpdates(),
		m.tickClock(),
		m.spin.Tick,
	)
}

// listenForUpdates returns a Tea command that waits for the next scheduler update.
func (m Model) listenForUpdates() tea.Cmd {
	return func() tea.Msg {
		update := <-m.updatesCh
		return stateMsg{Update: update}
	}
}

// tickClock schedules the next relative-timestamp refresh.
func (m Model) tickClock() tea.Cmd {
	return func() tea.Msg {
		time.Sleep(clockTickInterval)
		return tickClockMsg{}
	}
}
