package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/pacwatch/pacwatch/internal/checker"
	"github.com/pacwatch/pacwatch/internal/sched"
	"github.com/pacwatch/pacwatch/internal/state"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(x)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(x)
		return m, cmd

	case tickClockMsg:
		m.now = time.Now()
		return m, m.tickClock()

	case stateMsg:
		m.applyUpdate(x.Update)
		return m, m.listenForUpdates()

	case launchedMsg:
		if x.Err != nil {
			m.flash = fmt.Sprintf("failed to open %s terminal: %v", x.Action, x.Err)
		} else {
			m.flash = fmt.Sprintf("opened %s terminal", x.Action)
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.scheduler.Quit()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.flash = ""
		m.scheduler.RefreshNow()
		return m, nil

	case key.Matches(msg, m.keys.UpgradeAll):
		return m.launch("upgrade", checker.BuildUpgradeCommand(m.cfg, m.helper), true)

	case key.Matches(msg, m.keys.UpgradeOfficial):
		return m.launch("official upgrade", checker.OfficialUpgradeCommand(), true)

	case key.Matches(msg, m.keys.UpgradeAUR):
		command := checker.AURUpgradeCommand(m.helper)
		if !m.cfg.EnableAUR || command == "" {
			m.flash = "cannot run AUR upgrade: AUR helper not detected"
			return m, nil
		}
		return m.launch("AUR upgrade", command, true)

	case key.Matches(msg, m.keys.Details):
		shellCommand, err := checker.BuildDetailsCommand(m.cfg, m.helper)
		if err != nil {
			m.flash = fmt.Sprintf("failed to open details terminal: %v", err)
			return m, nil
		}
		// Viewing details changes nothing, so no refresh afterwards.
		return m.launch("details", shellCommand, false)
	}

	return m, nil
}

// launch spawns shellCommand in the configured terminal from a Tea command.
// Upgrade actions queue a refresh for when the terminal process exits.
func (m Model) launch(action, shellCommand string, refreshAfter bool) (Model, tea.Cmd) {
	scheduler := m.scheduler
	cfg := m.cfg
	return m, func() tea.Msg {
		proc, err := checker.LaunchInTerminal(cfg, shellCommand)
		if err != nil {
			return launchedMsg{Action: action, Err: err}
		}
		if refreshAfter {
			scheduler.RefreshAfter(proc)
		}
		return launchedMsg{Action: action}
	}
}

// applyUpdate folds a scheduler update into the model. Settled (non-checking)
// states additionally drive desktop notifications and the on-disk cache.
func (m *Model) applyUpdate(u sched.Update) {
	m.current = u.State
	m.helper = u.Helper
	if u.Snapshot != nil {
		m.official = u.Snapshot.Official
		m.aur = u.Snapshot.AUR
	}

	if u.State.Status == state.StatusChecking {
		return
	}

	if m.cfg.NotifyOnChange {
		m.notifier.Observe(u.State.TotalCount)
	}
	m.cache.Record(u.State, state.UpdateSnapshot{Official: m.official, AUR: m.aur}, u.Helper)
	if err := m.cache.Save(); err != nil {
		logrus.Debugf("failed to persist state cache: %v", err)
	}
}
