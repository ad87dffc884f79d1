package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/pacwatch/pacwatch/internal/config"
	"github.com/pacwatch/pacwatch/internal/notify"
	"github.com/pacwatch/pacwatch/internal/sched"
	"github.com/pacwatch/pacwatch/internal/statecache"
)

// Run starts the Bubble Tea TUI program, wiring scheduler updates to messages.
// It blocks until the user quits.
func Run(cfg config.Config, cache *statecache.Cache) error {
	updates := make(chan sched.Update, updateBufferSize)

	scheduler := sched.Start(cfg, updates, sched.WithBaseline(cache.Data.State, cache.Data.Helper))
	model := NewModel(cfg, scheduler, cache, notify.New(), updates)

	p := tea.NewProgram(model, tea.WithAltScreen())

	// Silence external logs (WARN/ERRO) during TUI to avoid corrupting the view.
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(prevOut)

	_, err := p.Run()

	// Harmless duplicate when the quit key already stopped the scheduler.
	scheduler.Quit()
	return err
}
