package sched

import (
	"context"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pacwatch/pacwatch/internal/checker"
	"github.com/pacwatch/pacwatch/internal/config"
	"github.com/pacwatch/pacwatch/internal/state"
)

const (
	// commandBacklog bounds the inbound queue; senders drop commands via
	// Done() once the loop has exited rather than blocking forever.
	commandBacklog = 16
)

// Update is one publication from the scheduler: the new app state, the full
// snapshot when a check succeeded (nil for checking/error publications), and
// the AUR helper in use.
type Update struct {
	State    state.AppState
	Snapshot *state.UpdateSnapshot
	Helper   checker.Helper
}

type command int

const (
	cmdRefreshNow command = iota
	cmdQuit
)

// CheckFunc performs one full update check. It exists so tests can stand in
// for the real checker.
type CheckFunc func(ctx context.Context, cfg config.Config) (*checker.Result, error)

// Option tweaks scheduler construction.
type Option func(*options)

type options struct {
	check    CheckFunc
	interval time.Duration
	baseline state.AppState
	helper   checker.Helper
}

// WithCheckFunc replaces the check implementation.
func WithCheckFunc(fn CheckFunc) Option {
	return func(o *options) { o.check = fn }
}

// WithBaseline seeds the scheduler's starting state and helper, typically
// from the state cache, so the first "checking" publication carries the
// previous run's counts instead of zeros.
func WithBaseline(st state.AppState, helper checker.Helper) Option {
	return func(o *options) {
		o.baseline = st
		o.helper = helper
	}
}

// withInterval overrides the poll interval; tests use it to avoid
// minute-scale waits.
func withInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// Scheduler owns the background check loop. Its baseline state and helper
// live exclusively on that loop's goroutine; the rest of the program talks
// to it only through commands and the updates channel.
type Scheduler struct {
	commands chan command
	done     chan struct{}

	check    CheckFunc
	interval time.Duration

	lastState  state.AppState
	lastHelper checker.Helper
}

// Start launches the scheduling loop. An immediate startup check runs first;
// after that a check runs on every RefreshNow and whenever a full poll
// interval passes without one. Updates are published to the given channel
// with a non-blocking send, so a stalled consumer loses updates rather than
// wedging the loop.
func Start(cfg config.Config, updates chan<- Update, opts ...Option) *Scheduler {
	o := options{
		check:    checker.Check,
		baseline: state.New(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.interval == 0 {
		minutes := cfg.PollMinutes
		if minutes < 1 {
			minutes = 1
		}
		o.interval = time.Duration(minutes) * time.Minute
	}

	s := &Scheduler{
		commands:   make(chan command, commandBacklog),
		done:       make(chan struct{}),
		check:      o.check,
		interval:   o.interval,
		lastState:  o.baseline,
		lastHelper: o.helper,
	}
	go s.run(cfg, updates)
	return s
}

// RefreshNow asks for an immediate check. Safe to call after the loop has
// stopped; the request is then dropped.
func (s *Scheduler) RefreshNow() { s.send(cmdRefreshNow) }

// Quit stops the scheduling loop. Safe to call more than once.
func (s *Scheduler) Quit() { s.send(cmdQuit) }

// Done is closed once the scheduling loop has exited.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

// RefreshAfter waits for an already-started process to exit and then
// requests a refresh. Best effort: no cancellation, and if the scheduler has
// stopped by then the request is silently dropped.
func (s *Scheduler) RefreshAfter(proc *exec.Cmd) {
	go func() {
		_ = proc.Wait()
		s.RefreshNow()
	}()
}

func (s *Scheduler) send(c command) {
	select {
	case s.commands <- c:
	case <-s.done:
	}
}

func (s *Scheduler) run(cfg config.Config, updates chan<- Update) {
	defer close(s.done)

	s.runCycle(cfg, updates, "startup")

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case cmd, ok := <-s.commands:
			if !ok {
				// No sender can ever appear again; stop cleanly.
				logrus.Info("scheduler command channel closed")
				return
			}
			switch cmd {
			case cmdQuit:
				logrus.Info("scheduler received quit command")
				return
			case cmdRefreshNow:
				s.runCycle(cfg, updates, "manual-refresh")
			}
		case <-timer.C:
			s.runCycle(cfg, updates, "periodic")
		}

		// Every event restarts the clock: the next periodic check is a full
		// interval after the last activity, not a fixed tick.
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.interval)
	}
}

// runCycle performs one check: publish a checking state first, then either
// the fresh result or an error state that keeps the previous counts. A
// failed check never stops the loop.
func (s *Scheduler) runCycle(cfg config.Config, updates chan<- Update, trigger string) {
	s.publish(updates, Update{State: s.lastState.WithChecking(), Helper: s.lastHelper})

	logrus.Infof("running update check (%s)", trigger)
	checkedAt := time.Now()

	res, err := s.check(context.Background(), cfg)
	if err != nil {
		logrus.Warnf("update check failed: %v", err)
		s.lastState = s.lastState.WithError(err.Error(), checkedAt)
		s.publish(updates, Update{State: s.lastState, Helper: s.lastHelper})
		return
	}

	s.lastState = state.FromSnapshot(res.Snapshot, checkedAt)
	s.lastHelper = res.Helper
	snapshot := res.Snapshot
	s.publish(updates, Update{State: s.lastState, Snapshot: &snapshot, Helper: s.lastHelper})
}

func (s *Scheduler) publish(updates chan<- Update, u Update) {
	select {
	case updates <- u:
	default:
		logrus.Debug("scheduler backpressure: dropping update")
	}
}
