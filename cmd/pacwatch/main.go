package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pacwatch/pacwatch/internal/checker"
	"github.com/pacwatch/pacwatch/internal/config"
	"github.com/pacwatch/pacwatch/internal/notify"
	"github.com/pacwatch/pacwatch/internal/sched"
	"github.com/pacwatch/pacwatch/internal/state"
	"github.com/pacwatch/pacwatch/internal/statecache"
	"github.com/pacwatch/pacwatch/internal/tui"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	configPath  string
	verbose     bool
	jsonOutput  bool
	noAUR       bool
	noNotify    bool
	headless    bool
	pollMinutes int

	rootCmd = &cobra.Command{
		Use:   "pacwatch",
		Short: "A lightweight update watcher for Arch Linux (pacman + AUR).",
		Long: `pacwatch keeps an eye on pending package updates without touching the real
pacman database. It syncs a scratch copy of the sync databases, counts pending
official and AUR updates, and can either print a one-shot report or sit in the
background showing a live status view with desktop notifications.`,
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Path to the YAML config file (default: ~/.config/pacwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")

	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report in JSON format instead of rich text")
	checkCmd.Flags().BoolVar(&noAUR, "no-aur", false, "Skip the AUR check for this run")

	watchCmd.Flags().BoolVar(&headless, "headless", false, "Run without the interactive TUI, logging state changes instead")
	watchCmd.Flags().IntVar(&pollMinutes, "poll-minutes", 0, "Override the poll interval in minutes")
	watchCmd.Flags().BoolVar(&noAUR, "no-aur", false, "Disable AUR checking")
	watchCmd.Flags().BoolVar(&noNotify, "no-notify", false, "Disable desktop notifications on count changes")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(helperCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

// loadConfig merges defaults, the config file, and flag overrides, dying on
// an unreadable or invalid file.
func loadConfig() config.Config {
	cfg, path, err := config.Load(configPath, config.Overrides{
		PollMinutes: pollMinutes,
		NoAUR:       noAUR,
		NoNotify:    noNotify,
	})
	if err != nil {
		logrus.Fatal(err)
	}
	logrus.Debugf("using config from %s", path)
	return cfg
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single update check and print the report",
	Long: `Run one update check against a scratch copy of the pacman sync databases
(plus the AUR when enabled) and print the pending updates. The real package
database is never modified.`,
	Run: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else if jsonOutput {
			logrus.SetLevel(logrus.WarnLevel)
		}

		cfg := loadConfig()

		startedAt := time.Now()
		result, err := checker.Check(cmd.Context(), cfg)
		if err != nil {
			logrus.Fatalf("update check failed: %v", err)
		}

		report := checker.NewReport(result, startedAt, time.Since(startedAt))
		checker.PrintReport(os.Stdout, report, jsonOutput)

		// A cache problem must not fail a successful check.
		if err := recordCheck(result, startedAt); err != nil {
			logrus.Debugf("skipping state cache update: %v", err)
		}
	},
}

// recordCheck persists a one-shot result to the state cache so the next
// watch session starts from it.
func recordCheck(result *checker.Result, checkedAt time.Time) error {
	path, err := statecache.DefaultPath()
	if err != nil {
		return err
	}
	cache, err := statecache.New(path)
	if err != nil {
		return err
	}
	cache.Record(state.FromSnapshot(result.Snapshot, checkedAt), result.Snapshot, result.Helper)
	return cache.Save()
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for updates continuously",
	Long: `Check for updates on a schedule and present the results. By default this
opens an interactive terminal UI; with --headless it logs state changes
instead, which suits running under a service manager.`,
	Run: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}

		cfg := loadConfig()

		cachePath, err := statecache.DefaultPath()
		if err != nil {
			logrus.Fatalf("unable to locate state cache: %v", err)
		}
		cache, err := statecache.New(cachePath)
		if err != nil {
			logrus.Fatalf("unable to open state cache: %v", err)
		}

		if headless {
			if err := runHeadless(cfg, cache); err != nil {
				logrus.Fatal(err)
			}
			return
		}

		if err := tui.Run(cfg, cache); err != nil {
			logrus.Fatalf("TUI mode failed: %v", err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var helperCmd = &cobra.Command{
	Use:   "helper",
	Short: "Print which AUR helper pacwatch would use",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		helper := checker.DetectHelper(cfg.AURHelper, cfg.EnableAUR)
		fmt.Fprintln(os.Stdout, helper.String())
	},
}

// updateBacklog sizes the scheduler update channel in headless mode.
const updateBacklog = 16

// runHeadless consumes scheduler updates and logs them until interrupted.
func runHeadless(cfg config.Config, cache *statecache.Cache) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	updates := make(chan sched.Update, updateBacklog)
	scheduler := sched.Start(cfg, updates, sched.WithBaseline(cache.Data.State, cache.Data.Helper))
	notifier := notify.New()

	lastSnapshot := cache.Data.Snapshot
	for {
		select {
		case <-ctx.Done():
			logrus.Info("shutting down")
			scheduler.Quit()
			<-scheduler.Done()
			return nil

		case u := <-updates:
			logUpdate(u)
			if u.State.Status == state.StatusChecking {
				continue
			}
			if cfg.NotifyOnChange {
				notifier.Observe(u.State.TotalCount)
			}
			if u.Snapshot != nil {
				lastSnapshot = *u.Snapshot
			}
			cache.Record(u.State, lastSnapshot, u.Helper)
			if err := cache.Save(); err != nil {
				logrus.Warnf("failed to persist state cache: %v", err)
			}
		}
	}
}

func logUpdate(u sched.Update) {
	switch u.State.Status {
	case state.StatusChecking:
		logrus.Debug("checking for updates")
	case state.StatusUpToDate:
		logrus.Info("system is up to date")
	case state.StatusUpdatesAvailable:
		logrus.Infof(
			"%d updates pending (%d official, %d AUR)",
			u.State.TotalCount,
			u.State.OfficialCount,
			u.State.AURCount,
		)
	case state.StatusError:
		// The scheduler already warned with the failure; record the transition only.
		logrus.Debugf("entered error state: %s", u.State.LastError)
	}
}

func main() {
	Execute()
}
