package checker

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/pacwatch/pacwatch/internal/config"
)

// terminalSpec is a resolved terminal emulator invocation: the program, any
// configured extra arguments, and the flag introducing the command to run.
type terminalSpec struct {
	Program       string
	Args          []string
	ExecDelimiter string
}

// fallbackTerminals is tried in order when neither the config nor $TERMINAL
// names an emulator.
var fallbackTerminals = []string{
	"kitty",
	"alacritty",
	"gnome-terminal",
	"konsole",
	"xfce4-terminal",
	"xterm",
}

// LaunchInTerminal starts an interactive shell command in a terminal
// emulator and returns without waiting. The returned handle lets a caller
// observe process exit, e.g. to refresh once an upgrade window closes.
func LaunchInTerminal(cfg config.Config, shellCommand string) (*exec.Cmd, error) {
	spec, ok := resolveTerminal(cfg.Terminal)
	if !ok {
		return nil, &InvalidCommandError{Raw: "no supported terminal found (set terminal in config)"}
	}

	args := append([]string{}, spec.Args...)
	args = append(args, spec.ExecDelimiter, "bash", "-lc", shellCommand)

	proc := exec.Command(spec.Program, args...) //nolint:gosec // G204: launching the user's terminal is the point
	if err := proc.Start(); err != nil {
		return nil, &SpawnError{Program: spec.Program, Err: err}
	}
	return proc, nil
}

// resolveTerminal picks the emulator to use: the configured value when set,
// then $TERMINAL, then the first known emulator found on PATH.
func resolveTerminal(configured string) (terminalSpec, bool) {
	termEnv, termEnvSet := os.LookupEnv("TERMINAL")
	return resolveTerminalFrom(configured, termEnv, termEnvSet, os.Getenv("PATH"))
}

func resolveTerminalFrom(configured, termEnv string, termEnvSet bool, pathEnv string) (terminalSpec, bool) {
	if configured != config.Auto {
		spec, err := parseTerminalSpec(configured)
		if err != nil {
			return terminalSpec{}, false
		}
		return spec, true
	}

	if termEnvSet {
		spec, err := parseTerminalSpec(termEnv)
		if err == nil {
			return spec, true
		}
		logrus.Warnf("failed to parse TERMINAL=%s, falling back to defaults", termEnv)
	}

	for _, candidate := range fallbackTerminals {
		if hasBinary(candidate, pathEnv) {
			return terminalSpec{
				Program:       candidate,
				ExecDelimiter: terminalExecDelimiter(candidate),
			}, true
		}
	}
	return terminalSpec{}, false
}

// parseTerminalSpec tokenizes a configured terminal command. The exec
// delimiter is keyed on the program's base name so absolute paths behave
// the same as bare names.
func parseTerminalSpec(raw string) (terminalSpec, error) {
	cmd, err := parseCommandString(raw)
	if err != nil {
		return terminalSpec{}, err
	}
	return terminalSpec{
		Program:       cmd.Program,
		Args:          cmd.Args,
		ExecDelimiter: terminalExecDelimiter(filepath.Base(cmd.Program)),
	}, nil
}

// gnome-terminal dropped -e; everything else here still takes it.
func terminalExecDelimiter(programName string) string {
	if programName == "gnome-terminal" {
		return "--"
	}
	return "-e"
}
