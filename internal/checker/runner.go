package checker

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"
)

// noStderrPlaceholder stands in for empty stderr in error messages so the
// rendered failure always names something.
const noStderrPlaceholder = "<no stderr>"

// ResolvedCommand is a tokenized external command ready to spawn.
type ResolvedCommand struct {
	Program string
	Args    []string
}

// parseCommandString tokenizes a configured command string with POSIX shell
// quoting rules. An empty or untokenizable string is an InvalidCommandError.
func parseCommandString(raw string) (ResolvedCommand, error) {
	parts, err := shellquote.Split(raw)
	if err != nil || len(parts) == 0 {
		return ResolvedCommand{}, &InvalidCommandError{Raw: raw}
	}
	return ResolvedCommand{Program: parts[0], Args: parts[1:]}, nil
}

// shellJoin reconstructs a copy-pasteable command line for error messages.
func shellJoin(cmd ResolvedCommand) string {
	all := make([]string, 0, len(cmd.Args)+1)
	all = append(all, cmd.Program)
	all = append(all, cmd.Args...)
	return shellquote.Join(all...)
}

// commandOutput is what one invocation leaves behind: full stdout and
// trimmed stderr. It lives only as long as the caller needs to parse it.
type commandOutput struct {
	Stdout string
	Stderr string
}

// runCapture spawns the command and blocks until it exits, capturing both
// output streams. Success requires the process to have exited on its own
// with a code in allowedCodes; signal deaths never qualify, even for -1.
// There is no timeout and no output cap: a hung subprocess stalls the
// calling cycle until it finishes.
func runCapture(ctx context.Context, cmd ResolvedCommand, allowedCodes []int) (commandOutput, error) {
	proc := exec.CommandContext(ctx, cmd.Program, cmd.Args...) //nolint:gosec // G204: running configured external tools is this package's job
	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	if err := proc.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// The OS never started the program (missing binary, perms, ...).
			return commandOutput{}, &SpawnError{Program: cmd.Program, Err: err}
		}
	}

	out := commandOutput{
		Stdout: stdout.String(),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	procState := proc.ProcessState
	if procState != nil && procState.Exited() && slices.Contains(allowedCodes, procState.ExitCode()) {
		return out, nil
	}

	code := -1
	if procState != nil && procState.Exited() {
		code = procState.ExitCode()
	}
	stderrText := out.Stderr
	if stderrText == "" {
		stderrText = noStderrPlaceholder
	}
	return commandOutput{}, &ExitStatusError{
		Command: shellJoin(cmd),
		Code:    code,
		Stderr:  stderrText,
	}
}
