package checker

import "fmt"

// Typed failures surfaced by the subprocess and filesystem plumbing. The
// scheduler renders these into AppState.LastError and keeps going; one-shot
// callers receive them verbatim.

// SpawnError means the OS could not start a program at all, typically
// because the binary is missing from PATH.
type SpawnError struct {
	Program string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn `%s`: %v", e.Program, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExitStatusError means a program ran but finished outside its allowed
// exit-code set. Code is -1 when the process died without producing an exit
// code (signal death).
type ExitStatusError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("command `%s` exited with %d: %s", e.Command, e.Code, e.Stderr)
}

// InvalidCommandError means a configured command string was empty or could
// not be tokenized with shell quoting rules.
type InvalidCommandError struct {
	Raw string
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("invalid configured command `%s`", e.Raw)
}

// FilesystemError wraps a failed directory or symlink operation with the
// context of what was being attempted.
type FilesystemError struct {
	Context string
	Err     error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed filesystem operation (%s): %v", e.Context, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
