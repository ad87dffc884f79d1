package checker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	defaultPacmanDBPath = "/var/lib/pacman"
	defaultTmpDir       = "/tmp"
	defaultUID          = "0"
)

// ScratchDBPath resolves the disposable database directory used for update
// queries, honoring the same environment contract as checkupdates(8):
// CHECKUPDATES_DB overrides everything, otherwise TMPDIR and UID compose the
// conventional checkup-db location.
func ScratchDBPath() string {
	return scratchDBPathFrom(os.Getenv("CHECKUPDATES_DB"), os.Getenv("TMPDIR"), os.Getenv("UID"))
}

// scratchDBPathFrom is the pure resolution core behind ScratchDBPath. An
// explicit non-blank override wins outright; otherwise the path is composed
// from the temp base and uid, each falling back to a fixed default when
// unset or blank.
func scratchDBPathFrom(override, tmpBase, uid string) string {
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		return trimmed
	}
	if strings.TrimSpace(tmpBase) == "" {
		tmpBase = defaultTmpDir
	}
	if strings.TrimSpace(uid) == "" {
		uid = defaultUID
	}
	return filepath.Join(tmpBase, "checkup-db-"+uid)
}

// prepareScratchDB creates the scratch directory and links its local
// database to the live one, so installed-package state is visible to queries
// without copying it. Safe to call repeatedly.
func prepareScratchDB(ctx context.Context, dbPath string) error {
	if err := os.MkdirAll(dbPath, 0o755); err != nil {
		return &FilesystemError{
			Context: fmt.Sprintf("create temp pacman db at %s", dbPath),
			Err:     err,
		}
	}

	realDB := resolvePacmanDBPath(ctx)
	srcLocal := filepath.Join(realDB, "local")
	dstLocal := filepath.Join(dbPath, "local")

	// Lstat, not Stat: a dangling link still counts as present, and trying
	// to recreate it would fail with EEXIST.
	if _, err := os.Lstat(dstLocal); err == nil {
		return nil
	}
	if err := os.Symlink(srcLocal, dstLocal); err != nil {
		return &FilesystemError{
			Context: fmt.Sprintf("symlink local db from %s to %s", srcLocal, dstLocal),
			Err:     err,
		}
	}
	return nil
}

// resolvePacmanDBPath asks pacman-conf where the live database lives. The
// first non-blank output line is used when it names an existing directory;
// any failure falls back to the stock location instead of aborting the check.
func resolvePacmanDBPath(ctx context.Context) string {
	out, err := runCapture(ctx, ResolvedCommand{Program: "pacman-conf", Args: []string{"DBPath"}}, []int{0})
	if err != nil {
		logrus.Warnf("failed to read DBPath via pacman-conf (%v); using %s", err, defaultPacmanDBPath)
		return defaultPacmanDBPath
	}

	for _, line := range strings.Split(out.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if info, statErr := os.Stat(line); statErr == nil && info.IsDir() {
			return line
		}
		break
	}
	return defaultPacmanDBPath
}

// dbLockGuard guarantees pacman's advisory lock file is removed on every
// exit path from a sync/query sequence. pacman creates db.lck itself; the
// guard only deletes it, and swallows deletion errors so a missing lock is
// never a failure.
type dbLockGuard struct {
	lockFile string
}

func newDBLockGuard(dbPath string) dbLockGuard {
	return dbLockGuard{lockFile: filepath.Join(dbPath, "db.lck")}
}

func (g dbLockGuard) release() {
	_ = os.Remove(g.lockFile)
}

// syncScratchDB refreshes the scratch copy of the sync databases. fakeroot
// keeps pacman happy about ownership without real privileges; the live
// database is never touched.
func syncScratchDB(ctx context.Context, dbPath string) error {
	cmd := ResolvedCommand{
		Program: "fakeroot",
		Args: []string{
			"--",
			"pacman",
			"-Sy",
			"--disable-sandbox-filesystem",
			"--dbpath",
			dbPath,
			"--logfile",
			"/dev/null",
		},
	}

	_, err := runCapture(ctx, cmd, []int{0})
	return err
}

// queryScratchDBUpdates lists upgradeable packages against the scratch
// database. pacman exits 1 when nothing is pending, which is a valid empty
// result rather than an error.
func queryScratchDBUpdates(ctx context.Context, dbPath string) (string, error) {
	cmd := ResolvedCommand{
		Program: "pacman",
		Args: []string{
			"-Qu",
			"--dbpath",
			dbPath,
			"--color",
			"never",
		},
	}

	out, err := runCapture(ctx, cmd, []int{0, 1})
	if err != nil {
		return "", err
	}
	return out.Stdout, nil
}

// filterQueryOutput drops blank lines and bracketed annotation lines
// (e.g. "package [ignored]") that pacman mixes into -Qu output. Surviving
// lines keep their original spelling.
func filterQueryOutput(stdout string) string {
	var kept []string
	for _, line := range strings.Split(stdout, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.Contains(trimmed, "[") && strings.Contains(trimmed, "]") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
