package checker

import (
	"context"

	"github.com/pacwatch/pacwatch/internal/config"
	"github.com/pacwatch/pacwatch/internal/state"
)

// Result is what one full check produced: the parsed snapshot plus the AUR
// helper that was used (HelperNone when AUR checking was off or nothing was
// installed).
type Result struct {
	Snapshot state.UpdateSnapshot
	Helper   Helper
}

// Check runs the official check and, when enabled and a helper is present,
// the AUR check. Sources are checked sequentially and the first failure
// aborts the whole check; there is no partial result.
func Check(ctx context.Context, cfg config.Config) (*Result, error) {
	official, err := runOfficialCheck(ctx, cfg)
	if err != nil {
		return nil, err
	}

	helper := DetectHelper(cfg.AURHelper, cfg.EnableAUR)

	var aur []state.PackageUpdate
	if helper != HelperNone {
		aur, err = runAURCheck(ctx, helper)
		if err != nil {
			return nil, err
		}
	}

	return &Result{
		Snapshot: state.UpdateSnapshot{Official: official, AUR: aur},
		Helper:   helper,
	}, nil
}

func runOfficialCheck(ctx context.Context, cfg config.Config) ([]state.PackageUpdate, error) {
	if cfg.OfficialCheckCmd != config.Auto {
		return runCustomOfficialCheck(ctx, cfg.OfficialCheckCmd)
	}

	dbPath := ScratchDBPath()
	if err := prepareScratchDB(ctx, dbPath); err != nil {
		return nil, err
	}
	guard := newDBLockGuard(dbPath)
	defer guard.release()

	if err := syncScratchDB(ctx, dbPath); err != nil {
		return nil, err
	}
	out, err := queryScratchDBUpdates(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	return ParseUpdates(filterQueryOutput(out), state.SourceOfficial), nil
}

// runCustomOfficialCheck handles a user-supplied check command. Exit code 2
// is checkupdates(8) for "no updates"; output is parsed as-is, without the
// pacman -Qu annotation filter.
func runCustomOfficialCheck(ctx context.Context, rawCmd string) ([]state.PackageUpdate, error) {
	cmd, err := parseCommandString(rawCmd)
	if err != nil {
		return nil, err
	}
	cmd.Args = append(cmd.Args, "--nocolor")

	out, err := runCapture(ctx, cmd, []int{0, 2})
	if err != nil {
		return nil, err
	}
	return ParseUpdates(out.Stdout, state.SourceOfficial), nil
}

func runAURCheck(ctx context.Context, helper Helper) ([]state.PackageUpdate, error) {
	cmd := ResolvedCommand{Program: helper.Binary(), Args: []string{"-Qua"}}

	out, err := runCapture(ctx, cmd, []int{0, 1})
	if err != nil {
		return nil, err
	}
	return ParseUpdates(out.Stdout, state.SourceAUR), nil
}
