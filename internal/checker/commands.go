package checker

import (
	"strings"

	"github.com/pacwatch/pacwatch/internal/config"
)

// BuildDetailsCommand assembles the shell pipeline shown in a terminal when
// the user asks for pending update details. It mirrors what the checks
// themselves run, and ends with a keypress prompt so the window does not
// vanish on exit.
func BuildDetailsCommand(cfg config.Config, helper Helper) (string, error) {
	var pieces []string

	if cfg.OfficialCheckCmd == config.Auto {
		pieces = append(pieces, "pacman -Qu --color never")
	} else {
		official, err := parseCommandString(cfg.OfficialCheckCmd)
		if err != nil {
			return "", err
		}
		official.Args = append(official.Args, "--nocolor")
		pieces = append(pieces, shellJoin(official))
	}

	if cfg.EnableAUR {
		pieces = append(pieces, "echo")
		if helper != HelperNone {
			pieces = append(pieces, helper.Binary()+" -Qua")
		} else {
			pieces = append(pieces, "echo 'AUR helper not found (expected paru or yay)'")
		}
	}

	pieces = append(pieces, "echo")
	pieces = append(pieces, "read -n 1 -s -r -p 'Press any key to close...'")
	return strings.Join(pieces, "; "), nil
}

// BuildUpgradeCommand is the full-upgrade shell command: the configured
// override verbatim when set, otherwise the helper's combined upgrade
// (which covers official packages too) or plain pacman under sudo.
func BuildUpgradeCommand(cfg config.Config, helper Helper) string {
	if cfg.UpgradeCmd != config.Auto {
		return cfg.UpgradeCmd
	}
	if helper != HelperNone {
		return helper.Binary() + " -Syu"
	}
	return OfficialUpgradeCommand()
}

// OfficialUpgradeCommand upgrades official repository packages only.
func OfficialUpgradeCommand() string {
	return "sudo pacman -Syu"
}

// AURUpgradeCommand upgrades AUR packages only, or "" without a helper.
func AURUpgradeCommand(helper Helper) string {
	if helper == HelperNone {
		return ""
	}
	return helper.Binary() + " -Sua"
}
