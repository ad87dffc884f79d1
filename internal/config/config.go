// Package config loads the pacwatch configuration: compiled-in defaults,
// overridden by the YAML config file, overridden by command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pacwatch/pacwatch/internal/validate"
)

// Auto is the sentinel meaning "work it out at run time" for the fields
// that accept a custom command or terminal override.
const Auto = "auto"

// HelperMode selects which AUR helper detection should consider.
type HelperMode string

const (
	HelperModeAuto HelperMode = "auto"
	HelperModeParu HelperMode = "paru"
	HelperModeYay  HelperMode = "yay"
	HelperModeNone HelperMode = "none"
)

// Config is the effective configuration after merging. Captured by value at
// scheduler start and immutable from then on.
type Config struct {
	PollMinutes      int        `yaml:"poll_minutes" validate:"min=1"`
	NotifyOnChange   bool       `yaml:"notify_on_change"`
	EnableAUR        bool       `yaml:"enable_aur"`
	Terminal         string     `yaml:"terminal"`
	OfficialCheckCmd string     `yaml:"official_check_cmd"`
	AURHelper        HelperMode `yaml:"aur_helper" validate:"oneof=auto paru yay none"`
	UpgradeCmd       string     `yaml:"upgrade_cmd"`
}

// Overrides carries command-line values that beat the file.
type Overrides struct {
	// PollMinutes replaces the merged poll interval when greater than zero.
	PollMinutes int
	// NoAUR disables AUR checking regardless of the file.
	NoAUR bool
	// NoNotify disables change notifications regardless of the file.
	NoNotify bool
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		PollMinutes:      30,
		NotifyOnChange:   true,
		EnableAUR:        true,
		Terminal:         Auto,
		OfficialCheckCmd: Auto,
		AURHelper:        HelperModeAuto,
		UpgradeCmd:       Auto,
	}
}

// DefaultPath returns the per-user config location, typically
// ~/.config/pacwatch/config.yaml.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "pacwatch", "config.yaml")
}

// Load merges defaults, the YAML file at path (DefaultPath when path is
// empty), and the CLI overrides, in that order. A missing file is not an
// error. Returns the path actually consulted alongside the config.
func Load(path string, overrides Overrides) (Config, string, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return Config{}, path, fmt.Errorf("reading config at %s: %w", path, err)
	default:
		// Decoding into the prefilled struct leaves keys absent from the
		// file at their default values.
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, path, fmt.Errorf("parsing config at %s: %w", path, err)
		}
	}

	if cfg.PollMinutes < 1 {
		cfg.PollMinutes = 1
	}
	if overrides.PollMinutes > 0 {
		cfg.PollMinutes = overrides.PollMinutes
	}
	if overrides.NoAUR {
		cfg.EnableAUR = false
	}
	if overrides.NoNotify {
		cfg.NotifyOnChange = false
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, path, fmt.Errorf("invalid config at %s: %w", path, err)
	}

	return cfg, path, nil
}
