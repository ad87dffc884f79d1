package checker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pacwatch/pacwatch/internal/config"
)

// Helper identifies a detected AUR helper program. Values are only ever
// produced by detection; nothing else constructs them.
type Helper int

const (
	HelperNone Helper = iota
	HelperParu
	HelperYay
)

// Binary returns the helper's executable name, or "" for HelperNone.
func (h Helper) Binary() string {
	switch h {
	case HelperParu:
		return "paru"
	case HelperYay:
		return "yay"
	}
	return ""
}

func (h Helper) String() string {
	if h == HelperNone {
		return "none"
	}
	return h.Binary()
}

// MarshalJSON encodes the helper as its binary name (or "none").
func (h Helper) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a helper from its binary name.
func (h *Helper) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "none", "":
		*h = HelperNone
	case "paru":
		*h = HelperParu
	case "yay":
		*h = HelperYay
	default:
		return fmt.Errorf("unknown aur helper %q", raw)
	}
	return nil
}

// DetectHelper scans $PATH for an available AUR helper according to the
// configured mode. Disabled AUR checking always yields HelperNone.
func DetectHelper(mode config.HelperMode, aurEnabled bool) Helper {
	if !aurEnabled {
		return HelperNone
	}
	return detectHelperInPath(mode, os.Getenv("PATH"))
}

// detectHelperInPath is the pure core of DetectHelper: all inputs explicit,
// no process environment reads. Auto mode checks paru across the entire
// search path before considering yay at all, so paru wins whenever both are
// installed regardless of directory order.
func detectHelperInPath(mode config.HelperMode, pathEnv string) Helper {
	switch mode {
	case config.HelperModeNone:
		return HelperNone
	case config.HelperModeParu:
		if hasBinary(HelperParu.Binary(), pathEnv) {
			return HelperParu
		}
		return HelperNone
	case config.HelperModeYay:
		if hasBinary(HelperYay.Binary(), pathEnv) {
			return HelperYay
		}
		return HelperNone
	default: // config.HelperModeAuto
		if hasBinary(HelperParu.Binary(), pathEnv) {
			return HelperParu
		}
		if hasBinary(HelperYay.Binary(), pathEnv) {
			return HelperYay
		}
		return HelperNone
	}
}

// hasBinary reports whether an executable regular file with the given name
// exists in any directory of the search path.
func hasBinary(binary, pathEnv string) bool {
	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			continue
		}
		if isExecutableFile(filepath.Join(dir, binary)) {
			return true
		}
	}
	return false
}

// isExecutableFile means: exists, is a regular file, and at least one of the
// owner/group/other execute bits is set.
func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
