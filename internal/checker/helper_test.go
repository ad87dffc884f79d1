//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package checker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacwatch/pacwatch/internal/config"
)

// writeFakeBinary drops an executable stub script into dir under the given
// name and returns its path.
func writeFakeBinary(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	return path
}

func TestHelper_Strings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", HelperNone.String())
	assert.Equal(t, "", HelperNone.Binary())
	assert.Equal(t, "paru", HelperParu.String())
	assert.Equal(t, "paru", HelperParu.Binary())
	assert.Equal(t, "yay", HelperYay.String())
	assert.Equal(t, "yay", HelperYay.Binary())
}

func TestHelper_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	for _, h := range []Helper{HelperNone, HelperParu, HelperYay} {
		data, err := json.Marshal(h)
		require.NoError(t, err)

		var back Helper
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, h, back)
	}

	var h Helper
	require.NoError(t, json.Unmarshal([]byte(`""`), &h))
	assert.Equal(t, HelperNone, h)

	err := json.Unmarshal([]byte(`"pamac"`), &h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pamac")
}

func TestDetectHelperInPath(t *testing.T) {
	t.Parallel()

	paruDir := t.TempDir()
	yayDir := t.TempDir()
	emptyDir := t.TempDir()
	writeFakeBinary(t, paruDir, "paru")
	writeFakeBinary(t, yayDir, "yay")

	join := func(dirs ...string) string { return strings.Join(dirs, string(os.PathListSeparator)) }

	tests := []struct {
		name    string
		mode    config.HelperMode
		pathEnv string
		want    Helper
	}{
		{
			name:    "auto prefers paru even when yay comes first",
			mode:    config.HelperModeAuto,
			pathEnv: join(yayDir, paruDir),
			want:    HelperParu,
		},
		{
			name:    "auto falls back to yay",
			mode:    config.HelperModeAuto,
			pathEnv: join(emptyDir, yayDir),
			want:    HelperYay,
		},
		{
			name:    "auto with neither installed",
			mode:    config.HelperModeAuto,
			pathEnv: join(emptyDir),
			want:    HelperNone,
		},
		{
			name:    "explicit paru ignores yay",
			mode:    config.HelperModeParu,
			pathEnv: join(yayDir),
			want:    HelperNone,
		},
		{
			name:    "explicit yay ignores paru",
			mode:    config.HelperModeYay,
			pathEnv: join(paruDir, yayDir),
			want:    HelperYay,
		},
		{
			name:    "mode none never detects",
			mode:    config.HelperModeNone,
			pathEnv: join(paruDir, yayDir),
			want:    HelperNone,
		},
		{
			name:    "empty search path",
			mode:    config.HelperModeAuto,
			pathEnv: "",
			want:    HelperNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, detectHelperInPath(tt.mode, tt.pathEnv))
		})
	}
}

func TestDetectHelperInPath_SkipsNonExecutables(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paru"), []byte("not runnable"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "yay"), 0o755))

	assert.Equal(t, HelperNone, detectHelperInPath(config.HelperModeAuto, dir))
}

func TestDetectHelper_DisabledAUR(t *testing.T) {
	dir := t.TempDir()
	writeFakeBinary(t, dir, "paru")
	t.Setenv("PATH", dir)

	assert.Equal(t, HelperNone, DetectHelper(config.HelperModeAuto, false))
	assert.Equal(t, HelperParu, DetectHelper(config.HelperModeAuto, true))
}
