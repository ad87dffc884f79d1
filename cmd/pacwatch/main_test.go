package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoglobals // test binary path is set in TestMain
var testBinaryPath string

// TestMain builds the CLI binary once for the entire package and reuses it.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "pacwatch-test-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1) //nolint:gocritic // Mkdir failed, nothing to cleanup
	}
	defer os.RemoveAll(dir)

	bin := filepath.Join(dir, "pacwatch-test")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build test binary: %v\nOutput: %s\n", err, string(out))
		os.Exit(1) //nolint:gocritic // Binary failed, nothing to cleanup
	}
	testBinaryPath = bin

	code := m.Run()
	os.Exit(code)
}

func buildTestBinary(t *testing.T) string {
	t.Helper()
	if testBinaryPath == "" {
		t.Fatalf("test binary not built")
	}
	return testBinaryPath
}

// setCmdEnv pins HOME, XDG dirs, and PATH so tests never see the host's
// package managers or config files.
func setCmdEnv(cmd *exec.Cmd, home, pathDir string) {
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
		"XDG_CACHE_HOME="+filepath.Join(home, ".cache"),
		"PATH="+pathDir,
	)
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755)) //nolint:gosec // test fixture must be executable
	return path
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCLI_HelpOutput(t *testing.T) {
	binary := buildTestBinary(t)

	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name: "root help",
			args: []string{"--help"},
			contains: []string{
				"pacwatch",
				"pending package updates",
				"check",
				"watch",
				"helper",
				"--config",
				"--verbose",
			},
		},
		{
			name: "check help",
			args: []string{"check", "--help"},
			contains: []string{
				"scratch copy",
				"--json",
				"--no-aur",
			},
		},
		{
			name: "watch help",
			args: []string{"watch", "--help"},
			contains: []string{
				"--headless",
				"--poll-minutes",
				"--no-aur",
				"--no-notify",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binary, tt.args...)
			output, err := cmd.CombinedOutput()

			// Help commands should exit with code 0.
			require.NoError(t, err)

			outputStr := string(output)
			for _, expected := range tt.contains {
				assert.Contains(t, outputStr, expected)
			}
		})
	}
}

func TestCLI_Version(t *testing.T) {
	binary := buildTestBinary(t)

	output, err := exec.Command(binary, "--version").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "pacwatch dev")
	assert.Contains(t, string(output), "commit: none")
}

func TestCLI_UnknownCommand(t *testing.T) {
	binary := buildTestBinary(t)

	output, err := exec.Command(binary, "invalid-command").CombinedOutput()
	require.Error(t, err)
	assert.Contains(t, string(output), "unknown command")
}

func TestCLI_HelperCommand(t *testing.T) {
	binary := buildTestBinary(t)

	tests := []struct {
		name   string
		config string
		tools  []string
		want   string
	}{
		{
			name: "nothing installed",
			want: "none\n",
		},
		{
			name:  "paru preferred in auto mode",
			tools: []string{"paru", "yay"},
			want:  "paru\n",
		},
		{
			name:   "pinned to yay",
			config: "aur_helper: yay\n",
			tools:  []string{"paru", "yay"},
			want:   "yay\n",
		},
		{
			name:   "aur disabled",
			config: "enable_aur: false\n",
			tools:  []string{"paru"},
			want:   "none\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			binDir := t.TempDir()
			for _, tool := range tt.tools {
				writeScript(t, binDir, tool, "exit 0\n")
			}

			args := []string{"helper"}
			if tt.config != "" {
				args = append(args, "--config", writeConfig(t, t.TempDir(), tt.config))
			}

			cmd := exec.Command(binary, args...)
			setCmdEnv(cmd, home, binDir)
			output, err := cmd.CombinedOutput()
			require.NoError(t, err, "Output: %s", string(output))
			assert.Equal(t, tt.want, string(output))
		})
	}
}

// A custom official_check_cmd lets the whole check pipeline run against a
// stub script, keeping the host's pacman out of the picture.
func TestCLI_CheckWithCustomCommand(t *testing.T) {
	binary := buildTestBinary(t)

	home := t.TempDir()
	binDir := t.TempDir()
	stub := writeScript(t, binDir, "fake-checkupdates",
		"printf '%s\\n' 'linux 6.9-1 -> 6.10-1' 'pacman 6.1.0-1 -> 6.1.1-1'\n")
	configPath := writeConfig(t, t.TempDir(), "official_check_cmd: "+stub+"\n")

	t.Run("banner report", func(t *testing.T) {
		cmd := exec.Command(binary, "check", "--no-aur", "--config", configPath)
		setCmdEnv(cmd, home, binDir)
		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stdout

		err := cmd.Run()
		output := stdout.String()
		require.NoError(t, err, "Output: %s", output)

		assert.Contains(t, output, "PACWATCH UPDATE REPORT")
		assert.Contains(t, output, "Pending: 2 official, 0 AUR, 2 total")
		assert.Contains(t, output, "linux 6.9-1 -> 6.10-1")
		assert.Contains(t, output, "AUR Helper: none detected")

		// A successful check seeds the state cache for the next watch session.
		cacheFile := filepath.Join(home, ".cache", "pacwatch", "state.json")
		require.FileExists(t, cacheFile)
		cached, err := os.ReadFile(cacheFile)
		require.NoError(t, err)
		assert.Contains(t, string(cached), `"total_count": 2`)
	})

	t.Run("json report", func(t *testing.T) {
		cmd := exec.Command(binary, "check", "--json", "--no-aur", "--config", configPath)
		setCmdEnv(cmd, home, binDir)
		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = os.Stderr

		err := cmd.Run()
		require.NoError(t, err, "Output: %s", stdout.String())

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result), "Output should be valid JSON: %s", stdout.String())
		assert.InDelta(t, 2, result["total_count"], 0)
		assert.Equal(t, "none", result["helper"])

		official, ok := result["official"].([]interface{})
		require.True(t, ok)
		require.Len(t, official, 2)
		first, ok := official[0].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "linux", first["name"])
		assert.Equal(t, "6.10-1", first["latest"])
	})
}

func TestCLI_CheckFailureExitsNonZero(t *testing.T) {
	binary := buildTestBinary(t)

	home := t.TempDir()
	binDir := t.TempDir()
	stub := writeScript(t, binDir, "fake-checkupdates", "echo 'database locked' >&2\nexit 3\n")
	configPath := writeConfig(t, t.TempDir(), "official_check_cmd: "+stub+"\n")

	cmd := exec.Command(binary, "check", "--no-aur", "--config", configPath)
	setCmdEnv(cmd, home, binDir)
	output, err := cmd.CombinedOutput()

	require.Error(t, err)
	assert.Contains(t, string(output), "update check failed")
	assert.Contains(t, string(output), "database locked")
}

func TestCLI_InvalidConfigRejected(t *testing.T) {
	binary := buildTestBinary(t)

	home := t.TempDir()
	configPath := writeConfig(t, t.TempDir(), "aur_helper: pamac\n")

	cmd := exec.Command(binary, "helper", "--config", configPath)
	setCmdEnv(cmd, home, t.TempDir())
	output, err := cmd.CombinedOutput()

	require.Error(t, err)
	assert.Contains(t, string(output), "invalid config")
}
