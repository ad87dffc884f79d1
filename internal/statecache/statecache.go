package statecache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pacwatch/pacwatch/internal/checker"
	"github.com/pacwatch/pacwatch/internal/state"
	"github.com/pacwatch/pacwatch/internal/validate"
)

// Data is the structure of the cache file: the last published state and
// snapshot, so a fresh start can show something sensible before its first
// check finishes.
type Data struct {
	InstallID string               `json:"install_id,omitempty" validate:"omitempty,uuid4"`
	SavedAt   time.Time            `json:"saved_at,omitempty"`
	State     state.AppState       `json:"state"`
	Snapshot  state.UpdateSnapshot `json:"snapshot"`
	Helper    checker.Helper       `json:"helper"`
}

// Cache handles the loading and saving of the cache file.
type Cache struct {
	Path string `validate:"required,filepath"`
	Data Data
}

// DefaultPath is where the cache lives unless overridden.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "pacwatch", "state.json"), nil
}

// New creates a Cache instance, loading the existing file when present. A
// missing file is not an error; the cache starts from a clean slate.
func New(path string) (*Cache, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		Path: expandedPath,
		Data: Data{State: state.New()},
	}

	if err := c.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if c.Data.InstallID == "" {
		c.Data.InstallID = uuid.NewString()
	}

	return c, nil
}

func (c *Cache) Load() error {
	logrus.Debug("Loading state cache from: ", c.Path)
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &c.Data); err != nil {
		return err
	}

	// Validate loaded data and self-heal when possible.
	if err := validate.Struct(c.Data); err != nil {
		if c.Data.InstallID == "" || validate.Var(c.Data.InstallID, "uuid4") != nil {
			logrus.Warn("Invalid install_id found in state cache; regenerating.")
			c.Data.InstallID = uuid.NewString()
			if err := c.Save(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Record replaces the cached state with the outcome of a settled check.
// Call Save to persist it.
func (c *Cache) Record(st state.AppState, snapshot state.UpdateSnapshot, helper checker.Helper) {
	c.Data.State = st
	c.Data.Snapshot = snapshot
	c.Data.Helper = helper
	c.Data.SavedAt = time.Now()
}

// Save writes the cache data to the file.
func (c *Cache) Save() error {
	logrus.Debug("Saving state cache to: ", c.Path)
	// Ensure parent directory exists.
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c.Data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.Path, data, 0o600)
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
