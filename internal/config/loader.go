package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vovakirdan/tran/internal/core"
)

// DefaultPath returns the config location under the user config directory,
// e.g. ~/.config/tran/config on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: could not find config dir: %w", core.ErrConfig, err)
	}
	return filepath.Join(dir, "tran", "config"), nil
}

// Load reads and parses the config at path.
// A missing file is reported with core.ErrFileNotFound so callers can offer
// to create one.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", core.ErrFileRead, path, err)
	}

	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path through a temporary file and a rename, so an
// interrupted write never leaves a truncated config behind.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", core.ErrWritingConfig, path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, Marshal(cfg), 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %s: %w", core.ErrWritingConfig, path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %s: %w", core.ErrWritingConfig, path, err)
	}
	return nil
}

// Init writes the default config to path. An existing file is only replaced
// when force is set. Returns whether a file was written.
func Init(path string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}
	if err := Save(path, Default()); err != nil {
		return false, err
	}
	return true, nil
}
