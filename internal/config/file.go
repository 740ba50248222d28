package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	detourErrors "github.com/detourdev/detour/internal/errors"
)

// FileName is the per-repository config file, looked up in the repository
// root.
const FileName = ".detour.toml"

// FileConfig is the subset of settings that make sense per repository.
type FileConfig struct {
	// Remote overrides git.default_remote for this repository.
	Remote string `toml:"remote"`
	Plain  bool   `toml:"plain"`
	Debug  bool   `toml:"debug"`
}

// LoadFromFile returns a zero config when the file is missing and an error
// only when the file exists but cannot be parsed.
func LoadFromFile(dir string) (FileConfig, error) {
	var cfg FileConfig
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, detourErrors.ErrConfigInvalid(path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, detourErrors.ErrConfigInvalid(path, err)
	}

	return cfg, nil
}

// FileConfigExists reports whether the repository carries a config file.
func FileConfigExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil
}

// WriteToFile uses atomic write (temp file + rename) to prevent corruption.
func WriteToFile(dir string, cfg *FileConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, FileName)
	tmpPath := fmt.Sprintf("%s.tmp.%d.%d", path, os.Getpid(), time.Now().UnixNano())

	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
