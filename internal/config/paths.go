package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// GetConfigPaths returns the directories searched for a config file,
// highest precedence first.
func GetConfigPaths() []string {
	var paths []string

	// 1. Environment variable override (highest precedence)
	if envPath := os.Getenv("DETOUR_CONFIG"); envPath != "" {
		paths = append(paths, filepath.Dir(envPath))
	}

	// 2. Current directory (project-specific config)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, cwd)
	}

	// 3. User config directory (platform-specific)
	if userConfigDir := getUserConfigDir(); userConfigDir != "" {
		paths = append(paths, userConfigDir)
	}

	// 4. Home directory (fallback)
	if homeDir := getHomeDir(); homeDir != "" {
		paths = append(paths, homeDir)
	}

	return paths
}

// getUserConfigDir returns the user's config directory based on platform
func getUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "detour")
		}
		return ""
	case "darwin":
		if homeDir := getHomeDir(); homeDir != "" {
			return filepath.Join(homeDir, "Library", "Application Support", "detour")
		}
		return ""
	default:
		// XDG Base Directory specification
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, "detour")
		}
		if homeDir := getHomeDir(); homeDir != "" {
			return filepath.Join(homeDir, ".config", "detour")
		}
		return ""
	}
}

func getHomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		return userProfile
	}
	return ""
}

// GetDefaultConfigPath returns the default config file path for the current
// platform, or an empty string when no config directory is available.
func GetDefaultConfigPath() string {
	configDir := getUserConfigDir()
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, "config.toml")
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir := getUserConfigDir()
	if configDir == "" {
		return nil
	}
	return os.MkdirAll(configDir, 0o755)
}
