package config

import "os"

// Global holds process-wide output toggles set from flags, environment
// variables, or the per-repository config file.
var Global struct {
	Plain bool // Disable colors and symbols
	Debug bool // Enable debug logging
}

// IsPlain returns true if plain output mode is enabled
func IsPlain() bool {
	return Global.Plain
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return Global.Debug
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() {
	if isTruthy(os.Getenv("DETOUR_PLAIN")) {
		Global.Plain = true
	}
	if isTruthy(os.Getenv("DETOUR_DEBUG")) {
		Global.Debug = true
	}
}

func isTruthy(value string) bool {
	return value == "1" || value == "true"
}
