package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	detourErrors "github.com/detourdev/detour/internal/errors"
)

// Initialize sets up the global viper instance: defaults, config file
// discovery, and DETOUR_* environment variables. A missing config file is
// fine; a malformed one is not.
func Initialize() error {
	SetDefaults(viper.GetViper())

	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	for _, path := range GetConfigPaths() {
		viper.AddConfigPath(path)
	}

	viper.SetEnvPrefix("DETOUR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return detourErrors.ErrConfigInvalid(viper.ConfigFileUsed(), err)
		}
	}

	return nil
}

// GetString returns a string value from the global viper instance.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetDuration returns a duration value from the global viper instance.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetInt returns an integer value from the global viper instance.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a boolean value from the global viper instance.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
