package config

import (
	"time"

	"github.com/spf13/viper"

	detourErrors "github.com/detourdev/detour/internal/errors"
)

// Config is the resolved runtime configuration, merged from defaults, the
// config file, environment variables, and flags.
type Config struct {
	Git struct {
		DefaultRemote string        `mapstructure:"default_remote"`
		FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	} `mapstructure:"git"`

	Checkout struct {
		// OperationTimeout bounds how long the wrapped operation may run.
		// Zero means no limit.
		OperationTimeout time.Duration `mapstructure:"operation_timeout"`
	} `mapstructure:"checkout"`

	Retry struct {
		MaxAttempts int           `mapstructure:"max_attempts"`
		BaseDelay   time.Duration `mapstructure:"base_delay"`
		MaxDelay    time.Duration `mapstructure:"max_delay"`
		Jitter      bool          `mapstructure:"jitter_enabled"`
	} `mapstructure:"retry"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logging"`
}

// SetDefaults registers every configuration key with its default value.
func SetDefaults(v *viper.Viper) {
	// Git defaults.
	v.SetDefault("git.default_remote", "origin")
	v.SetDefault("git.fetch_timeout", 30*time.Second)

	// Checkout defaults.
	v.SetDefault("checkout.operation_timeout", time.Duration(0))

	// Retry defaults for transient fetch failures.
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.base_delay", 1*time.Second)
	v.SetDefault("retry.max_delay", 10*time.Second)
	v.SetDefault("retry.jitter_enabled", true)

	// Logging defaults (matching the logger's own defaults).
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load unmarshals the viper instance into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, detourErrors.ErrConfigInvalid("settings", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if !contains(ValidLogLevels(), cfg.Logging.Level) {
		return detourErrors.ErrConfigInvalid("logging.level", nil).
			WithContext("value", cfg.Logging.Level)
	}
	if !contains(ValidLogFormats(), cfg.Logging.Format) {
		return detourErrors.ErrConfigInvalid("logging.format", nil).
			WithContext("value", cfg.Logging.Format)
	}
	if cfg.Git.DefaultRemote == "" {
		return detourErrors.ErrConfigInvalid("git.default_remote", nil)
	}
	return nil
}

func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

func ValidLogFormats() []string {
	return []string{"text", "json"}
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
