package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	detourErrors "github.com/detourdev/detour/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)

	require.NoError(t, err)
	assert.Equal(t, "origin", cfg.Git.DefaultRemote)
	assert.Equal(t, 30*time.Second, cfg.Git.FetchTimeout)
	assert.Equal(t, time.Duration(0), cfg.Checkout.OperationTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("git.default_remote", "upstream")
	v.Set("git.fetch_timeout", "5s")
	v.Set("logging.level", "debug")
	v.Set("logging.format", "json")

	cfg, err := Load(v)

	require.NoError(t, err)
	assert.Equal(t, "upstream", cfg.Git.DefaultRemote)
	assert.Equal(t, 5*time.Second, cfg.Git.FetchTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("logging.level", "verbose")

	_, err := Load(v)

	require.Error(t, err)
	assert.Equal(t, detourErrors.ErrCodeConfigInvalid, detourErrors.GetErrorCode(err))
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("logging.format", "xml")

	_, err := Load(v)

	require.Error(t, err)
	assert.Equal(t, detourErrors.ErrCodeConfigInvalid, detourErrors.GetErrorCode(err))
}

func TestLoad_EmptyRemote(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("git.default_remote", "")

	_, err := Load(v)

	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	Global.Plain = false
	Global.Debug = false
	t.Cleanup(func() {
		Global.Plain = false
		Global.Debug = false
	})

	t.Setenv("DETOUR_PLAIN", "1")
	t.Setenv("DETOUR_DEBUG", "true")

	LoadFromEnv()

	assert.True(t, IsPlain())
	assert.True(t, IsDebug())
}

func TestLoadFromEnv_Falsy(t *testing.T) {
	Global.Plain = false
	Global.Debug = false

	t.Setenv("DETOUR_PLAIN", "0")
	t.Setenv("DETOUR_DEBUG", "no")

	LoadFromEnv()

	assert.False(t, IsPlain())
	assert.False(t, IsDebug())
}
