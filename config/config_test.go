package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsAndRequired(t *testing.T) {
	t.Setenv("CAL_API_KEY", "cal_test_key")

	cfg, err := New[Config]("")
	require.NoError(t, err)

	assert.Equal(t, "cal_test_key", cfg.CalAPIKey)
	assert.Equal(t, "v2", cfg.CalAPIVersion)
	assert.Equal(t, "America/New_York", cfg.DefaultTimeZone)
	assert.Equal(t, "30min", cfg.DefaultEventTypeSlug)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "openai", cfg.ModelProvider)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestNew_MissingRequiredKey(t *testing.T) {
	t.Setenv("CAL_API_KEY", "")
	os.Unsetenv("CAL_API_KEY")

	_, err := New[Config]("")
	assert.Error(t, err)
}

func TestNew_EnvFileExported(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"CAL_API_KEY=from_file\nMODEL_PROVIDER=anthropic\n",
	), 0o600))

	t.Setenv("CAL_API_KEY", "")
	os.Unsetenv("CAL_API_KEY")
	t.Setenv("MODEL_PROVIDER", "")
	os.Unsetenv("MODEL_PROVIDER")
	t.Cleanup(func() {
		os.Unsetenv("CAL_API_KEY")
		os.Unsetenv("MODEL_PROVIDER")
	})

	cfg, err := New[Config]("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.CalAPIKey)
	assert.Equal(t, "anthropic", cfg.ModelProvider)
}

func TestNew_RealEnvironmentWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CAL_API_KEY=from_file\n"), 0o600))

	t.Setenv("CAL_API_KEY", "from_env")

	cfg, err := New[Config]("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.CalAPIKey)
}

func TestMustNew_PanicsWithoutRequired(t *testing.T) {
	t.Setenv("CAL_API_KEY", "")
	os.Unsetenv("CAL_API_KEY")

	assert.Panics(t, func() { MustNew[Config]("") })
}
