package appconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salesdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestEnvFlagToEnvironment(t *testing.T) {
	assert.Equal(t, Test, EnvFlagToEnvironment("test"))
	assert.Equal(t, Production, EnvFlagToEnvironment("Production"))
	assert.Equal(t, Production, EnvFlagToEnvironment("prod"))
	assert.Equal(t, Development, EnvFlagToEnvironment("development"))
	assert.Equal(t, Development, EnvFlagToEnvironment("anything"))
	assert.Equal(t, "production", Production.String())
}

func TestLoad(t *testing.T) {
	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
port: 8080
env: production
daily_url: https://example.com/may_daily.csv
fallback_goal: 120
admin_keys: [alpha, beta]
export_schedule: "0 18 * * *"
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, Production, cfg.Env)
		assert.Equal(t, "https://example.com/may_daily.csv", cfg.DailyURL)
		assert.Equal(t, "data/april_may_summary.csv", cfg.SummaryURL)
		assert.Equal(t, 120.0, cfg.FallbackGoal)
		assert.Equal(t, []string{"alpha", "beta"}, cfg.AdminKeys)
		assert.Equal(t, "Quotes", cfg.PrimaryMetric)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "port: 8080\n")
		t.Setenv("SALESDASH_PORT", "9090")
		t.Setenv("SALESDASH_ENV", "test")
		t.Setenv("SALESDASH_ADMIN_KEYS", " one , ,two")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, Test, cfg.Env)
		assert.Equal(t, []string{"one", "two"}, cfg.AdminKeys)
	})

	t.Run("bad environment value", func(t *testing.T) {
		t.Setenv("SALESDASH_PORT", "eighty")
		_, err := Load(writeConfig(t, ""))
		assert.Error(t, err)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "port: [nope"))
		assert.Error(t, err)
	})

	t.Run("invalid values are reported together", func(t *testing.T) {
		_, err := Load(writeConfig(t, "port: 0\nfallback_goal: -1\nexport_schedule: never\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "port 0 out of range")
		assert.Contains(t, err.Error(), "fallback_goal")
		assert.Contains(t, err.Error(), "export_schedule")
	})
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
