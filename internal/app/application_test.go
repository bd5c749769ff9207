package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash.senseiquotes.org/internal/appconf"
)

func TestNew(t *testing.T) {
	t.Run("default goal table", func(t *testing.T) {
		application, err := New(appconf.Default(), nil)
		require.NoError(t, err)

		assert.Equal(t, "Quotes", application.Goals.PrimaryMetric)
		assert.Equal(t, 140.0, application.Goals.Table.Lookup("Annie Dwyer"))
		assert.Equal(t, 150.0, application.Goals.Table.Lookup("Carol"))

		dc := application.DashboardConfig()
		assert.Equal(t, "data/may_daily.csv", dc.DailyURL)
	})

	t.Run("custom fallback keeps built-in goals", func(t *testing.T) {
		cfg := appconf.Default()
		cfg.FallbackGoal = 90

		application, err := New(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, 140.0, application.Goals.Table.Lookup("Annie Dwyer"))
		assert.Equal(t, 90.0, application.Goals.Table.Lookup("Carol"))
	})

	t.Run("goal file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "goals.yaml")
		require.NoError(t, os.WriteFile(path, []byte("goals:\n  Carol: 40\n"), 0o644))
		cfg := appconf.Default()
		cfg.GoalsPath = path

		application, err := New(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, 40.0, application.Goals.Table.Lookup("Carol"))
		assert.Equal(t, 150.0, application.Goals.Table.Lookup("Annie Dwyer"))
	})

	t.Run("goal file without fallback uses configured fallback", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "goals.yaml")
		require.NoError(t, os.WriteFile(path, []byte("goals:\n  Carol: 40\n"), 0o644))
		cfg := appconf.Default()
		cfg.GoalsPath = path
		cfg.FallbackGoal = 120

		application, err := New(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, 40.0, application.Goals.Table.Lookup("Carol"))
		assert.Equal(t, 120.0, application.Goals.Table.Lookup("Annie Dwyer"))
	})

	t.Run("goal file fallback wins over configured fallback", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "goals.yaml")
		require.NoError(t, os.WriteFile(path, []byte("fallback: 60\ngoals:\n  Carol: 40\n"), 0o644))
		cfg := appconf.Default()
		cfg.GoalsPath = path
		cfg.FallbackGoal = 120

		application, err := New(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, 60.0, application.Goals.Table.Lookup("Annie Dwyer"))
	})

	t.Run("bad goal file", func(t *testing.T) {
		cfg := appconf.Default()
		cfg.GoalsPath = filepath.Join(t.TempDir(), "missing.yaml")

		_, err := New(cfg, nil)
		assert.Error(t, err)
	})
}
