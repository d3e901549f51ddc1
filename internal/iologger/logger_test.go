package iologger_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/kpilake/kpilake/internal/iologger"
	"github.com/kpilake/kpilake/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "warn", Destination: "file"}

	require.NoError(t, iologger.Init(dir, cfg, false))
	slog.Info("hidden")
	slog.Warn("shown", "dataset", "clients")
	require.NoError(t, iologger.Close())

	data, err := os.ReadFile(filepath.Join(dir, iologger.LogFile))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"msg":"shown"`)
	assert.Contains(t, string(data), `"dataset":"clients"`)
	assert.Contains(t, string(data), `"app":"kpilake"`)

	t.Run("append keeps previous lines", func(t *testing.T) {
		require.NoError(t, iologger.Init(dir, cfg, true))
		slog.Error("second")
		require.NoError(t, iologger.Close())

		data, err := os.ReadFile(filepath.Join(dir, iologger.LogFile))
		require.NoError(t, err)
		assert.Contains(t, string(data), "shown")
		assert.Contains(t, string(data), "second")
	})

	t.Run("fresh file truncates", func(t *testing.T) {
		require.NoError(t, iologger.Init(dir, cfg, false))
		require.NoError(t, iologger.Close())

		data, err := os.ReadFile(filepath.Join(dir, iologger.LogFile))
		require.NoError(t, err)
		assert.Empty(t, data)
	})
}

func TestInitBadDir(t *testing.T) {
	cfg := config.LogConfig{Destination: "file"}
	err := iologger.Init(filepath.Join(t.TempDir(), "missing"), cfg, false)
	assert.Error(t, err)
}
