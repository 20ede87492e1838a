package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "file:scrounge.db?cache=shared&mode=rwc", cfg.Database.DSN)
	assert.Equal(t, "https://dining.umich.edu/menus-locations/dining-halls", cfg.Source.BaseURL)
	assert.Equal(t, 2, cfg.Refresh.ThresholdHour)
	assert.Len(t, cfg.Halls, 7, "stock hall set")
	assert.Equal(t, "bursley", cfg.Halls[0].Slug)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":9090"
  timeout: 10s
source:
  base_url: "https://example.com/halls"
  concurrency: 2
refresh:
  threshold_hour: 5
halls:
  - slug: test-hall
    aliases: [th, testy]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":9090", listen)
	assert.Equal(t, 10*time.Second, timeout)
	assert.Equal(t, "https://example.com/halls", cfg.Source.BaseURL)
	assert.Equal(t, 2, cfg.Source.Concurrency)
	assert.Equal(t, 5, cfg.Refresh.ThresholdHour)

	require.Len(t, cfg.Halls, 1)
	halls := cfg.RegistryHalls()
	assert.Equal(t, "test-hall", halls[0].Slug)
	assert.Equal(t, []string{"th", "testy"}, halls[0].Aliases)

	// untouched sections still get defaults
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "Scrounge/1.0", cfg.Source.UserAgent)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_LISTEN", ":7070")
	path := writeConfig(t, "server:\n  listen: \"${TEST_LISTEN}\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Listen)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server: [broken"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("threshold out of range", func(t *testing.T) {
		_, err := Load(writeConfig(t, "refresh:\n  threshold_hour: 24\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("negative concurrency", func(t *testing.T) {
		_, err := Load(writeConfig(t, "source:\n  concurrency: -1\n"))
		require.Error(t, err)
	})
}
