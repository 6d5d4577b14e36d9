package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON(t *testing.T) {
	dir := t.TempDir()

	t.Run("overlays present keys only", func(t *testing.T) {
		path := writeTempJSON(t, dir, "partial.json", map[string]any{
			"api_base_url":             "https://www.example:9000",
			"request_timeout":          float64(2 * time.Second),
			"sign_out_on_unauthorized": false,
			"db_path":                  "",
		})

		cfg := defaults()
		require.NoError(t, parseJSON(cfg, path))

		assert.Equal(t, "https://www.example:9000", cfg.APIBaseURL)
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
		assert.False(t, cfg.SignOutOnUnauthorized)
		assert.Empty(t, cfg.DBPath)
		assert.Equal(t, defaults().LogFormat, cfg.LogFormat)
	})

	t.Run("no path means no changes", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJSON(cfg, ""))
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("invalid JSON fails", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		assert.Error(t, parseJSON(defaults(), bad))
	})

	t.Run("path from environment", func(t *testing.T) {
		path := writeTempJSON(t, dir, "env.json", map[string]any{"preview_dir": "/var/previews"})
		t.Setenv("AGENTDESK_CONFIG", path)

		cfg, err := load(nil)
		require.NoError(t, err)
		assert.Equal(t, "/var/previews", cfg.PreviewDir)
	})
}
