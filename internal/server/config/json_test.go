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

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("loads from json", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"endpoint_addr":                   "www.example:9000",
			"database_dsn":                    "dsn",
			"secret_key":                      "my_secret_key",
			"access_token_validity_duration":  "1m",
			"refresh_token_validity_duration": "3d",
		})
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddr)
		assert.Equal(t, "dsn", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 3*24*time.Hour, cfg.RefreshTokenValidityDuration)
	})

	t.Run("no flag means no overlay", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{EndpointAddr: ":8080"}
		parseJson(cfg)

		assert.Equal(t, ":8080", cfg.EndpointAddr)
	})

	t.Run("malformed duration panics", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"refresh_token_validity_duration": "monthly",
		})
		os.Args = []string{"testbin", "-config", path}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
