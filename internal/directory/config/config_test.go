package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	e "github.com/gartstein/directory/internal/directory/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_BundledFile(t *testing.T) {
	cfg, err := Load("config.yaml")
	require.NoError(t, err)

	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 6, cfg.PageSize)
	assert.Equal(t, 800*time.Millisecond, cfg.FetchDelay())
	assert.False(t, cfg.EventsEnabled())
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "HTTP_PORT: 9090\nKAFKA_BROKERS: [\"localhost:9092\"]\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, 6, cfg.PageSize)
	assert.Equal(t, "directory.events", cfg.Topic)
	assert.True(t, cfg.EventsEnabled())
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{name: "zero page size", body: "PAGE_SIZE: 0\n", invalid: true},
		{name: "negative delay", body: "FETCH_DELAY_MS: -1\n", invalid: true},
		{name: "unknown driver", body: "DB_DRIVER: mysql\n", invalid: true},
		{name: "malformed yaml", body: "PAGE_SIZE: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, e.ErrInvalidInput)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
