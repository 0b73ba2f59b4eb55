package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
database:
  path: `+filepath.Join(t.TempDir(), "test.db")+`
rooms:
  - Consultation Room 1
  - Consultation Room 2
redis:
  cache_ttl_seconds: 30
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Rooms, 2)
	assert.True(t, cfg.HasRoom("Consultation Room 1"))
	assert.False(t, cfg.HasRoom("Consultation Room 9"))
	assert.Equal(t, float64(30), cfg.CacheTTL().Seconds())
}

func TestLoad_ExpandsEnvPlaceholders(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROOMRES_TEST_DB_DIR", dir)

	path := writeConfig(t, `
database:
  path: ${ROOMRES_TEST_DB_DIR}/env.db
rooms:
  - Consultation Room 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "env.db"), cfg.Database.Path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "no rooms",
			mutate:  func(c *Config) { c.Rooms = nil },
			wantErr: "no consultation rooms",
		},
		{
			name:    "blank room name",
			mutate:  func(c *Config) { c.Rooms = []string{"Room A", "  "} },
			wantErr: "name is required",
		},
		{
			name:    "duplicate room",
			mutate:  func(c *Config) { c.Rooms = []string{"Room A", "Room A"} },
			wantErr: "duplicate room",
		},
		{
			name: "backup enabled without path",
			mutate: func(c *Config) {
				c.Rooms = []string{"Room A"}
				c.Backup.Enabled = true
			},
			wantErr: "backup.path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Rooms: []string{"Room A"}}
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
