package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sprintboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), *cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
  shutdown_timeout: 15s
database:
  path: /var/lib/sprintboard/board.db
log:
  level: debug
  format: json
schedule:
  timezone: Europe/Amsterdam
cors:
  allowed_origins:
    - https://board.example.com
`)
	t.Setenv("SPRINTBOARD_SERVER_ADDR", ":9100")
	t.Setenv("SPRINTBOARD_CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Addr, "env wins over file")
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/var/lib/sprintboard/board.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Amsterdam", loc.String())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("SPRINTBOARD_LOG_LEVEL", "verbose")
	t.Setenv("SPRINTBOARD_SCHEDULE_TIMEZONE", "Mars/Olympus")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "schedule.timezone")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = " " }, wantErr: "server.addr"},
		{name: "zero timeout", mutate: func(c *Config) { c.Server.ShutdownTimeout = 0 }, wantErr: "server.shutdown_timeout"},
		{name: "empty db", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: "database.path"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
		{name: "upper case level", mutate: func(c *Config) { c.Log.Level = "DEBUG" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.shutdown_timeout", envKey("SPRINTBOARD_SERVER_SHUTDOWN_TIMEOUT"))
	assert.Equal(t, "database.path", envKey("SPRINTBOARD_DATABASE_PATH"))
	assert.Equal(t, "config", envKey("SPRINTBOARD_CONFIG"))
}
