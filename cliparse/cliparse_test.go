// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := ParseFlags([]string{})
	require.NoError(t, err)

	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "/", cfg.Route)
	assert.Contains(t, cfg.DatabaseURL, filepath.Join(".kitchentable", "session.db"))
}

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("KITCHEN_TABLE_URL", "https://kt.example.com/")
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("POLL_INTERVAL", "10s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := ParseFlags([]string{})
	require.NoError(t, err)

	assert.Equal(t, "https://kt.example.com", cfg.ServerURL)
	assert.Equal(t, "file:test.db", cfg.DatabaseURL)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("KITCHEN_TABLE_URL", "https://env.example.com")
	t.Setenv("POLL_INTERVAL", "10s")

	cfg, err := ParseFlags([]string{"-s", "http://cli.example.com", "-d", "file:test.db", "-poll", "5s", "-r", "/table"})
	require.NoError(t, err)

	// CLI should override env
	assert.Equal(t, "http://cli.example.com", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, "/table", cfg.Route)
}

func TestParseFlags_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server_url: https://file.example.com\npoll_interval: 45s\ndatabase_url: file:from-file.db\nrequests_per_second: 2.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("KITCHEN_TABLE_URL", "https://env.example.com")

	cfg, err := ParseFlags([]string{"-c", path})
	require.NoError(t, err)

	// env beats file, file beats defaults
	assert.Equal(t, "https://env.example.com", cfg.ServerURL)
	assert.Equal(t, 45*time.Second, cfg.PollInterval)
	assert.Equal(t, "file:from-file.db", cfg.DatabaseURL)
	assert.Equal(t, 2.5, cfg.RequestsPerSecond)
}

func TestParseFlags_Invalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	testCases := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad server url", []string{"-s", "localhost"}, nil},
		{"bad database type", []string{"-t", "mysql"}, nil},
		{"postgres without url", []string{"-t", "postgres"}, nil},
		{"bad poll interval", []string{"-poll", "soon"}, nil},
		{"negative poll interval", []string{"-poll", "-5s"}, nil},
		{"relative route", []string{"-r", "table"}, nil},
		{"bad rps env", nil, map[string]string{"REQUESTS_PER_SECOND": "fast"}},
		{"missing config file", []string{"-c", "/does/not/exist.yaml"}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := ParseFlags(tc.args)
			assert.Error(t, err)
		})
	}
}
