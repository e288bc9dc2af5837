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
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
api:
  endpoint: "https://api.bog.example.org"
  username: "observer"
  password: "hunter2"
  timeout_seconds: 10

output:
  dir: "out"
  format: "csv"

logging:
  level: "debug"
  format: "json"
`)

	config, err := Load(configPath)
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, "https://api.bog.example.org", config.API.Endpoint)
	assert.Equal(t, "observer", config.API.Username)
	assert.Equal(t, 10, config.API.TimeoutSeconds)
	assert.Equal(t, "out", config.Output.Dir)
	assert.Equal(t, ',', config.Delimiter())
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadDefaults(t *testing.T) {
	configPath := writeConfig(t, `
api:
  endpoint: "https://api.bog.example.org"
  username: "observer"
  password: "hunter2"
`)

	config, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 30, config.API.TimeoutSeconds)
	assert.Equal(t, "buoys", config.Output.Dir)
	assert.Equal(t, "tsv", config.Output.Format)
	assert.Equal(t, '\t', config.Delimiter())
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
	assert.Equal(t, 5432, config.Database.Port)
	assert.False(t, config.Database.Enabled)
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Setenv("BOG_USERNAME", "envuser")
	t.Setenv("BOG_PASSWORD", "envpass")

	configPath := writeConfig(t, `
api:
  endpoint: "https://api.bog.example.org"
  username: $BOG_USERNAME
  password: $BOG_PASSWORD
`)

	config, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "envuser", config.API.Username)
	assert.Equal(t, "envpass", config.API.Password)
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	configPath := writeConfig(t, `
api:
  endpoint: "https://api.bog.example.org"
`)

	_, err := Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	configPath := writeConfig(t, `
api:
  endpoint: "https://api.bog.example.org"
  username: "observer"
  password: "hunter2"

output:
  format: "parquet"
`)

	_, err := Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.format")
}

func TestConnString(t *testing.T) {
	db := DatabaseConfig{
		Host: "localhost", Port: 5432, Name: "bog",
		User: "bog", Password: "secret", SSLMode: "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=bog password=secret dbname=bog sslmode=disable",
		db.ConnString(),
	)
}
