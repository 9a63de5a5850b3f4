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
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
gemini:
  api_key: "test-key"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.ModelName)
	assert.Equal(t, "deep-research", cfg.Gemini.DeepResearchAgent)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.Gemini.InteractionsURL)
	assert.Equal(t, 8, cfg.Gemini.RequestsPerMinute)
	assert.Equal(t, 2, cfg.Gemini.MediaPollSeconds)
	assert.Equal(t, 30, cfg.Gemini.MediaPollAttempts)
	assert.Equal(t, 1, cfg.Etherscan.ChainID)
	assert.Equal(t, 3, cfg.Etherscan.MaxAttempts)
}

func TestLoadConfigExpandsEnvSecrets(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "key-from-env")
	t.Setenv("TEST_JWT_SECRET", "secret-from-env")

	path := writeConfig(t, `
server:
  jwt_secret: "${TEST_JWT_SECRET}"
gemini:
  api_key: "${TEST_GEMINI_KEY}"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "key-from-env", cfg.Gemini.APIKey)
	assert.Equal(t, "secret-from-env", cfg.Server.JWTSecret)
}

func TestLoadConfigExplicitValuesWin(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
gemini:
  api_key: "test-key"
  model_name: "gemini-2.5-pro"
  requests_per_minute: 4
etherscan:
  chain_id: 11155111
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.ModelName)
	assert.Equal(t, 4, cfg.Gemini.RequestsPerMinute)
	assert.Equal(t, 11155111, cfg.Etherscan.ChainID)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
