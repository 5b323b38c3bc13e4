// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvGeminiAPIKey, EnvServerURL, EnvAddr, EnvLogFile, EnvLogLevel} {
		t.Setenv(key, "")
	}
	t.Setenv("LEGALLENS_CONFIG_DIR", t.TempDir())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes())
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Models[0])
	assert.Len(t, cfg.Gemini.Models, 5)
	assert.Equal(t, 30000, cfg.Gemini.MaxChars)
	assert.Equal(t, 200*time.Millisecond, cfg.Client.TickInterval)
	assert.Equal(t, 1500*time.Millisecond, cfg.Client.AnalyzingDelay)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Gemini.APIKey)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "legallens.yaml", `
server:
  addr: ":8080"
  cache_ttl: 5m
gemini:
  models: [gemini-2.0-flash]
client:
  server_url: http://analyzer.internal:9000
  analyzing_delay: 10ms
logging:
  level: debug
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Server.CacheTTL)
	assert.Equal(t, []string{"gemini-2.0-flash"}, cfg.Gemini.Models)
	assert.Equal(t, "http://analyzer.internal:9000", cfg.Client.ServerURL)
	assert.Equal(t, 10*time.Millisecond, cfg.Client.AnalyzingDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched sections keep their defaults
	assert.Equal(t, int64(10), cfg.Server.MaxUploadMB)
	assert.Equal(t, 4, cfg.Server.MaxConcurrent)
	assert.Equal(t, 30000, cfg.Gemini.MaxChars)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvGeminiAPIKey, "secret")
	t.Setenv(EnvServerURL, "http://localhost:7000")
	t.Setenv(EnvAddr, ":7000")
	t.Setenv(EnvLogLevel, "WARN")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Gemini.APIKey)
	assert.Equal(t, "http://localhost:7000", cfg.Client.ServerURL)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"bad yaml":    "server: [unclosed",
		"bad level":   "logging:\n  level: chatty\n",
		"no models":   "gemini:\n  models: []\n",
		"bad url":     "client:\n  server_url: not a url\n",
		"zero upload": "server:\n  max_upload_mb: 0\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "bad.yaml", content))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadConfigOrDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvGeminiAPIKey, "from-env")

	cfg, err := LoadConfigOrDefault(writeFile(t, "bad.yaml", "logging:\n  level: chatty\n"))
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "from-env", cfg.Gemini.APIKey)
}

func TestFindConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	assert.Equal(t, "", FindConfigFile())

	require.NoError(t, os.WriteFile(".legallens.yaml", []byte("{}"), 0600))
	assert.Equal(t, ".legallens.yaml", FindConfigFile())

	require.NoError(t, os.WriteFile("legallens.yaml", []byte("{}"), 0600))
	assert.Equal(t, "legallens.yaml", FindConfigFile())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, ".env", "GEMINI_API_KEY=dotenv-key\n")
	os.Unsetenv(EnvGeminiAPIKey)

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "dotenv-key", os.Getenv(EnvGeminiAPIKey))
	os.Unsetenv(EnvGeminiAPIKey)
}

func TestLogOptions(t *testing.T) {
	cfg := Default()
	cfg.Logging.File = "/var/log/legallens.log"
	opts := cfg.LogOptions()
	assert.Equal(t, "/var/log/legallens.log", opts.File)
	assert.Equal(t, "info", opts.Level)
	assert.True(t, opts.Compress)
}
