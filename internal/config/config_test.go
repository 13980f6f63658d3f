package config_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formflow/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load(config.Options{})
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoad_FileThenEnvThenFlags(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "formflow.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
http:
  addr: ":9000"
api:
  base_url: "http://api.local:3030"
  timeout: 3s
views:
  placeholder_after: 150ms
`), 0o600))

	t.Setenv("FORMFLOW_API_TIMEOUT", "4s")
	t.Setenv("FORMFLOW_LOG_LEVEL", "debug")

	v := viper.New()
	v.Set("http.addr", ":7000")

	cfg, err := config.Load(config.Options{Viper: v, File: file})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, "http://api.local:3030", cfg.API.BaseURL)
	assert.Equal(t, 4*time.Second, cfg.API.Timeout)
	assert.Equal(t, 150*time.Millisecond, cfg.Views.PlaceholderAfter)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DotEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FORMFLOW_THEME_VARIANT=dark\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FORMFLOW_THEME_VARIANT") })

	cfg, err := config.Load(config.Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Theme.Variant)
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := config.Load(config.Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"redis needs url", func(c *config.Config) { c.Session.Backend = "redis" }, "RedisURL"},
		{"unknown backend", func(c *config.Config) { c.Session.Backend = "disk" }, "Backend"},
		{"bad base url", func(c *config.Config) { c.API.BaseURL = "not a url" }, "BaseURL"},
		{"log format", func(c *config.Config) { c.Log.Format = "xml" }, "Format"},
		{"zero view ttl", func(c *config.Config) { c.Views.TTL = 0 }, "TTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.mutate(&cfg)
			err := config.Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	cfg := config.Defaults()
	cfg.Session.Backend = "redis"
	cfg.Session.RedisURL = "redis://localhost:6379/0"
	require.NoError(t, config.Validate(cfg))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Defaults()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	logger := config.NewLogger(cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "form", "register")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "shown", record["msg"])
	assert.Equal(t, config.ServiceName, record["service"])
	assert.Equal(t, "register", record["form"])
}
