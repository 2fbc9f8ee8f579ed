package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diavgeia-watch/diavgeia/core/config"
	apperrors "github.com/diavgeia-watch/diavgeia/core/shared/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"DATABASE_URL", "LLM_BACKEND", "LLM_MODEL", "LLM_BASE_URL", "PORT", "REDIS_URL", "DIAVGEIA_LOG_TAGS", "DIAVGEIA_LOG_LEVEL"} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diavgeia.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "groq", cfg.LLM.Backend)
	assert.Equal(t, 2, cfg.Agent.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.Database.StatementTimeout)
	assert.Equal(t, 300*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2048, cfg.LLM.MaxTokens)
	assert.InDelta(t, 0.1, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, config.RateLimitConfig{Requests: 30, Window: time.Minute}, cfg.Server.RateLimit)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_DB_PASSWORD", "s3cret")
	path := writeConfig(t, `
database:
  url: postgresql://app:{{ env.TEST_DB_PASSWORD }}@db:5432/diavgeia
  statement_timeout: 5s
  cache_ttl: 1m
llm:
  backend: ollama
  model: qwen2.5:7b
agent:
  max_retries: 4
server:
  port: "9090"
  rate_limit:
    requests: 10
    window: 30s
`)

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "postgresql://app:s3cret@db:5432/diavgeia", cfg.Database.URL)
	assert.Equal(t, 5*time.Second, cfg.Database.StatementTimeout)
	assert.Equal(t, time.Minute, cfg.Database.CacheTTL)
	assert.Equal(t, "ollama", cfg.LLM.Backend)
	assert.Equal(t, "qwen2.5:7b", cfg.LLM.Model)
	assert.Equal(t, 2048, cfg.LLM.MaxTokens)
	assert.Equal(t, 4, cfg.Agent.MaxRetries)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.RateLimit.Requests)
	assert.Equal(t, 30*time.Second, cfg.Server.RateLimit.Window)
}

func TestLoad_MissingPlaceholderVariable(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "database:\n  url: '{{ env.DIAVGEIA_SURELY_UNSET_VAR }}'\n")

	_, err := config.Load(path)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeConfigInvalid, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "DIAVGEIA_SURELY_UNSET_VAR")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_BACKEND", "OpenAI")
	t.Setenv("DATABASE_URL", "postgresql://env@db/x")
	t.Setenv("PORT", "7000")
	path := writeConfig(t, "llm:\n  backend: ollama\nserver:\n  port: '9090'\n")

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Backend)
	assert.Equal(t, "postgresql://env@db/x", cfg.Database.URL)
	assert.Equal(t, "7000", cfg.Server.Port)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Equal(t, apperrors.ErrCodeConfigInvalid, apperrors.CodeOf(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{name: "unknown backend", mutate: func(c *config.Config) { c.LLM.Backend = "bard" }, field: "Backend"},
		{name: "negative retries", mutate: func(c *config.Config) { c.Agent.MaxRetries = -1 }, field: "MaxRetries"},
		{name: "zero statement timeout", mutate: func(c *config.Config) { c.Database.StatementTimeout = 0 }, field: "StatementTimeout"},
		{name: "bad port", mutate: func(c *config.Config) { c.Server.Port = "http" }, field: "Port"},
		{name: "bad base url", mutate: func(c *config.Config) { c.LLM.BaseURL = "not a url" }, field: "BaseURL"},
		{name: "fuzzy floor above one", mutate: func(c *config.Config) { c.Agent.FuzzyFloor = 1.5 }, field: "FuzzyFloor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeConfigInvalid, apperrors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestOverrides_Apply(t *testing.T) {
	cfg := config.Default()

	config.Overrides{Backend: "Ollama", Model: "m", DatabaseURL: "postgresql://x", Verbose: true}.Apply(cfg)

	assert.Equal(t, "ollama", cfg.LLM.Backend)
	assert.Equal(t, "m", cfg.LLM.Model)
	assert.Equal(t, "postgresql://x", cfg.Database.URL)
	assert.Equal(t, 4, cfg.Log.Level)
	assert.Equal(t, "8000", cfg.Server.Port)
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("TEST_SUB_A", "alpha")

	got, err := config.SubstituteEnvVars("{{ env.TEST_SUB_A }}-{{env.TEST_SUB_A}}")
	require.NoError(t, err)
	assert.Equal(t, "alpha-alpha", got)

	got, err = config.SubstituteEnvVars("no placeholders")
	require.NoError(t, err)
	assert.Equal(t, "no placeholders", got)
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "log:\n  level: 3\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- config.Watch(ctx, path, func(c *config.Config) { reloaded <- c })
	}()

	// give the watcher time to register before editing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: 4\n  tags: agent\n"), 0o600))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 4, cfg.Log.Level)
		assert.Equal(t, "agent", cfg.Log.Tags)
	case <-time.After(5 * time.Second):
		t.Fatal("configuration was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
