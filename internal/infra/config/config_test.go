package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10, cfg.Quota.FreeLimit)
	assert.Equal(t, 4096, cfg.Quota.ArticleMaxTokens)
	assert.Equal(t, 100, cfg.Quota.BlogTitleMaxTokens)
	assert.Equal(t, 4096, cfg.Quota.ReviewMaxTokens)
	assert.Equal(t, int64(5*1024*1024), cfg.Quota.MaxResumeBytes)
	assert.Equal(t, "postgres", cfg.Quota.CounterBackend)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, "cloudinary", cfg.Media.Backend)
	assert.Equal(t, 30*time.Second, cfg.Breaker.Timeout)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 20, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestLoadFrom_WriteTimeoutOutlastsUpstream(t *testing.T) {
	cfg, err := LoadFrom("")
	require.NoError(t, err)

	// A completion or an image generation plus upload must finish before
	// the response deadline, or the caller loses a result already charged.
	assert.GreaterOrEqual(t, cfg.Server.WriteTimeout, cfg.HTTPClient.ResponseTimeout+time.Minute)
}

func TestLoadFrom_FileAndSecrets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  address: ":9090"
quota:
  free_limit: 3
  counter_backend: redis
media:
  backend: s3
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("QUICKAI_LLM_API_KEY", "llm-key")
	t.Setenv("QUICKAI_JWT_SECRET", "jwt-secret")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 3, cfg.Quota.FreeLimit)
	assert.Equal(t, "redis", cfg.Quota.CounterBackend)
	assert.Equal(t, "s3", cfg.Media.Backend)
	assert.Equal(t, "llm-key", cfg.LLM.APIKey)
	assert.Equal(t, "jwt-secret", cfg.Auth.JWTSecret)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := &DatabaseConfig{Host: "db", Port: 5432, User: "u", Database: "quickai", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u dbname=quickai sslmode=disable", c.DSN())

	c.Password = "secret"
	assert.Contains(t, c.DSN(), " password=secret")
}
