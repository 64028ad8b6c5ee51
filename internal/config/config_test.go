package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "UPSTREAM_URL", "SESSION_TTL", "SESSION_STORE", "AUTH_MODE", "DB_TYPE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, "http://localhost:5000", cfg.UpstreamURL)
	assert.Equal(t, time.Hour, cfg.SessionDuration)
	assert.Equal(t, "sql", cfg.SessionStore)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.False(t, cfg.IsDemoAuth())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_URL", "http://backend:5000/")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("AUTH_MODE", "DEMO")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("DEBUG", "true")
	t.Setenv("TRUST_PROXY", "1")

	cfg := Load()

	assert.Equal(t, "http://backend:5000", cfg.UpstreamURL)
	assert.Equal(t, 30*time.Minute, cfg.SessionDuration)
	assert.True(t, cfg.IsDemoAuth())
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.TrustProxy)
}

func TestHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("X_DURATION", "soon")
	t.Setenv("X_INT", "many")
	t.Setenv("X_BOOL", "perhaps")

	assert.Equal(t, time.Second, getEnvDuration("X_DURATION", time.Second))
	assert.Equal(t, 7, getEnvInt("X_INT", 7))
	assert.True(t, getEnvBool("X_BOOL", true))
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{LogLevel: "warn"}
	logger, err := cfg.NewLogger()
	assert.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	cfg.LogLevel = "loud"
	_, err = cfg.NewLogger()
	assert.Error(t, err)
}
