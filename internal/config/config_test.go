package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_PORT", "")
	t.Setenv("CLASSIFIER_ENABLED", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.False(t, cfg.Classifier.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Classifier.Timeout())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("CLASSIFIER_ENABLED", "true")
	t.Setenv("CLASSIFIER_TIMEOUT_SECONDS", "3")
	t.Setenv("OPENAI_MODEL", "gpt-test")
	t.Setenv("SEED_DEMO_DATA", "yes-please")
	t.Setenv("AUTH_SESSION_TTL_MINUTES", "abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.True(t, cfg.Classifier.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Classifier.Timeout())
	assert.Equal(t, "gpt-test", cfg.Classifier.Model)
	assert.False(t, cfg.SeedDemoData)
	assert.Equal(t, 60, cfg.Auth.SessionTTLMinutes)
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_SESSION_SECRET", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("AUTH_SESSION_SECRET", "s3cret")
	_, err = Load()
	assert.NoError(t, err)
}
