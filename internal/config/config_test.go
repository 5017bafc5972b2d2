package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "daemon"
	cfg.Settlement.Interval = duration{10 * time.Second}
	cfg.Settlement.UseAggregator = true // no aggregator_url set

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "interval must be at least 1m")
	assert.Contains(t, err.Error(), "use_aggregator requires")
}

func TestValidateCallbackSecretFileNeedsPassword(t *testing.T) {
	cfg := Defaults()
	cfg.Settlement.CallbackSecretFile = "/etc/settler/callback.json"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "callback_secret_password")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SETTLER_SERVER_PORT", "9001")
	t.Setenv("SETTLER_REDIS_ENABLED", "false")
	t.Setenv("SETTLER_SETTLEMENT_INTERVAL", "10m")
	t.Setenv("SETTLER_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Settlement.Interval.Duration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestRedactedConfigHidesSecrets(t *testing.T) {
	cfg := Defaults()
	cfg.Postgres.Password = "pg-pass"
	cfg.Server.APIKey = "api-key"
	cfg.Settlement.CallbackSecret = "cb-secret"
	cfg.Notify.TelegramToken = "tg-token"

	red := RedactedConfig(&cfg)

	assert.Equal(t, "***", red.Postgres.Password)
	assert.Equal(t, "***", red.Server.APIKey)
	assert.Equal(t, "***", red.Settlement.CallbackSecret)
	assert.Equal(t, "***", red.Notify.TelegramToken)

	// The original is untouched.
	assert.Equal(t, "pg-pass", cfg.Postgres.Password)
}
