package cmd

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := ConfigFromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 15*time.Minute, cfg.PaymentGrace)
	assert.Equal(t, time.Hour, cfg.DeliveryGrace)
	assert.Equal(t, 5*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, "0 * * * * *", cfg.ExpirySchedule)
	assert.Equal(t, "0 0 * * * *", cfg.DeliverySchedule)
	assert.Equal(t, 4, cfg.SweepConcurrency)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.KafkaHost)
	assert.Empty(t, cfg.PaymentGatewayURL)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	cfg, err := ConfigFromEnv(env(map[string]string{
		"HTTP_PORT":         "9000",
		"DB_HOST":           "db",
		"DB_PASSWORD":       "secret",
		"REDIS_DB":          "2",
		"PAYMENT_GRACE":     "30m",
		"SWEEP_CONCURRENCY": " 8 ",
		"LOG_LEVEL":         "debug",
		"KAFKA_HOST":        "kafka:9092",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 30*time.Minute, cfg.PaymentGrace)
	assert.Equal(t, 8, cfg.SweepConcurrency)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "kafka:9092", cfg.KafkaHost)
	assert.Equal(t, "host=db port=5432 user=postgres password=secret dbname=takeout sslmode=disable", cfg.DSN())
}

func TestConfigFromEnv_Invalid(t *testing.T) {
	_, err := ConfigFromEnv(env(map[string]string{"PAYMENT_GRACE": "soon", "SWEEP_CONCURRENCY": "x"}))
	require.ErrorContains(t, err, "invalid PAYMENT_GRACE")

	_, err = ConfigFromEnv(env(map[string]string{"DELIVERY_GRACE": "-1h"}))
	require.ErrorContains(t, err, "must be positive")

	_, err = ConfigFromEnv(env(map[string]string{"LOG_LEVEL": "loud"}))
	require.ErrorContains(t, err, "LOG_LEVEL")
}
