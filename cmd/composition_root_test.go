package cmd

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"takeout/internal/adapters/out/kafka"
	"takeout/internal/adapters/out/payment"
	"takeout/internal/adapters/out/postgres/testdb"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositionRoot_DefaultsToLocalCollaborators(t *testing.T) {
	cfg, err := ConfigFromEnv(env(nil))
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()

	root := NewCompositionRoot(cfg, testdb.New(t), client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer func() { require.NoError(t, root.Close()) }()

	assert.IsType(t, &payment.SimulatedGateway{}, root.gateway)
	assert.IsType(t, kafka.NoopPublisher{}, root.publisher)
	require.NoError(t, root.health(t.Context()))

	e := root.CreateEcho()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/order/statistics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	jm := root.CreateJobManager()
	require.NoError(t, jm.StartAll())
	jm.StopAll()

	mr.Close()
	require.Error(t, root.health(t.Context()))
}

func TestCompositionRoot_UsesConfiguredGateway(t *testing.T) {
	cfg, err := ConfigFromEnv(env(map[string]string{
		"PAYMENT_GATEWAY_URL": "http://payments.local",
		"KAFKA_HOST":          "localhost:9092",
	}))
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: miniredis.RunT(t).Addr()})
	defer client.Close()

	root := NewCompositionRoot(cfg, testdb.New(t), client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.IsType(t, &payment.HTTPGateway{}, root.gateway)
	assert.IsType(t, &kafka.OrderStatusPublisher{}, root.publisher)
	require.NoError(t, root.Close())
}
