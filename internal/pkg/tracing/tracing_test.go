package tracing_test

import (
	"testing"

	"takeout/internal/pkg/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInit_WithoutEndpointKeepsNoopProvider(t *testing.T) {
	shutdown, err := tracing.Init(t.Context(), "takeout", "")
	require.NoError(t, err)
	require.NoError(t, shutdown(t.Context()))

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}
