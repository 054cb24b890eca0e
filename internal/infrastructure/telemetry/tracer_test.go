package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	cfg := Config{
		Enabled:     false,
		ServiceName: "storefront-test",
	}

	tp, err := NewTracerProvider(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"), "disabled provider still hands out a usable tracer")
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	// The OTLP gRPC exporter connects lazily, so construction succeeds
	// without a running collector.
	cfg := Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:4317",
		SamplingRatio:     0.5,
		ServiceName:       "storefront-test",
		Insecure:          true,
	}

	tp, err := NewTracerProvider(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.True(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))

	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracerProvider_SamplingRatios(t *testing.T) {
	for _, ratio := range []float64{0.0, 0.25, 1.0} {
		cfg := Config{
			Enabled:           true,
			CollectorEndpoint: "localhost:4317",
			SamplingRatio:     ratio,
			ServiceName:       "storefront-test",
			Insecure:          true,
		}

		tp, err := NewTracerProvider(context.Background(), cfg, zap.NewNop())
		require.NoError(t, err)
		assert.NoError(t, tp.Shutdown(context.Background()))
	}
}
