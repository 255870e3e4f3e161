package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ColmiiK/ft-transcendence-sub000/pkg/config"
)

func TestSetupDisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "hubd"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
