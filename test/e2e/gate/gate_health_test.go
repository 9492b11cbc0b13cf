package gate_test

import (
	"testing"

	"github.com/avalonfair/gatehouse/pkg/gatesdk"
	"github.com/stretchr/testify/require"
)

// TestLivezEndpoint verifies the liveness check endpoint works on a fresh
// service.
func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	t.Logf("Livez endpoint is healthy")
}

// TestReadyzEndpoint verifies the readiness check includes a database probe.
func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)

	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)

	t.Logf("Readyz endpoint is healthy")
}
