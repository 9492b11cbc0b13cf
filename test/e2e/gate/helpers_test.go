package gate_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/avalonfair/gatehouse/pkg/gatesdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for gatehouse end-to-end tests.
 * This includes container setup, service operations, and assertions.
 */

const (
	testImageName = "gatehouse-test:latest"

	adminToken    = "test-admin-token-12345"
	sessionSecret = "test-session-secret-needs-32-bytes!!"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Gatehouse Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Gatehouse Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image if it doesn't exist.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/gatehouse/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupGateContainer starts the gatehouse service in a container and returns
// the base URL.
func setupGateContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"GATE_ADMIN_TOKEN":    adminToken,
			"GATE_SESSION_SECRET": sessionSecret,
			"GATE_DATABASE_FILE":  "/gatehouse.db",
			"GATE_PEPPER_FILE":    "/pepper",
			"GATE_MAIL_PROVIDER":  "noop",
			"ENV":                 "test",
			"LOG_LEVEL":           "info",
			"LOG_FORMAT":          "json",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// newAdminClient returns a client with the admin token set.
func newAdminClient(baseURL string) *gatesdk.Client {
	client := gatesdk.NewClient(baseURL)
	client.AdminToken = adminToken
	return client
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health gatesdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
}

// assertAPIStatus verifies an error is an *APIError with the given status
// code. Bearer auth rejections carry no JSON body, so only the status is
// meaningful there.
func assertAPIStatus(t *testing.T, err error, statusCode int) {
	t.Helper()
	require.Error(t, err)

	var apiErr *gatesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, statusCode, apiErr.StatusCode)
}

// assertAPIError verifies an error is an *APIError with the given status and
// code.
func assertAPIError(t *testing.T, err error, statusCode int, code string) {
	t.Helper()
	require.Error(t, err)

	var apiErr *gatesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, statusCode, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}
