package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmiyoshi/launchdeck/internal/domain"
)

func TestHandleLiveness(t *testing.T) {
	srv := newTestServer(t, &mockRegistry{}, &mockLauncher{})

	rec := doRequest(srv, http.MethodGet, "/health/live", "")
	require.Equal(t, 200, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Contains(t, resp, "uptime")
}

func TestHandleReadiness_Ready(t *testing.T) {
	srv := newTestServer(t, &mockRegistry{}, &mockLauncher{})

	rec := doRequest(srv, http.MethodGet, "/health/ready", "")
	require.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"status": "ready"}`, rec.Body.String())
}

func TestHandleReadiness_RegistryUnavailable(t *testing.T) {
	reg := &mockRegistry{
		snapshotFn: func(_ context.Context) (domain.Registry, error) {
			return domain.Registry{}, fmt.Errorf("read-only filesystem")
		},
	}
	srv := newTestServer(t, reg, &mockLauncher{})

	rec := doRequest(srv, http.MethodGet, "/health/ready", "")
	require.Equal(t, 503, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp["status"])
	assert.Equal(t, "registry", resp["failed_check"])
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t, &mockRegistry{}, &mockLauncher{})

	rec := doRequest(srv, http.MethodGet, "/version", "")
	require.Equal(t, 200, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "version")
	assert.Contains(t, resp, "commit")
}
