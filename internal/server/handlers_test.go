package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tmiyoshi/launchdeck/internal/config"
	"github.com/tmiyoshi/launchdeck/internal/domain"
)

const testSecret = "remote-admin-test"

// --- Mocks (function-field style, zero value behaves sensibly) ---

type mockRegistry struct {
	snapshotFn  func(ctx context.Context) (domain.Registry, error)
	addFn       func(ctx context.Context, req domain.AddRequest) error
	deleteFn    func(ctx context.Context, name string) error
	saveOrderFn func(ctx context.Context, order []string) error
}

func (m *mockRegistry) Snapshot(ctx context.Context) (domain.Registry, error) {
	if m.snapshotFn != nil {
		return m.snapshotFn(ctx)
	}
	return domain.Registry{Apps: map[string]domain.App{}, Order: []string{}}, nil
}

func (m *mockRegistry) Add(ctx context.Context, req domain.AddRequest) error {
	if m.addFn != nil {
		return m.addFn(ctx, req)
	}
	return nil
}

func (m *mockRegistry) Delete(ctx context.Context, name string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, name)
	}
	return nil
}

func (m *mockRegistry) SaveOrder(ctx context.Context, order []string) error {
	if m.saveOrderFn != nil {
		return m.saveOrderFn(ctx, order)
	}
	return nil
}

type mockLauncher struct {
	startFn    func(ctx context.Context, name string) (string, error)
	stopFn     func(ctx context.Context, name string) (string, error)
	untrackFn  func(ctx context.Context, name string) error
	statusesFn func(ctx context.Context) (map[string]domain.Status, error)
}

func (m *mockLauncher) Start(ctx context.Context, name string) (string, error) {
	if m.startFn != nil {
		return m.startFn(ctx, name)
	}
	return "Started " + name + " with PID: 1", nil
}

func (m *mockLauncher) Stop(ctx context.Context, name string) (string, error) {
	if m.stopFn != nil {
		return m.stopFn(ctx, name)
	}
	return name + " is not running or not tracked.", nil
}

func (m *mockLauncher) Untrack(ctx context.Context, name string) error {
	if m.untrackFn != nil {
		return m.untrackFn(ctx, name)
	}
	return nil
}

func (m *mockLauncher) Statuses(ctx context.Context) (map[string]domain.Status, error) {
	if m.statusesFn != nil {
		return m.statusesFn(ctx)
	}
	return map[string]domain.Status{}, nil
}

// --- Fixture ---

func newTestServer(t *testing.T, reg domain.RegistryService, l domain.Launcher) *Server {
	t.Helper()
	cfg := &config.Config{
		AppEnv:     "test",
		Port:       "0",
		SecretPath: testSecret,
	}
	srv, err := NewServer(cfg, reg, l)
	require.NoError(t, err)
	return srv
}

func doRequest(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func intPtr(v int) *int { return &v }
