package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleDashboard_RendersPage(t *testing.T) {
	srv := newTestServer(t, &mockRegistry{}, &mockLauncher{})

	rec := doRequest(srv, http.MethodGet, "/", "")
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "<h1>launchdeck</h1>")
	assert.Contains(t, body, `const SECRET_PATH = "`+testSecret+`";`)
}

// The secret must only ever reach the browser through the dashboard page
// itself, never through the public JSON endpoints.
func TestPublicEndpoints_DoNotLeakSecret(t *testing.T) {
	srv := newTestServer(t, &mockRegistry{}, &mockLauncher{})

	for _, path := range []string{"/apps", "/status"} {
		rec := doRequest(srv, http.MethodGet, path, "")
		require.Equal(t, 200, rec.Code, path)
		assert.False(t, strings.Contains(rec.Body.String(), testSecret), "%s leaked the secret", path)
	}
}
