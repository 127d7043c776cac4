package server

import (
	"bytes"
	"crypto/subtle"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// renderTemplate renders a template to a buffer first to prevent partial
// HTML from being sent if template execution fails.
func renderTemplate(c echo.Context, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Error("Template execution failed", "path", c.Request().URL.Path, "error", err)
		return c.String(500, "Failed to render page")
	}
	return c.HTMLBlob(200, buf.Bytes())
}

func (s *Server) handleDashboard(c echo.Context) error {
	data := map[string]any{
		"SecretPath": s.config.SecretPath,
	}
	return renderTemplate(c, s.dashboardTemplate, data)
}

// requireSecret authorizes control actions by comparing the :secret path
// segment against the configured secret. Mismatches get a plain 404 so the
// control routes are indistinguishable from unknown paths.
func (s *Server) requireSecret(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret := c.Param("secret")
		if subtle.ConstantTimeCompare([]byte(secret), []byte(s.config.SecretPath)) != 1 {
			return echo.NewHTTPError(http.StatusNotFound, "Not Found")
		}
		return next(c)
	}
}
