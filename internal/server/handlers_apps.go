package server

import (
	"fmt"

	"github.com/labstack/echo/v4"

	apperrors "github.com/tmiyoshi/launchdeck/internal/errors"
)

// handleApps returns the configured applications and their display order:
// {"apps": {name: {path, cwd?, port?}}, "order": [name, ...]}.
func (s *Server) handleApps(c echo.Context) error {
	reg, err := s.registry.Snapshot(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to load applications", err)
	}
	if err := c.JSON(200, reg); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// handleStatus returns the per-app running state, rebuilt from scratch:
// {name: {running, pid?, port?}}.
func (s *Server) handleStatus(c echo.Context) error {
	statuses, err := s.launcher.Statuses(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to collect status", err)
	}
	if err := c.JSON(200, statuses); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
