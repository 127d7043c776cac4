package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tmiyoshi/launchdeck/internal/domain"
	apperrors "github.com/tmiyoshi/launchdeck/internal/errors"
)

func (s *Server) handleStart(c echo.Context) error {
	name := c.Param("name")
	msg, err := s.launcher.Start(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrAppNotFound) {
			return apperrors.NotFoundError("Invalid application name").WithField("app", name)
		}
		return apperrors.InternalError(fmt.Sprintf("Failed to start %s: %v", name, err), err)
	}
	return c.JSON(200, map[string]string{"message": msg})
}

func (s *Server) handleStop(c echo.Context) error {
	name := c.Param("name")
	msg, err := s.launcher.Stop(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrAppNotFound) {
			return apperrors.NotFoundError("Application not found").WithField("app", name)
		}
		return apperrors.InternalError(fmt.Sprintf("Failed to stop %s: %v", name, err), err)
	}
	return c.JSON(200, map[string]string{"message": msg})
}

func (s *Server) handleDelete(c echo.Context) error {
	name := c.Param("name")
	ctx := c.Request().Context()

	// Best-effort stop before removal, matching the delete semantics of the
	// dashboard: a deleted app should not keep running untracked.
	if msg, err := s.launcher.Stop(ctx, name); err != nil {
		if errors.Is(err, domain.ErrAppNotFound) {
			return apperrors.NotFoundError("Application not found").WithField("app", name)
		}
		slog.Warn("Failed to stop application before delete", "app", name, "error", err)
	} else {
		slog.Debug("Stopped before delete", "app", name, "detail", msg)
	}

	if err := s.registry.Delete(ctx, name); err != nil {
		if errors.Is(err, domain.ErrAppNotFound) {
			return apperrors.NotFoundError("Application not found").WithField("app", name)
		}
		return apperrors.InternalError("failed to delete application", err).WithField("app", name)
	}

	// Drop the pid record even if the stop failed: the app is gone from the
	// registry, so the record would otherwise never be pruned.
	if err := s.launcher.Untrack(ctx, name); err != nil {
		slog.Warn("Failed to drop pid record for deleted application", "app", name, "error", err)
	}

	return c.JSON(200, map[string]string{"message": fmt.Sprintf("Application '%s' deleted.", name)})
}

// addRequest is the /add body. Port tolerates both a JSON number and a
// string, since the form field arrives as whatever the client collected.
type addRequest struct {
	Name string     `json:"name"`
	Path string     `json:"path"`
	Port flexString `json:"port"`
}

// flexString decodes a JSON string, number, or null into a string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("port must be a number or string")
	}
	*f = flexString(n.String())
	return nil
}

func (s *Server) handleAdd(c echo.Context) error {
	var req addRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("Missing name or path in request")
	}

	name := strings.TrimSpace(req.Name)
	path := strings.TrimSpace(req.Path)
	if name == "" || path == "" {
		return apperrors.ValidationError("Missing name or path in request")
	}
	if !filepath.IsAbs(path) {
		return apperrors.ValidationError("Invalid path. Please provide an absolute path to a launch script.")
	}
	if !fileExists(path) {
		return apperrors.ValidationError(fmt.Sprintf("File not found at path: %s", path))
	}

	err := s.registry.Add(c.Request().Context(), domain.AddRequest{
		Name: name,
		Path: path,
		Port: strings.TrimSpace(string(req.Port)),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAppExists):
			return apperrors.ConflictError(fmt.Sprintf("Application '%s' already exists.", name))
		case errors.Is(err, domain.ErrCardCollision):
			return apperrors.ConflictError(fmt.Sprintf("Application name '%s' is too similar to an existing one.", name))
		case errors.Is(err, domain.ErrInvalidPort):
			return apperrors.ValidationError(fmt.Sprintf("Invalid port number: %s", req.Port))
		default:
			return apperrors.InternalError("failed to add application", err).WithField("app", name)
		}
	}

	return c.JSON(201, map[string]string{"message": fmt.Sprintf("Application '%s' added successfully.", name)})
}

type saveOrderRequest struct {
	Order []string `json:"order"`
}

func (s *Server) handleSaveOrder(c echo.Context) error {
	var req saveOrderRequest
	if err := c.Bind(&req); err != nil || req.Order == nil {
		return apperrors.ValidationError("Missing order data")
	}

	if err := s.registry.SaveOrder(c.Request().Context(), req.Order); err != nil {
		if errors.Is(err, domain.ErrOrderMismatch) {
			return apperrors.ValidationError("Order data does not match current apps")
		}
		return apperrors.InternalError("failed to save order", err)
	}

	return c.JSON(200, map[string]string{"status": "success"})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
