package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tmiyoshi/launchdeck/internal/config"
	"github.com/tmiyoshi/launchdeck/internal/domain"
	apperrors "github.com/tmiyoshi/launchdeck/internal/errors"
)

//go:embed web/dashboard.html
var webFS embed.FS

type Server struct {
	echo              *echo.Echo
	config            *config.Config
	registry          domain.RegistryService
	launcher          domain.Launcher
	dashboardTemplate *template.Template
	startTime         time.Time
}

func NewServer(cfg *config.Config, reg domain.RegistryService, launcher domain.Launcher) (*Server, error) {
	dashboardTmpl, err := template.ParseFS(webFS, "web/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:              e,
		config:            cfg,
		registry:          reg,
		launcher:          launcher,
		dashboardTemplate: dashboardTmpl,
		startTime:         time.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
