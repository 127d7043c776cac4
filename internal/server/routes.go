package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no secret required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Dashboard page and the read-only API it polls
	s.echo.GET("/", s.handleDashboard)
	s.echo.GET("/apps", s.handleApps)
	s.echo.GET("/status", s.handleStatus)

	// Control actions, authorized by the opaque secret path segment
	control := s.echo.Group("/:secret", s.requireSecret)
	control.POST("/start/:name", s.handleStart)
	control.POST("/stop/:name", s.handleStop)
	control.POST("/delete/:name", s.handleDelete)
	control.POST("/add", s.handleAdd)
	control.POST("/save-order", s.handleSaveOrder)
}
