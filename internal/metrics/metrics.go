// Package metrics defines the prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Launcher metrics
var (
	// LaunchesTotal tracks start attempts by result
	LaunchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchdeck_launches_total",
			Help: "Total application start attempts by result (started/already_running/error)",
		},
		[]string{"result"},
	)

	// StopsTotal tracks stop attempts by result
	StopsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchdeck_stops_total",
			Help: "Total application stop attempts by result (stopped/not_tracked/already_gone/error)",
		},
		[]string{"result"},
	)

	// RunningApps tracks the number of tracked processes currently alive
	RunningApps = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "launchdeck_running_apps",
			Help: "Number of tracked application processes currently alive",
		},
	)

	// StalePidsPruned tracks tracked pids found dead during a status sweep
	StalePidsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "launchdeck_stale_pids_pruned_total",
			Help: "Total tracked pids removed because the process was no longer alive",
		},
	)
)

// Registry metrics
var (
	// RegistrySaves tracks registry file writes by result
	RegistrySaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchdeck_registry_saves_total",
			Help: "Total registry file writes by result (success/error)",
		},
		[]string{"result"},
	)

	// RegistryApps tracks the number of configured applications
	RegistryApps = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "launchdeck_registry_apps",
			Help: "Number of configured applications",
		},
	)

	// OrderSaves tracks save-order operations by result
	OrderSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchdeck_order_saves_total",
			Help: "Total display order saves by result (success/mismatch/error)",
		},
		[]string{"result"},
	)
)

// Build information
var (
	// BuildInfo is a gauge that always returns 1, with build metadata as labels
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "launchdeck_build_info",
			Help: "Build information with version, commit, build_time, and go_version labels (value is always 1)",
		},
		[]string{"version", "commit", "build_time", "go_version"},
	)
)

// HTTP error metrics live in internal/errors (launchdeck_http_errors_total).
