// Package launcher starts, stops, and probes the registered applications.
// It deliberately does no supervision: a process that dies stays dead until
// someone presses start again.
package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/tmiyoshi/launchdeck/internal/domain"
	"github.com/tmiyoshi/launchdeck/internal/logging"
	"github.com/tmiyoshi/launchdeck/internal/metrics"
	"github.com/tmiyoshi/launchdeck/internal/registry"
)

// appSource is the slice of the registry the launcher needs.
type appSource interface {
	App(ctx context.Context, name string) (domain.App, error)
	Snapshot(ctx context.Context) (domain.Registry, error)
}

// Launcher runs registered apps as detached process groups and tracks them
// in the pid store.
type Launcher struct {
	apps  appSource
	pids  *registry.PIDStore
	clock clockwork.Clock
}

// New creates a Launcher over the given registry and pid store.
func New(apps appSource, pids *registry.PIDStore, clock clockwork.Clock) *Launcher {
	return &Launcher{apps: apps, pids: pids, clock: clock}
}

// Start launches the named app unless its tracked process is still alive.
// The returned message is meant for the dashboard notice area.
func (l *Launcher) Start(ctx context.Context, name string) (string, error) {
	app, err := l.apps.App(ctx, name)
	if err != nil {
		return "", err
	}

	if rec, ok := l.pids.Get(name); ok && processAlive(rec.PID) {
		metrics.LaunchesTotal.WithLabelValues("already_running").Inc()
		return fmt.Sprintf("%s is already running.", name), nil
	}

	if _, err := os.Stat(app.Path); err != nil {
		metrics.LaunchesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("launch script not found: %s", app.Path)
	}

	cmd := exec.Command(app.Path)
	cmd.Dir = app.Cwd
	cmd.SysProcAttr = detachedProcAttr()
	if err := cmd.Start(); err != nil {
		metrics.LaunchesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to start %s: %w", name, err)
	}
	// Reap on exit so a dead child does not linger as a zombie and fool the
	// liveness probe.
	go func() { _ = cmd.Wait() }()

	rec := domain.LaunchRecord{
		PID:       cmd.Process.Pid,
		LaunchID:  uuid.NewString(),
		StartedAt: l.clock.Now().UTC(),
	}
	if err := l.pids.Put(name, rec); err != nil {
		logging.WithLaunch(name, rec.LaunchID).Warn("Failed to persist pid record", "error", err)
	}

	metrics.LaunchesTotal.WithLabelValues("started").Inc()
	logging.WithLaunch(name, rec.LaunchID).Info("Application started", "pid", rec.PID)
	return fmt.Sprintf("Started %s with PID: %d", name, rec.PID), nil
}

// Stop kills the tracked process group of the named app. Stopping an
// untracked or already-gone process succeeds with an explanatory message.
func (l *Launcher) Stop(ctx context.Context, name string) (string, error) {
	if _, err := l.apps.App(ctx, name); err != nil {
		return "", err
	}

	rec, ok := l.pids.Get(name)
	if !ok {
		metrics.StopsTotal.WithLabelValues("not_tracked").Inc()
		return fmt.Sprintf("%s is not running or not tracked.", name), nil
	}

	err := killProcessGroup(rec.PID)
	switch {
	case err == nil:
		metrics.StopsTotal.WithLabelValues("stopped").Inc()
		logging.WithLaunch(name, rec.LaunchID).Info("Application stopped", "pid", rec.PID)
	case isProcessGone(err):
		metrics.StopsTotal.WithLabelValues("already_gone").Inc()
	default:
		metrics.StopsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to stop %s: %w", name, err)
	}

	if rmErr := l.pids.Remove(name); rmErr != nil {
		logging.WithApp(name).Warn("Failed to persist pid record removal", "error", rmErr)
	}

	if isProcessGone(err) {
		return fmt.Sprintf("Process for %s (PID: %d) not found. Already stopped.", name, rec.PID), nil
	}
	return fmt.Sprintf("Sent stop signal to %s (PID: %d).", name, rec.PID), nil
}

// Untrack drops the pid record for name without touching the process. Used
// when an app is deleted: the registry entry is gone, so the record would
// otherwise linger as an orphan that no status sweep ever prunes.
func (l *Launcher) Untrack(_ context.Context, name string) error {
	return l.pids.Remove(name)
}

// Statuses rebuilds the status map for every configured app. Tracked pids
// whose process is gone are pruned from the pid store as a side effect.
func (l *Launcher) Statuses(ctx context.Context) (map[string]domain.Status, error) {
	reg, err := l.apps.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make(map[string]domain.Status, len(reg.Apps))
	var stale []string
	running := 0

	for name, app := range reg.Apps {
		st := domain.Status{Port: app.Port}
		if rec, ok := l.pids.Get(name); ok {
			if processAlive(rec.PID) {
				pid := rec.PID
				st.Running = true
				st.PID = &pid
				running++
			} else {
				stale = append(stale, name)
			}
		}
		statuses[name] = st
	}

	if len(stale) > 0 {
		metrics.StalePidsPruned.Add(float64(len(stale)))
		if err := l.pids.Prune(stale); err != nil {
			slog.Warn("Failed to persist stale pid pruning", "error", err)
		}
	}
	metrics.RunningApps.Set(float64(running))

	return statuses, nil
}
