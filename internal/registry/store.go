package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/tmiyoshi/launchdeck/internal/domain"
	"github.com/tmiyoshi/launchdeck/internal/metrics"
)

// Store is the JSON-file-backed registry of configured apps and their
// display order. All mutations happen under one mutex and are persisted
// before they return.
type Store struct {
	path string

	mu  sync.Mutex
	reg domain.Registry
}

// NewStore loads the registry from path, migrating legacy layouts if
// necessary. A missing file yields an empty registry; a corrupt one is
// logged and replaced with an empty registry on the next write.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	metrics.RegistryApps.Set(float64(len(s.reg.Apps)))
	return s, nil
}

func (s *Store) load() error {
	s.reg = domain.Registry{Apps: map[string]domain.App{}, Order: []string{}}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read registry file %s: %w", s.path, err)
	}

	migrated, changed := migrate(data)
	s.reg = migrated
	if changed {
		slog.Info("Registry file migrated to current layout", "path", s.path)
		if err := s.persistLocked(); err != nil {
			return err
		}
	}
	return nil
}

// migrate normalizes any historical registry file layout into the current
// {apps, order} form. Returns the registry and whether the file needs to be
// rewritten.
func migrate(data []byte) (domain.Registry, bool) {
	reg := domain.Registry{Apps: map[string]domain.App{}, Order: []string{}}

	// Current layout first.
	var current struct {
		Apps  map[string]domain.App `json:"apps"`
		Order []string              `json:"order"`
	}
	if err := json.Unmarshal(data, &current); err == nil && current.Apps != nil {
		reg.Apps = current.Apps
		if current.Order != nil {
			reg.Order = current.Order
		}
		if repairOrder(&reg) || current.Order == nil {
			return reg, true
		}
		return reg, false
	}

	// Legacy layout: the root object is the app map itself.
	var legacy map[string]domain.App
	if err := json.Unmarshal(data, &legacy); err == nil {
		slog.Warn("Legacy registry layout detected, migrating")
		reg.Apps = legacy
		for name := range legacy {
			reg.Order = append(reg.Order, name)
		}
		return reg, true
	}

	slog.Warn("Registry file is not valid JSON, starting empty")
	return domain.Registry{Apps: map[string]domain.App{}, Order: []string{}}, true
}

// repairOrder rebuilds Order from the app key set when the two disagree.
// Reports whether a repair happened.
func repairOrder(reg *domain.Registry) bool {
	seen := make(map[string]bool, len(reg.Order))
	clean := make([]string, 0, len(reg.Order))
	for _, name := range reg.Order {
		if _, ok := reg.Apps[name]; ok && !seen[name] {
			clean = append(clean, name)
			seen[name] = true
		}
	}
	if len(seen) == len(reg.Apps) && len(clean) == len(reg.Order) {
		return false
	}
	slog.Warn("Inconsistency between apps and order, rebuilding order")
	for name := range reg.Apps {
		if !seen[name] {
			clean = append(clean, name)
		}
	}
	reg.Order = clean
	return true
}

func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.reg, "", "    ")
	if err != nil {
		metrics.RegistrySaves.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to encode registry: %w", err)
	}
	if err := atomicWrite(s.path, data); err != nil {
		metrics.RegistrySaves.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to save registry file %s: %w", s.path, err)
	}
	metrics.RegistrySaves.WithLabelValues("success").Inc()
	metrics.RegistryApps.Set(float64(len(s.reg.Apps)))
	return nil
}

// Snapshot returns a deep copy of the current registry.
func (s *Store) Snapshot(_ context.Context) (domain.Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

func (s *Store) snapshotLocked() domain.Registry {
	out := domain.Registry{
		Apps:  make(map[string]domain.App, len(s.reg.Apps)),
		// Non-nil even when empty so the JSON shape stays "order": [].
		Order: append([]string{}, s.reg.Order...),
	}
	for name, app := range s.reg.Apps {
		if app.Port != nil {
			p := *app.Port
			app.Port = &p
		}
		out.Apps[name] = app
	}
	return out
}

// App returns one configured app by name.
func (s *Store) App(_ context.Context, name string) (domain.App, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.reg.Apps[name]
	if !ok {
		return domain.App{}, domain.ErrAppNotFound
	}
	return app, nil
}

// Add registers a new app and appends it to the order. The caller validates
// path and port format; Add enforces name uniqueness, including uniqueness
// of the sanitized card id the dashboard derives from the name.
func (s *Store) Add(_ context.Context, req domain.AddRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reg.Apps[req.Name]; ok {
		return domain.ErrAppExists
	}
	cardID := domain.CardID(req.Name)
	for existing := range s.reg.Apps {
		if domain.CardID(existing) == cardID {
			return fmt.Errorf("%w: %q and %q share id %q", domain.ErrCardCollision, req.Name, existing, cardID)
		}
	}

	app := domain.App{
		Path: req.Path,
		Cwd:  filepath.Dir(req.Path),
	}
	if req.Port != "" {
		port, err := strconv.Atoi(req.Port)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("%w: %s", domain.ErrInvalidPort, req.Port)
		}
		app.Port = &port
	}

	s.reg.Apps[req.Name] = app
	s.reg.Order = append(s.reg.Order, req.Name)
	if err := s.persistLocked(); err != nil {
		delete(s.reg.Apps, req.Name)
		s.reg.Order = s.reg.Order[:len(s.reg.Order)-1]
		return err
	}
	return nil
}

// Delete removes an app from the registry and the order.
func (s *Store) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.reg.Apps[name]
	if !ok {
		return domain.ErrAppNotFound
	}
	delete(s.reg.Apps, name)
	order := make([]string, 0, len(s.reg.Order))
	for _, n := range s.reg.Order {
		if n != name {
			order = append(order, n)
		}
	}
	prevOrder := s.reg.Order
	s.reg.Order = order

	if err := s.persistLocked(); err != nil {
		s.reg.Apps[name] = app
		s.reg.Order = prevOrder
		return err
	}
	return nil
}

// SaveOrder replaces the display order. The new order must contain exactly
// the configured app names, each once.
func (s *Store) SaveOrder(_ context.Context, order []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(order) != len(s.reg.Apps) {
		metrics.OrderSaves.WithLabelValues("mismatch").Inc()
		return domain.ErrOrderMismatch
	}
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if _, ok := s.reg.Apps[name]; !ok || seen[name] {
			metrics.OrderSaves.WithLabelValues("mismatch").Inc()
			return domain.ErrOrderMismatch
		}
		seen[name] = true
	}

	prev := s.reg.Order
	s.reg.Order = append([]string(nil), order...)
	if err := s.persistLocked(); err != nil {
		metrics.OrderSaves.WithLabelValues("error").Inc()
		s.reg.Order = prev
		return err
	}
	metrics.OrderSaves.WithLabelValues("success").Inc()
	return nil
}

// atomicWrite writes data to path via a temp file and rename, so readers
// never observe a half-written file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
