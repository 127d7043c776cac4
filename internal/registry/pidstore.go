package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/tmiyoshi/launchdeck/internal/domain"
)

// PIDStore persists which tracked process belongs to which app. The file is
// a JSON object keyed by app name; the legacy form mapped names straight to
// pid integers and is migrated on load.
type PIDStore struct {
	path string

	mu      sync.Mutex
	records map[string]domain.LaunchRecord
}

// NewPIDStore loads the pid file at path, migrating the legacy name->pid
// layout if present.
func NewPIDStore(path string) (*PIDStore, error) {
	p := &PIDStore{path: path, records: map[string]domain.LaunchRecord{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pid file %s: %w", path, err)
	}

	var records map[string]domain.LaunchRecord
	if err := json.Unmarshal(data, &records); err == nil {
		if records != nil {
			p.records = records
		}
		return p, nil
	}

	var legacy map[string]int
	if err := json.Unmarshal(data, &legacy); err == nil {
		slog.Info("Legacy pid file layout detected, migrating", "path", path)
		for name, pid := range legacy {
			p.records[name] = domain.LaunchRecord{PID: pid}
		}
		p.mu.Lock()
		err := p.persistLocked()
		p.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	slog.Warn("Pid file is not valid JSON, starting empty", "path", path)
	return p, nil
}

func (p *PIDStore) persistLocked() error {
	data, err := json.MarshalIndent(p.records, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode pid file: %w", err)
	}
	if err := atomicWrite(p.path, data); err != nil {
		return fmt.Errorf("failed to save pid file %s: %w", p.path, err)
	}
	return nil
}

// Get returns the tracked record for name.
func (p *PIDStore) Get(name string) (domain.LaunchRecord, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.records[name]
	return rec, ok
}

// All returns a copy of every tracked record.
func (p *PIDStore) All() map[string]domain.LaunchRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]domain.LaunchRecord, len(p.records))
	for name, rec := range p.records {
		out[name] = rec
	}
	return out
}

// Put records a launch and persists the file.
func (p *PIDStore) Put(name string, rec domain.LaunchRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records[name] = rec
	return p.persistLocked()
}

// Remove drops one record and persists the file. Removing an untracked name
// is a no-op.
func (p *PIDStore) Remove(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.records[name]; !ok {
		return nil
	}
	delete(p.records, name)
	return p.persistLocked()
}

// Prune drops every named record in one persisted write.
func (p *PIDStore) Prune(names []string) error {
	if len(names) == 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	changed := false
	for _, name := range names {
		if _, ok := p.records[name]; ok {
			delete(p.records, name)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return p.persistLocked()
}
