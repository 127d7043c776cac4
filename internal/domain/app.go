package domain

import "context"

// App is a registered launchable entry. Cwd is derived from Path's directory
// when the app is added, so launched scripts resolve relative files the same
// way they would when run by hand.
type App struct {
	Path string `json:"path"`
	Cwd  string `json:"cwd,omitempty"`
	Port *int   `json:"port,omitempty"`
}

// Registry is the persisted configuration: the app map plus the display
// order. Invariant: Order contains exactly the key set of Apps, each name
// once.
type Registry struct {
	Apps  map[string]App `json:"apps"`
	Order []string       `json:"order"`
}

// AddRequest bundles the parameters of an add operation. Port is kept as the
// raw string the form submitted; validation parses it.
type AddRequest struct {
	Name string
	Path string
	Port string
}

// RegistryService handles app registration, removal, and order persistence.
type RegistryService interface {
	Snapshot(ctx context.Context) (Registry, error)
	Add(ctx context.Context, req AddRequest) error
	Delete(ctx context.Context, name string) error
	SaveOrder(ctx context.Context, order []string) error
}

// Launcher starts and stops registered apps and reports their status.
// Untrack drops the pid record for a name without signalling the process;
// it is how a deleted app's tracking is cleaned up even when the stop failed.
type Launcher interface {
	Start(ctx context.Context, name string) (message string, err error)
	Stop(ctx context.Context, name string) (message string, err error)
	Untrack(ctx context.Context, name string) error
	Statuses(ctx context.Context) (map[string]Status, error)
}
