package domain

import "time"

// Status is the ephemeral per-app state reported to the dashboard. It is
// rebuilt from scratch on every status request, never merged.
type Status struct {
	Running bool `json:"running"`
	PID     *int `json:"pid,omitempty"`
	Port    *int `json:"port,omitempty"`
}

// LaunchRecord tracks one started process in the pid store.
type LaunchRecord struct {
	PID       int       `json:"pid"`
	LaunchID  string    `json:"launch_id"`
	StartedAt time.Time `json:"started_at"`
}
