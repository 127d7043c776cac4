// Package registry persists the configured applications, their display
// order, and the pid tracking file. Both stores are single JSON files
// written atomically; legacy file layouts are migrated on load.
package registry
