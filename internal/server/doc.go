// Package server wires the HTTP surface: the embedded dashboard page, the
// JSON API the dashboard consumes, and the operational endpoints.
package server
