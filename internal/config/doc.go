// Package config loads server configuration from the environment, with an
// optional TOML defaults file. Environment variables always win over file
// values.
package config
