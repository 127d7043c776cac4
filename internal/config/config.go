package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	minSecretLen = 8
	maxSecretLen = 128
)

type Config struct {
	AppEnv     string `toml:"app_env"`
	Port       string `toml:"port"`
	SecretPath string `toml:"secret_path"`
	ConfigFile string `toml:"config_file"`
	PIDFile    string `toml:"pid_file"`
	LogLevel   string `toml:"log_level"`
	LogFormat  string `toml:"log_format"`
}

// Load builds the configuration. Precedence: built-in defaults, then the
// TOML file named by LAUNCHDECK_CONFIG (if set), then environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:     "development",
		Port:       "9999",
		ConfigFile: "config.json",
		PIDFile:    "processes.json",
		LogLevel:   "info",
		LogFormat:  "text",
	}

	if path := os.Getenv("LAUNCHDECK_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.SecretPath = getEnv("SECRET_PATH", cfg.SecretPath)
	cfg.ConfigFile = getEnv("CONFIG_FILE", cfg.ConfigFile)
	cfg.PIDFile = getEnv("PID_FILE", cfg.PIDFile)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	if cfg.SecretPath == "" {
		return nil, fmt.Errorf("SECRET_PATH is required")
	}
	if len(cfg.SecretPath) < minSecretLen || len(cfg.SecretPath) > maxSecretLen {
		return nil, fmt.Errorf("SECRET_PATH must be between %d and %d characters", minSecretLen, maxSecretLen)
	}
	if strings.ContainsAny(cfg.SecretPath, "/?#") {
		return nil, fmt.Errorf("SECRET_PATH must be a single path segment")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
