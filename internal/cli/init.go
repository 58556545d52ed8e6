// Package cli provides common initialization for the faturamento
// entrypoint: logging, env file loading, configuration and the
// optional user registry.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"faturamento/internal/auth"
	"faturamento/internal/config"
	"faturamento/internal/log"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// LoadRegistry loads the flat-file user registry when configured.
// Returns nil (login disabled) for an empty path, and exits the
// process when a configured file cannot be read.
func LoadRegistry(logger *log.Logger, path string) *auth.Registry {
	if path == "" {
		logger.Info("User registry not configured, login disabled")
		return nil
	}
	reg, err := auth.LoadRegistry(path)
	if err != nil {
		logger.Error("Failed to load user registry", "error", err, "path", path)
		os.Exit(1)
	}
	logger.Info("User registry loaded", "path", path, "users", reg.Len())
	return reg
}
