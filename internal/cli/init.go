// Package cli provides common initialization utilities shared by
// cmd/conti and cmd/adduser.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"conti/internal/config"
	"conti/internal/log"
	"conti/internal/storage"
)

// SetupLogger initializes structured logging and sets it as the default.
func SetupLogger(level string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentApp,
	})
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
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore opens the SQLite store at the given path.
// Returns the store or exits the process on failure.
func OpenStore(logger *log.Logger, dbPath string) *storage.Store {
	store, err := storage.Open(dbPath)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	return store
}
