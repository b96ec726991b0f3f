// Package backend builds the slot store selected by configuration.
package backend

import (
	"fmt"
	"log/slog"

	"erp/internal/config"
	applog "erp/internal/log"
	"erp/internal/storage"
)

// BackendType names a slot store implementation.
type BackendType string

const (
	SQLiteBackend BackendType = config.BackendSQLite
	MemoryBackend BackendType = config.BackendMemory
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory backend specific
	SeedDirectory string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:          backendType,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		SeedDirectory: appConfig.MemorySeedDir,
	}, nil
}

// Open creates the store for cfg. The caller closes it.
func Open(cfg Config, logger *slog.Logger) (storage.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Type {
	case SQLiteBackend:
		if cfg.SQLiteDBPath == "" {
			return nil, fmt.Errorf("SQLite database path is required for sqlite backend")
		}
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		logger.Info("Initialized SQLite backend",
			applog.FieldComponent, applog.ComponentBackend,
			"db_path", cfg.SQLiteDBPath)
		return store, nil

	case MemoryBackend:
		dir := cfg.SeedDirectory
		if dir == "" {
			dir = "data"
		}
		logger.Info("Initialized memory backend",
			applog.FieldComponent, applog.ComponentBackend,
			"seed_directory", dir)
		return storage.NewMemoryStoreFromDir(dir), nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
