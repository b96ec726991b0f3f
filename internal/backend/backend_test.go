package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"erp/internal/config"
	"erp/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "memory", MemorySeedDir: "seed"})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != MemoryBackend || cfg.SeedDirectory != "seed" {
		t.Errorf("FromAppConfig() = %+v", cfg)
	}
}

func TestOpenMemoryBackend(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "revenues.json"), []byte(`[]`), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := Open(Config{Type: MemoryBackend, SeedDirectory: dir}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	if _, ok := store.(*storage.MemoryStore); !ok {
		t.Errorf("Open() returned %T", store)
	}
	if got, err := store.Get(context.Background(), "revenues"); err != nil || string(got) != "[]" {
		t.Errorf("seeded slot = %q, %v", got, err)
	}
}

func TestOpenSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erp.db")
	store, err := Open(Config{Type: SQLiteBackend, SQLiteDBPath: path}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	if _, ok := store.(*storage.SQLiteStore); !ok {
		t.Errorf("Open() returned %T", store)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	if _, err := Open(Config{Type: SQLiteBackend}, nil); err == nil {
		t.Error("expected error for missing sqlite path")
	}
	if _, err := Open(Config{Type: "sheets"}, nil); err == nil {
		t.Error("expected error for unknown backend")
	}
}
