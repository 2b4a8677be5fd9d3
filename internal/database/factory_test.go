package database

import (
	"testing"

	"aperturama/internal/config"
)

func TestNewDatabaseFromConfig(t *testing.T) {
	t.Run("memory database is migrated", func(t *testing.T) {
		got, err := NewDatabaseFromConfig(config.DatabaseConfig{Type: "memory"}, fixedClock{}, false)
		if err != nil {
			t.Fatalf("NewDatabaseFromConfig() unexpected error: %v", err)
		}
		defer got.Close()

		if err := got.CheckMigrations(); err != nil {
			t.Errorf("CheckMigrations() error = %v", err)
		}
	})

	t.Run("sqlite database requires migration", func(t *testing.T) {
		cfg := config.DatabaseConfig{Type: "sqlite", DataDir: t.TempDir()}

		if _, err := NewDatabaseFromConfig(cfg, fixedClock{}, false); err == nil {
			t.Error("NewDatabaseFromConfig() expected error for unmigrated database, got nil")
		}

		got, err := NewDatabaseFromConfig(cfg, fixedClock{}, true)
		if err != nil {
			t.Fatalf("NewDatabaseFromConfig(migrate) error = %v", err)
		}
		got.Close()

		got, err = NewDatabaseFromConfig(cfg, fixedClock{}, false)
		if err != nil {
			t.Fatalf("NewDatabaseFromConfig() after migration error = %v", err)
		}
		got.Close()
	})

	t.Run("sqlite database without data_dir", func(t *testing.T) {
		got, err := NewDatabaseFromConfig(config.DatabaseConfig{Type: "sqlite"}, fixedClock{}, false)
		if err == nil {
			t.Error("NewDatabaseFromConfig() expected error for missing data_dir, got nil")
		}
		if got != nil {
			t.Error("NewDatabaseFromConfig() should return nil on error")
			got.Close()
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := NewDatabaseFromConfig(config.DatabaseConfig{Type: "postgres"}, fixedClock{}, false); err == nil {
			t.Error("NewDatabaseFromConfig() expected error for unknown type, got nil")
		}
	})
}
