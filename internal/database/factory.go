package database

import (
	"fmt"
	"os"
	"path/filepath"

	"aperturama/internal/aperture"
	"aperturama/internal/config"
)

// NewDatabaseFromConfig opens the Store described by the database config.
// In-memory databases are migrated on open. File databases must already be
// at the latest schema version (see `aperturama db migrate`) unless migrate
// is true.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, clock aperture.Clock, migrate bool) (*SQLiteDatabase, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		db, err := NewSQLiteDatabase(filepath.Join(cfg.DataDir, DatabaseFileName), clock)
		if err != nil {
			return nil, err
		}
		if migrate {
			err = db.MigrateUp()
		} else {
			err = db.CheckMigrations()
		}
		if err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	case "memory":
		db, err := NewSQLiteDatabase(":memory:", clock)
		if err != nil {
			return nil, err
		}
		if err := db.MigrateUp(); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

// DatabaseFileName is the name of the SQLite file inside data_dir.
const DatabaseFileName = "aperturama.db"
