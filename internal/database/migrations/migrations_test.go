package migrations

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	tables := []string{"users", "media", "collections", "collection_media", "media_grants", "collection_grants", "schema_migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s was not created: %v", table, err)
		}
	}
}

func TestCheckDBMigrationStatus(t *testing.T) {
	t.Run("fresh database needs migration", func(t *testing.T) {
		db := openTestDB(t)

		err := CheckDBMigrationStatus(db)
		if !errors.Is(err, ErrNoVersion) {
			t.Errorf("CheckDBMigrationStatus() error = %v, want ErrNoVersion", err)
		}
	})

	t.Run("up to date after migration", func(t *testing.T) {
		db := openTestDB(t)
		if err := MigrateUp(db); err != nil {
			t.Fatalf("MigrateUp() failed: %v", err)
		}

		if err := CheckDBMigrationStatus(db); err != nil {
			t.Errorf("CheckDBMigrationStatus() after migration returned error: %v", err)
		}
	})

	t.Run("migrate is idempotent", func(t *testing.T) {
		db := openTestDB(t)
		if err := MigrateUp(db); err != nil {
			t.Fatalf("first MigrateUp() failed: %v", err)
		}
		if err := MigrateUp(db); err != nil {
			t.Errorf("second MigrateUp() failed: %v", err)
		}
		if err := CheckDBMigrationStatus(db); err != nil {
			t.Errorf("CheckDBMigrationStatus() returned error: %v", err)
		}
	})
}

func TestLatestVersion(t *testing.T) {
	v, err := LatestVersion()
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if v < 1 {
		t.Errorf("LatestVersion() = %d, want >= 1", v)
	}
}

func TestSchemaConstraints(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	mustExec := func(t *testing.T, query string, args ...any) {
		t.Helper()
		if _, err := db.Exec(query, args...); err != nil {
			t.Fatalf("exec %q: %v", query, err)
		}
	}
	mustExec(t, "INSERT INTO users (id, email, created_at) VALUES (1, 'a@example.com', datetime('now'))")
	mustExec(t, "INSERT INTO users (id, email, created_at) VALUES (2, 'b@example.com', datetime('now'))")
	mustExec(t, "INSERT INTO media (id, owner_user_id, hash, filename, uploaded_at) VALUES (1, 1, 'h', 'a.jpg', datetime('now'))")

	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{
			name:    "user grant",
			query:   "INSERT INTO media_grants (media_id, recipient_user_id, created_at) VALUES (1, 2, datetime('now'))",
			wantErr: false,
		},
		{
			name:    "link grant with password",
			query:   "INSERT INTO media_grants (media_id, link_code, link_password_hash, created_at) VALUES (1, 'code', 'hash', datetime('now'))",
			wantErr: false,
		},
		{
			name:    "grant with both recipient and link",
			query:   "INSERT INTO media_grants (media_id, recipient_user_id, link_code, created_at) VALUES (1, 1, 'other', datetime('now'))",
			wantErr: true,
		},
		{
			name:    "grant with neither recipient nor link",
			query:   "INSERT INTO media_grants (media_id, created_at) VALUES (1, datetime('now'))",
			wantErr: true,
		},
		{
			name:    "password without link",
			query:   "INSERT INTO media_grants (media_id, recipient_user_id, link_password_hash, created_at) VALUES (1, 1, 'hash', datetime('now'))",
			wantErr: true,
		},
		{
			name:    "duplicate user grant",
			query:   "INSERT INTO media_grants (media_id, recipient_user_id, created_at) VALUES (1, 2, datetime('now'))",
			wantErr: true,
		},
		{
			name:    "grant on missing media",
			query:   "INSERT INTO media_grants (media_id, recipient_user_id, created_at) VALUES (99, 2, datetime('now'))",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Exec(tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("Exec() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	t.Run("deleting media cascades to grants", func(t *testing.T) {
		mustExec(t, "DELETE FROM media WHERE id = 1")
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM media_grants").Scan(&n); err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 0 {
			t.Errorf("media_grants count = %d, want 0", n)
		}
	})
}
