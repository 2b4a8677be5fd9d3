package testutil

import (
	"testing"

	"aperturama/internal/aperture"
	"aperturama/internal/database"
)

// NewTestDatabase creates an in-memory SQLite store with the schema applied.
// The store is closed when the test completes.
func NewTestDatabase(t *testing.T, clock aperture.Clock) *database.SQLiteDatabase {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := sqlDB.Exec(database.Schema); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	db := database.NewSQLiteDatabaseFromDB(sqlDB, clock)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}
