package services

import (
	"database/sql"
	"testing"

	"github.com/fastcm/shophub-be/internal/database"
)

// newTestDB opens an in-memory sqlite database with the full schema
// applied. MaxOpenConns is pinned to one so every query sees the same
// in-memory database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}
