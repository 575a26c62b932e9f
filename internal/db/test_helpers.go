package db

import (
	"path/filepath"
	"testing"
)

// NewTestDB opens a throwaway database in a test temp directory and
// closes it when the test finishes.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})

	return database
}
