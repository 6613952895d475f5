package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// Wrap adopts an existing connection pool, such as a sqlmock connection in
// tests.
func Wrap(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

// NewTestService opens a migrated database in a temporary directory and
// returns a service over it. The database is closed when the test ends.
func NewTestService(tb testing.TB) (*Service, *DB) {
	tb.Helper()

	cfg := DefaultConfig(filepath.Join(tb.TempDir(), "test.db"))
	cfg.AutoMigrate = true

	db, err := Open(cfg)
	if err != nil {
		tb.Fatalf("failed to open test database: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })

	return NewService(db), db
}
