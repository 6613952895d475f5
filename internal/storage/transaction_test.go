package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func openScratch(t *testing.T) *DB {
	t.Helper()
	_, db := NewTestService(t)
	if _, err := db.Conn().Exec("CREATE TABLE scratch (v INTEGER)"); err != nil {
		t.Fatalf("failed to create scratch table: %v", err)
	}
	return db
}

func countScratch(t *testing.T, db *DB) int {
	t.Helper()
	var n int
	if err := db.Conn().QueryRow("SELECT COUNT(*) FROM scratch").Scan(&n); err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}

func TestWithTransaction_Commit(t *testing.T) {
	db := openScratch(t)

	err := db.WithTransaction(context.Background(), func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO scratch (v) VALUES (1), (2)")
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := countScratch(t, db); n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	db := openScratch(t)
	boom := errors.New("boom")

	err := db.WithTransaction(context.Background(), func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO scratch (v) VALUES (1)"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n := countScratch(t, db); n != 0 {
		t.Errorf("expected rollback to leave 0 rows, got %d", n)
	}
}

func TestWithTransaction_RollbackOnPanic(t *testing.T) {
	db := openScratch(t)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to be re-raised")
			}
		}()
		_ = db.WithTransaction(context.Background(), func(tx *sql.Tx) error {
			_, _ = tx.Exec("INSERT INTO scratch (v) VALUES (1)")
			panic("boom")
		})
	}()

	if n := countScratch(t, db); n != 0 {
		t.Errorf("expected rollback to leave 0 rows, got %d", n)
	}
}
