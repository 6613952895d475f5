package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig("decks.db")

	if config.Path != "decks.db" {
		t.Errorf("expected path 'decks.db', got '%s'", config.Path)
	}
	if config.MaxOpenConns != 25 {
		t.Errorf("expected MaxOpenConns 25, got %d", config.MaxOpenConns)
	}
	if config.BusyTimeout != 5*time.Second {
		t.Errorf("expected BusyTimeout 5s, got %v", config.BusyTimeout)
	}
	if config.JournalMode != "WAL" {
		t.Errorf("expected JournalMode 'WAL', got '%s'", config.JournalMode)
	}
	if config.AutoMigrate {
		t.Error("expected AutoMigrate to default to false")
	}
}

func TestConfigDSN(t *testing.T) {
	dsn := DefaultConfig("/tmp/decks.db").dsn()

	for _, want := range []string{
		"file:/tmp/decks.db?",
		"busy_timeout(5000)",
		"journal_mode(WAL)",
		"synchronous(NORMAL)",
		"foreign_keys(1)",
	} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %q", dsn, want)
		}
	}
}

func TestOpen(t *testing.T) {
	db, err := Open(DefaultConfig(":memory:"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Errorf("failed to ping database: %v", err)
	}
	if db.Conn() == nil {
		t.Error("expected non-nil connection")
	}
}

func TestOpenRejectsBadConfig(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := Open(&Config{}); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestOpenAutoMigrate(t *testing.T) {
	cfg := DefaultConfig(filepath.Join(t.TempDir(), "nested", "decks.db"))
	cfg.AutoMigrate = true

	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"cards", "decks", "deck_cards", "deck_tags", "synergy_patterns"} {
		var name string
		err := db.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("expected table %s to exist: %v", table, err)
		}
	}
}

func TestMigrator_UpDownVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	mg, err := NewMigrator(dbPath)
	if err != nil {
		t.Fatalf("failed to create migrator: %v", err)
	}
	defer mg.Close()

	version, _, err := mg.Version()
	if err != nil {
		t.Fatalf("failed to read version: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 on a fresh database, got %d", version)
	}

	if err := mg.Up(); err != nil {
		t.Fatalf("failed to migrate up: %v", err)
	}
	// A second Up is a no-op.
	if err := mg.Up(); err != nil {
		t.Fatalf("expected repeated Up to succeed, got %v", err)
	}

	version, dirty, err := mg.Version()
	if err != nil {
		t.Fatalf("failed to read version: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("expected clean version 1, got %d (dirty=%v)", version, dirty)
	}

	if err := mg.Down(); err != nil {
		t.Fatalf("failed to migrate down: %v", err)
	}
}

func TestDatabaseURL(t *testing.T) {
	if got := databaseURL("/var/lib/decks.db"); got != "sqlite:///var/lib/decks.db" {
		t.Errorf("unexpected url %q", got)
	}
	if got := databaseURL("decks.db"); got != "sqlite://decks.db" {
		t.Errorf("unexpected url %q", got)
	}
}
