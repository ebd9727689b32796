package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/mchain/internal/config"
	"github.com/xxxsen/mchain/internal/db"
)

// OpenTestDB opens a migrated SQLite database in a temp dir. It is always
// available, so tests that only need the store contract should use it.
func OpenTestDB(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()
	conn, err := db.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "chain.db"),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		_ = conn.Close()
		t.Fatalf("migrations: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
	}
}

// OpenPostgresTestDB connects to TEST_DB_HOST and truncates the chain tables.
func OpenPostgresTestDB(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	port := 5432
	if v := os.Getenv("TEST_DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}
	conn, err := db.Open(config.DatabaseConfig{
		Driver:   config.DriverPostgres,
		Host:     host,
		Port:     port,
		User:     "mchain",
		Password: "mchain_pass",
		DBName:   "mchain_test",
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		_ = conn.Close()
		t.Fatalf("migrations: %v", err)
	}
	if _, err := conn.Exec(`TRUNCATE texts, chain_entries`); err != nil {
		_ = conn.Close()
		t.Fatalf("truncate: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
	}
}
