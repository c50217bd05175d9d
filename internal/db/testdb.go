// internal/db/testdb.go
package db

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewTestDB connects to the Postgres instance described by the PG*
// environment variables, applies the schema and truncates all tables.
// Tests are skipped when no database is reachable.
func NewTestDB(t testing.TB) *sqlx.DB {
	t.Helper()

	pgUser := envOr("PGUSER", "shareit")
	pgPassword := envOr("PGPASSWORD", "shareit")
	pgHost := envOr("PGHOST", "localhost")
	pgPort := envOr("PGPORT", "5432")
	pgDB := envOr("PGDATABASE", "shareit_test")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		pgHost, pgPort, pgUser, pgPassword, pgDB)

	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open database connection: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("skipping: could not connect to postgres: %v", err)
	}

	ctx := context.Background()
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	_, err = db.ExecContext(ctx, `TRUNCATE TABLE comments, request_items, bookings, items, requests, users RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func envOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
