// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database. Tests using it skip automatically when no database
// URL is configured, so the unit suite runs without external services.
package testdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

// Timeout is the default timeout for test database operations.
const Timeout = 5 * time.Second

// URL returns the test database URL, checking DATABASE_URL and
// TASKPULSE_TEST_DB_URL in that order. Empty means no database is
// available.
func URL() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	return os.Getenv("TASKPULSE_TEST_DB_URL")
}

// MustConnect opens the test database, skipping the test when no URL is
// configured. The connection is closed when the test finishes.
func MustConnect(t *testing.T) *sql.DB {
	t.Helper()

	url := URL()
	if url == "" {
		t.Skip("skipping: DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Ping(), "test database unreachable")
	return db
}

// MigrateAndClean applies the schema migrations and truncates all tables
// so each test starts from an empty database.
func MigrateAndClean(t *testing.T, db *sql.DB) {
	t.Helper()

	goose.SetLogger(&testGooseLogger{t: t})
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, migrationsDir(t)))

	_, err := db.Exec(`TRUNCATE tasks, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

// migrationsDir locates the server's migration files relative to this
// source file, so tests work from any package directory.
func migrationsDir(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "failed to locate caller")

	dir := filepath.Join(filepath.Dir(thisFile), "..", "..", "cmd", "server", "migrations")
	require.DirExists(t, dir)
	return dir
}

// testGooseLogger routes goose output through the test log.
type testGooseLogger struct {
	t *testing.T
}

func (l *testGooseLogger) Fatalf(format string, v ...interface{}) {
	l.t.Fatalf(format, v...)
}

func (l *testGooseLogger) Printf(format string, v ...interface{}) {
	l.t.Log(fmt.Sprintf(format, v...))
}
