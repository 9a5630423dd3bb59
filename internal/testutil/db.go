// Package testutil holds fixtures and infrastructure helpers shared by package tests.
//
// Postgres and Redis backed tests skip when the service is unreachable unless
// TEST_REQUIRE_INFRA (or the per-service TEST_REQUIRE_DB / TEST_REQUIRE_REDIS) is set.
package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	// Registers the pgx database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/target/mmk-alert-notify/internal/migrate"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Cleanup(func())
	Skip(args ...any)
	Skipf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// TestDSN returns the connection string for the test database.
// TEST_DATABASE_URL wins; otherwise the URL is assembled from TEST_DB_* variables.
func TestDSN() string {
	if dsn := strings.TrimSpace(os.Getenv("TEST_DATABASE_URL")); dsn != "" {
		return dsn
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(envOr("TEST_DB_USER", "alertnotify"), envOr("TEST_DB_PASSWORD", "alertnotify")),
		Host:   net.JoinHostPort(envOr("TEST_DB_HOST", "localhost"), envOr("TEST_DB_PORT", "55432")),
		Path:   "/" + envOr("TEST_DB_NAME", "alertnotify"),
	}
	q := url.Values{}
	q.Set("sslmode", envOr("TEST_DB_SSL_MODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

// SkipIfNoTestDB skips t when the test database cannot be reached.
func SkipIfNoTestDB(t TB) {
	t.Helper()
	db, err := sql.Open("pgx", TestDSN())
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = db.PingContext(ctx)
		cancel()
		_ = db.Close()
	}
	if err != nil {
		unavailable(t, requireDB(), "test database not available: %v", err)
	}
}

// WithAutoDB runs fn against a freshly migrated schema private to t.
// The schema is dropped when t finishes.
func WithAutoDB(t TB, fn func(*sql.DB)) {
	t.Helper()
	fn(NewSchemaDB(t))
}

// NewSchemaDB creates a uniquely named schema, points search_path at it and
// applies all migrations.
func NewSchemaDB(t TB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)

	admin, err := sql.Open("pgx", TestDSN())
	if err != nil {
		t.Fatalf("open admin db: %v", err)
	}
	schema := schemaName()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err = admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		_ = admin.Close()
		t.Fatalf("create schema %s: %v", schema, err)
	}

	db, err := sql.Open("pgx", withSearchPath(TestDSN(), schema))
	if err != nil {
		_ = admin.Close()
		t.Fatalf("open schema db: %v", err)
	}
	db.SetMaxOpenConns(5)

	t.Cleanup(func() {
		_ = db.Close()
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()
		if _, derr := admin.ExecContext(dctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); derr != nil {
			t.Logf("drop schema %s: %v", schema, derr)
		}
		_ = admin.Close()
	})

	if err := migrate.Run(ctx, db); err != nil {
		t.Fatalf("migrate schema %s: %v", schema, err)
	}
	return db
}

func withSearchPath(dsn, schema string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String()
}

func schemaName() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "notify_t" + time.Now().Format("150405000000")
	}
	return "notify_t" + hex.EncodeToString(b)
}

func unavailable(t TB, required bool, format string, args ...any) {
	t.Helper()
	if required {
		t.Fatalf(format, args...)
	}
	t.Skipf(format, args...)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }
