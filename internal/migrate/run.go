// Package migrate applies the embedded SQL schema migrations.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/target/mmk-alert-notify/internal/data/pgxutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Status describes one embedded migration and whether it has been applied.
type Status struct {
	Version   string
	Applied   bool
	AppliedAt *time.Time
}

// Versions returns the embedded migration versions in apply order.
func Versions() ([]string, error) {
	return versions(migrationsFS)
}

func versions(fsys fs.ReadDirFS) ([]string, error) {
	entries, err := fsys.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			out = append(out, strings.TrimSuffix(e.Name(), ".sql"))
		}
	}
	sort.Strings(out)
	return out, nil
}

// Run applies all SQL migrations embedded in this package. It is safe to call multiple times.
func Run(ctx context.Context, db *sql.DB) error {
	if err := ensureTable(ctx, db); err != nil {
		return err
	}

	all, err := Versions()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	logger := slog.Default().With("component", "migrations")
	for _, v := range all {
		if _, ok := applied[v]; ok {
			continue
		}
		logger.InfoContext(ctx, "applying migration", "version", v)
		if err := apply(ctx, db, v); err != nil {
			return err
		}
	}
	return nil
}

// Pending lists embedded migrations that have not been applied yet.
func Pending(ctx context.Context, db *sql.DB) ([]string, error) {
	statuses, err := List(ctx, db)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, s := range statuses {
		if !s.Applied {
			out = append(out, s.Version)
		}
	}
	return out, nil
}

// List reports every embedded migration with its applied state.
func List(ctx context.Context, db *sql.DB) ([]Status, error) {
	if err := ensureTable(ctx, db); err != nil {
		return nil, err
	}
	all, err := Versions()
	if err != nil {
		return nil, err
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(all))
	for _, v := range all {
		s := Status{Version: v}
		if at, ok := applied[v]; ok {
			s.Applied = true
			s.AppliedAt = &at
		}
		out = append(out, s)
	}
	return out, nil
}

func ensureTable(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]time.Time, error) {
	rows, err := db.QueryContext(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]time.Time)
	for rows.Next() {
		var (
			v  string
			at time.Time
		)
		if err := rows.Scan(&v, &at); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		out[v] = at
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schema_migrations: %w", err)
	}
	return out, nil
}

func apply(ctx context.Context, db *sql.DB, version string) error {
	file := version + ".sql"
	sqlBytes, err := migrationsFS.ReadFile("migrations/" + file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", file, err)
	}

	return pgxutil.WithSQLTx(ctx, db, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		return nil
	})
}
