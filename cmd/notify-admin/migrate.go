package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/target/mmk-alert-notify/internal/bootstrap"
	"github.com/target/mmk-alert-notify/internal/migrate"
)

const defaultMigrationTimeout = 5 * time.Minute

type migrateOptions struct {
	Timeout time.Duration
	Status  bool
}

func parseMigrateFlags(cmdCtx *commandContext, args []string) (migrateOptions, error) {
	opts := migrateOptions{}
	fs := newFlagSet("migrate", cmdCtx.Out)
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "maximum time to wait for migrations")
	fs.BoolVar(&opts.Status, "status", false, "list migrations and whether each is applied")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultMigrationTimeout
	}
	return opts, nil
}

func runMigrate(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(cmdCtx, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	if !opts.Status {
		return bootstrap.RunMigrations(ctx, db, cmdCtx.Logger)
	}

	statuses, err := migrate.List(ctx, db)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	return writeMigrationStatus(cmdCtx, statuses)
}

func writeMigrationStatus(cmdCtx *commandContext, statuses []migrate.Status) error {
	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATUS\tAPPLIED AT")
	for _, s := range statuses {
		state, at := "pending", "-"
		if s.Applied {
			state = "applied"
			if s.AppliedAt != nil {
				at = s.AppliedAt.UTC().Format(time.RFC3339)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Version, state, at)
	}
	return tw.Flush()
}
