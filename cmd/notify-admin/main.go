package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/target/mmk-alert-notify/config"
	"github.com/target/mmk-alert-notify/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
}

var errUsage = errors.New("usage")

func main() {
	logger := bootstrap.InitLogger("info")

	code := dispatch(os.Args[1:], os.Stdout, os.Stderr, logger)
	os.Exit(code) //nolint:forbidigo // CLI must propagate command status to callers
}

// dispatch runs one subcommand and returns the process exit code.
func dispatch(args []string, stdout, stderr io.Writer, logger *slog.Logger) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	name := args[0]
	cmd, ok := commands()[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		printUsage(stderr)
		return 2
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		return 1
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		Out:    stdout,
	}
	if err := cmd.run(cmdCtx, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) || errors.Is(err, errUsage) {
			return 2
		}
		logger.Error("command failed", "command", name, "error", err)
		return 1
	}
	return 0
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Apply database migrations, or show their status with -status",
			run:         runMigrate,
		},
		"seed-receivers": {
			name:        "seed-receivers",
			description: "Create receivers from a YAML file",
			run:         runSeedReceivers,
		},
		"send-test": {
			name:        "send-test",
			description: "Send a test alert through one channel without touching the database",
			run:         runSendTest,
		},
		"list-templates": {
			name:        "list-templates",
			description: "List loaded message templates and the channel using each",
			run:         runListTemplates,
		},
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: notify-admin <command> [flags]\n\nAvailable commands:\n")
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-16s %s\n", name, commands()[name].description)
	}
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}
