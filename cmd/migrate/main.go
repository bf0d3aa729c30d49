// Command migrate applies the versioned Postgres schema of the SIM back
// office and scaffolds new migration files.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/simpro/backend/internal/infrastructure/config"
	"github.com/simpro/backend/internal/infrastructure/logger"
	"github.com/simpro/backend/internal/infrastructure/migration"
)

const defaultMigrationsDir = "internal/infrastructure/migration/sql"

var errUsage = errors.New("bad usage")

// schemaCommand runs against a live database
type schemaCommand func(m *migration.Migrator, log *zap.Logger, args []string) error

var schemaCommands = map[string]schemaCommand{
	"up":      func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Up() },
	"down":    func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Down() },
	"step":    stepCmd,
	"goto":    gotoCmd,
	"version": versionCmd,
	"force":   forceCmd,
}

func main() {
	dir := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      *level,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if *dir != "" {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			log.Fatal("Bad migrations path", zap.String("path", *dir), zap.Error(err))
		}
		*dir = abs
	}

	if err := run(args[0], args[1:], *dir, log); err != nil {
		if errors.Is(err, errUsage) {
			log.Error(err.Error())
			printUsage()
			os.Exit(2)
		}
		log.Fatal("Migrate command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(command string, args []string, dir string, log *zap.Logger) error {
	switch command {
	case "create":
		return createCmd(dir, args, log)
	case "list":
		return listCmd(dir, log)
	}

	cmd, ok := schemaCommands[command]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	m, err := openMigrator(dir, log)
	if err != nil {
		return err
	}
	// closes the connection too
	defer func() { _ = m.Close() }()

	return cmd(m, log, args)
}

func openMigrator(dir string, log *zap.Logger) (*migration.Migrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("driver %q has no versioned schema; sqlite builds its tables on start", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	var m *migration.Migrator
	if dir == "" {
		m, err = migration.New(db, log)
	} else {
		m, err = migration.NewFromDir(db, dir, log)
	}
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

func createCmd(dir string, args []string, log *zap.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: create needs a migration name", errUsage)
	}
	if dir == "" {
		dir = defaultMigrationsDir
	}
	var description string
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
	return nil
}

func listCmd(dir string, log *zap.Logger) error {
	var (
		names []string
		err   error
	)
	if dir == "" {
		names, err = migration.EmbeddedMigrations()
	} else {
		names, err = migration.ListMigrations(dir)
	}
	if err != nil {
		return err
	}
	log.Info("Migrations", zap.Int("count", len(names)), zap.Bool("embedded", dir == ""))
	for _, name := range names {
		fmt.Println("  -", name)
	}
	return nil
}

func stepCmd(m *migration.Migrator, _ *zap.Logger, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: step needs a count", errUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: step count %q", errUsage, args[0])
	}
	return m.Steps(n)
}

func gotoCmd(m *migration.Migrator, _ *zap.Logger, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: goto needs a version", errUsage)
	}
	version, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("%w: version %q", errUsage, args[0])
	}
	return m.GoTo(uint(version))
}

func versionCmd(m *migration.Migrator, log *zap.Logger, _ []string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func forceCmd(m *migration.Migrator, log *zap.Logger, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: force needs a version", errUsage)
	}
	version, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: version %q", errUsage, args[0])
	}
	log.Warn("Forcing schema version without running migrations", zap.Int("version", version))
	return m.Force(version)
}

func printUsage() {
	fmt.Println(`SIM back office schema tool

Usage:
  migrate [-path dir] [-log-level level] <command> [arguments]

Schema commands (need SIMPRO_DATABASE_* and driver postgres):
  up                    apply every pending migration
  down                  roll every migration back
  step <n>              move n migrations (negative rolls back)
  goto <version>        move to one version
  version               print the applied version
  force <version>       record a version without running it

File commands:
  create <name> [desc]  scaffold an up/down pair
  list                  print the available migrations

Without -path the migrations built into the binary are used.`)
}
