package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/retail/backend/internal/infrastructure/config"
	"github.com/retail/backend/internal/infrastructure/logger"
	"github.com/retail/backend/internal/infrastructure/migration"
)

const usage = `Usage: migrate [flags] <command> [args]

Commands:
  up                      apply all pending migrations
  down                    roll back all migrations
  step <n>                apply n migrations (negative rolls back)
  version                 print the current schema version
  force <version>         set the version without running migrations
  drop -confirm           drop every object in the database
  create <name> [desc]    create a new up/down migration pair
  list                    list migrations on disk

Flags:
  -path string            migrations directory (default "migrations")
  -log-level string       log level (default "info")
`

func main() {
	var (
		path     = flag.String("path", "migrations", "migrations directory")
		logLevel = flag.String("log-level", "info", "log level")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{
		Level:  *logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	command := args[0]

	// create and list only touch the filesystem
	switch command {
	case "create":
		runCreate(log, *path, args[1:])
		return
	case "list":
		runList(log, *path)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to reach database", zap.Error(err))
	}

	migrator, err := migration.New(db, *path, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Error("Error closing migrator", zap.Error(err))
		}
	}()

	switch command {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "step":
		err = runStep(migrator, args[1:])
	case "version":
		err = runVersion(migrator, log)
	case "force":
		err = runForce(migrator, args[1:])
	case "drop":
		err = runDrop(migrator, args[1:])
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal("Command failed", zap.String("command", command), zap.Error(err))
	}
}

func runStep(m *migration.Migrator, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("step requires a single numeric argument")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid step count %q: %w", args[0], err)
	}
	return m.Steps(n)
}

func runVersion(m *migration.Migrator, log *zap.Logger) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		log.Info("No migrations applied yet")
		return nil
	}
	log.Info("Current schema version",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

func runForce(m *migration.Migrator, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("force requires a version argument")
	}
	version, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", args[0], err)
	}
	return m.Force(version)
}

func runDrop(m *migration.Migrator, args []string) error {
	if len(args) != 1 || args[0] != "-confirm" {
		return fmt.Errorf("drop is destructive, pass -confirm to proceed")
	}
	return m.Drop()
}

func runCreate(log *zap.Logger, path string, args []string) {
	if len(args) < 1 {
		log.Fatal("create requires a migration name")
	}
	name := args[0]
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	file, err := migration.CreateMigration(path, name, description)
	if err != nil {
		log.Fatal("Failed to create migration", zap.Error(err))
	}
	log.Info("Migration created",
		zap.String("up", file.UpPath),
		zap.String("down", file.DownPath),
	)
}

func runList(log *zap.Logger, path string) {
	names, err := migration.ListMigrations(path)
	if err != nil {
		log.Fatal("Failed to list migrations", zap.Error(err))
	}
	if len(names) == 0 {
		log.Info("No migrations found", zap.String("path", path))
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}
