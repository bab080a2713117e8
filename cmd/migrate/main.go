package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/eightysix/analytics/internal/infrastructure/config"
	"github.com/eightysix/analytics/internal/infrastructure/logger"
	"github.com/eightysix/analytics/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

// dbCommand needs a live database
type dbCommand struct {
	args  string
	help  string
	nargs int
	run   func(m *migration.Migrator, args []string, log *zap.Logger) error
}

var dbCommands = map[string]dbCommand{
	"up": {
		help: "Apply all pending migrations",
		run:  func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Up() },
	},
	"down": {
		help: "Roll back all migrations",
		run:  func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Down() },
	},
	"step": {
		args:  "<n>",
		nargs: 1,
		help:  "Apply n migrations (negative n rolls back)",
		run:   func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return m.Steps(n)
		},
	},
	"goto": {
		args:  "<version>",
		nargs: 1,
		help:  "Migrate up or down to a version",
		run:   func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			v, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return m.GoTo(uint(v))
		},
	},
	"version": {
		help: "Show the applied version",
		run:  func(m *migration.Migrator, _ []string, log *zap.Logger) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if v == 0 {
				log.Info("No migrations applied")
				return nil
			}
			log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
			return nil
		},
	},
	"force": {
		args:  "<version>",
		nargs: 1,
		help:  "Mark a version as applied without running it",
		run:   func(m *migration.Migrator, args []string, log *zap.Logger) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			log.Warn("Forcing migration version", zap.Int("version", v))
			return m.Force(v)
		},
	},
}

func main() {
	dir := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	log, err := logger.New(config.LogConfig{Level: *level, Format: "console", Output: "stdout"}, "eightysix-migrate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	name, rest := args[0], args[1:]
	switch name {
	case "create":
		if len(rest) == 0 {
			log.Fatal("usage: migrate create <name> [description]")
		}
		desc := ""
		if len(rest) > 1 {
			desc = rest[1]
		}
		f, err := migration.Create(dirOrDefault(*dir), rest[0], desc)
		if err != nil {
			log.Fatal("Create migration failed", zap.Error(err))
		}
		log.Info("Migration created", zap.Uint("version", f.Version), zap.String("up", f.UpPath), zap.String("down", f.DownPath))
		return
	case "list":
		names, err := migration.List(dirOrDefault(*dir))
		if err != nil {
			log.Fatal("List migrations failed", zap.Error(err))
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	cmd, ok := dbCommands[name]
	if !ok {
		log.Error("Unknown command", zap.String("command", name))
		usage()
		os.Exit(2)
	}
	if len(rest) < cmd.nargs {
		log.Fatal(fmt.Sprintf("usage: migrate %s %s", name, cmd.args))
	}

	m, closeFn, err := openMigrator(*dir, log)
	if err != nil {
		log.Fatal("Open migrator failed", zap.Error(err))
	}
	defer closeFn()

	if err := cmd.run(m, rest, log); err != nil {
		log.Fatal("Migration command failed", zap.String("command", name), zap.Error(err))
	}
}

// openMigrator reads the embedded migrations unless dir is set
func openMigrator(dir string, log *zap.Logger) (*migration.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using migrations from disk", zap.String("path", abs))
		m, err := migration.NewFromDir(cfg.Database.DSN(), abs, log)
		if err != nil {
			return nil, nil, err
		}
		return m, closer(m, nil, log), nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	m, err := migration.New(db, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, closer(m, db, log), nil
}

func closer(m *migration.Migrator, db *sql.DB, log *zap.Logger) func() {
	return func() {
		if err := m.Close(); err != nil {
			log.Warn("Close migrator", zap.Error(err))
		}
		if db != nil {
			_ = db.Close()
		}
	}
}

func dirOrDefault(dir string) string {
	if dir != "" {
		return dir
	}
	return defaultMigrationsDir
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "EightySix database migration tool")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: migrate [flags] <command> [arguments]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")

	names := make([]string, 0, len(dbCommands))
	for n := range dbCommands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		c := dbCommands[n]
		fmt.Fprintf(out, "  %-22s %s\n", n+" "+c.args, c.help)
	}
	fmt.Fprintf(out, "  %-22s %s\n", "create <name> [desc]", "Write a new up/down migration pair")
	fmt.Fprintf(out, "  %-22s %s\n", "list", "List migrations on disk")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	flag.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Database settings come from config.toml and EIGHTYSIX_DATABASE_* variables.")
}
