package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/bakery/backend/internal/infrastructure/config"
	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var errUsage = errors.New("invalid arguments")

// command is one subcommand of the tool. Commands that set files never
// open a database connection.
type command struct {
	usage string
	files func(dir string, args []string, log *zap.Logger) error
	db    func(m *migration.Migrator, args []string, log *zap.Logger) error
}

var commands = map[string]command{
	"up": {usage: "up                    Apply all pending migrations",
		db: func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Up() }},
	"down": {usage: "down -confirm         Roll back every migration",
		db: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			if !confirmed(args) {
				return fmt.Errorf("%w: down removes every table, pass -confirm", errUsage)
			}
			return m.Down()
		}},
	"step": {usage: "step <n>              Apply n migrations (negative rolls back)",
		db: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			n, err := intArg(args)
			if err != nil {
				return err
			}
			return m.Steps(n)
		}},
	"goto": {usage: "goto <version>        Migrate up or down to a version",
		db: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			v, err := intArg(args)
			if err != nil || v < 0 {
				return fmt.Errorf("%w: goto needs a version >= 0", errUsage)
			}
			return m.GoTo(uint(v))
		}},
	"status": {usage: "status                Show applied version and pending migrations",
		db: func(m *migration.Migrator, _ []string, log *zap.Logger) error {
			st, err := m.Status()
			if err != nil {
				return err
			}
			log.Info("Schema status",
				zap.Uint("version", st.Version),
				zap.Uint("latest", st.Latest),
				zap.Int("pending", st.Pending),
				zap.Bool("dirty", st.Dirty),
			)
			return nil
		}},
	"force": {usage: "force <version>       Mark a version clean after a manual repair",
		db: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			v, err := intArg(args)
			if err != nil {
				return err
			}
			return m.Force(v)
		}},
	"drop": {usage: "drop -confirm         Drop every database object",
		db: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			if !confirmed(args) {
				return fmt.Errorf("%w: drop destroys all data, pass -confirm", errUsage)
			}
			return m.Drop()
		}},
	"create": {usage: "create <name> [desc]  Write a new up/down migration pair",
		files: func(dir string, args []string, log *zap.Logger) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: create needs a name", errUsage)
			}
			if dir == "" {
				dir = "migrations"
			}
			desc := ""
			if len(args) > 1 {
				desc = args[1]
			}
			mf, err := migration.CreateMigration(dir, args[0], desc)
			if err != nil {
				return err
			}
			log.Info("Migration created", zap.String("version", mf.Version),
				zap.String("up", mf.UpPath), zap.String("down", mf.DownPath))
			return nil
		}},
	"list": {usage: "list                  List the migrations in the set",
		files: func(dir string, _ []string, _ *zap.Logger) error {
			var names []string
			var err error
			if dir == "" {
				names, err = migration.ListEmbedded()
			} else {
				names, err = migration.ListMigrations(os.DirFS(dir))
			}
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		}},
}

func main() {
	dir := flag.String("path", "", "Migrations directory (default: the set embedded in the binary)")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: *level, Format: "console", Output: "stderr", TimeFormat: "15:04:05"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if *dir != "" {
		if *dir, err = filepath.Abs(*dir); err != nil {
			log.Fatal("Invalid migrations path", zap.Error(err))
		}
	}

	if err := run(cmd, *dir, args[1:], log); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		log.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(cmd command, dir string, args []string, log *zap.Logger) error {
	if cmd.files != nil {
		return cmd.files(dir, args, log)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("connect to database: %w", err)
	}
	if dir == "" {
		dir = cfg.Database.MigrationsPath
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	}()
	return cmd.db(m, args, log)
}

func intArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: a number is required", errUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errUsage, args[0])
	}
	return n, nil
}

func confirmed(args []string) bool {
	for _, a := range args {
		if a == "-confirm" || a == "--confirm" {
			return true
		}
	}
	return false
}

func printUsage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(os.Stderr, "Bakery schema migrations\n\nUsage:\n  migrate [flags] <command> [arguments]\n\nCommands:")
	for _, name := range names {
		fmt.Fprintln(os.Stderr, "  "+commands[name].usage)
	}
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nThe database comes from DATABASE_URL or the BAKERY_DATABASE_* variables.")
}
