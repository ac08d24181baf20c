// Command migrate applies the embedded SQL migrations to the configured database.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/EgehanKilicarslan/inventory-api/internal/config"
	"github.com/EgehanKilicarslan/inventory-api/internal/database"
	"github.com/EgehanKilicarslan/inventory-api/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the inventory database schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "PostgreSQL connection string (defaults to the POSTGRESQL_* settings)")

	run := func(action func(db *sql.DB, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			log := logger.New(cfg)

			if dsn == "" {
				dsn = cfg.DSN()
			}

			db, err := sql.Open("postgres", dsn)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			goose.SetBaseFS(database.Migrations)
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}

			log.Info("🗄️ [Migrate] Running command", "command", cmd.Name())
			return action(db, args)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: run(func(db *sql.DB, _ []string) error {
				return goose.Up(db, database.MigrationsDir)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: run(func(db *sql.DB, _ []string) error {
				return goose.Down(db, database.MigrationsDir)
			}),
		},
		&cobra.Command{
			Use:   "down-to VERSION",
			Short: "Roll back migrations down to a version",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(db *sql.DB, args []string) error {
				version, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return goose.DownTo(db, database.MigrationsDir, version)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the status of every migration",
			Args:  cobra.NoArgs,
			RunE: run(func(db *sql.DB, _ []string) error {
				return goose.Status(db, database.MigrationsDir)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: run(func(db *sql.DB, _ []string) error {
				return goose.Version(db, database.MigrationsDir)
			}),
		},
	)

	return root
}
