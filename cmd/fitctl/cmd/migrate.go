package cmd

import (
	"database/sql"
	"fmt"

	"github.com/fatih/color"
	"github.com/fittrack/fittrack/internal/db"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back, or inspect schema migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				database, err := openDB(cmd.Context())
				if err != nil {
					return err
				}
				defer func() { _ = db.Close(database) }()

				err = db.RunMigrations(database.DB, dbDriver)
				if err != nil {
					return err
				}
				return printVersion(database.DB)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				database, err := openDB(cmd.Context())
				if err != nil {
					return err
				}
				defer func() { _ = db.Close(database) }()

				err = db.MigrateDown(database.DB, dbDriver)
				if err != nil {
					return err
				}
				color.Yellow("rolled back one migration")
				return printVersion(database.DB)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				database, err := openDB(cmd.Context())
				if err != nil {
					return err
				}
				defer func() { _ = db.Close(database) }()

				return printVersion(database.DB)
			},
		},
	)

	return cmd
}

func printVersion(conn *sql.DB) error {
	version, err := db.Version(conn, dbDriver)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	color.Green("schema version %d", version)
	return nil
}
