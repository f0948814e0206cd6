package cmd

import (
	"context"
	"os"

	"github.com/fittrack/fittrack/internal/app"
	"github.com/fittrack/fittrack/internal/config"
	"github.com/fittrack/fittrack/internal/db"
	"github.com/fittrack/fittrack/internal/service"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var (
	dbDriver     string
	dbConnection string
)

// AddDatabaseFlags registers --driver and --db, defaulting to DB_DRIVER and
// DB_CONNECTION like the server does.
func AddDatabaseFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&dbDriver, "driver", envOr("DB_DRIVER", "sqlite"), "database driver (sqlite or pgx)")
	root.PersistentFlags().StringVar(&dbConnection, "db", envOr("DB_CONNECTION", "./data/fittrack.db?_pragma=foreign_keys(1)&_time_format=sqlite"), "database connection string")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func openDB(ctx context.Context) (*sqlx.DB, error) {
	return db.Init(ctx, dbDriver, dbConnection)
}

// openApp wires the service layer for offline use. Mail goes to the log.
func openApp(ctx context.Context) (*app.App, error) {
	database, err := openDB(ctx)
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		AppName: envOr("APP_NAME", "FitTrack"),
		AppEnv:  "development",
		AppURL:  envOr("APP_URL", "http://localhost:8090"),
	}
	mailer := service.NewEmailService("", envOr("EMAIL_FROM", "noreply@example.com"), cfg.AppURL, cfg.AppName, true)

	return app.Build(cfg, database, app.Deps{Mailer: mailer}), nil
}
