package main

import (
	"os"

	"github.com/fittrack/fittrack/cmd/fitctl/cmd"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "fitctl",
		Short:        "Operator tools for the FitTrack API",
		SilenceUsage: true,
	}

	cmd.AddDatabaseFlags(rootCmd)
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.UserCmd())
	rootCmd.AddCommand(cmd.AnalyticsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
