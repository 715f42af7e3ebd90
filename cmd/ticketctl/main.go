// Command ticketctl is the operator tool for the ticketing service:
// schema bootstrap, account provisioning and payment reconciliation.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/database"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "ticketctl",
		Short:         "Operator commands for the event ticketing service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createSuperadminCmd())
	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(hashPasswordCmd())
	rootCmd.AddCommand(reconcileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openDB loads the service configuration and connects to its database.
func openDB() (*sql.DB, config.Config, error) {
	cfg := config.Load()
	config.SetupLogger(cfg.LogLevel, "console")
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, cfg, fmt.Errorf("connect database: %w", err)
	}
	return db, cfg, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create any missing tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(context.Background(), db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d statements\n", len(database.Statements()))
			return nil
		},
	}
}
