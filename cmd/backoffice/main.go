package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Registers the schema steps with pkg/migration.
	_ "github.com/sudeviagro/backoffice/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "backoffice",
	Short:         "Sudevi back-office service",
	Long:          "Catalog and admin API, MySQL mirror-sync, merchant feed and lead notifications.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(userCreateCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(scheduleRunCmd)

	// Integrations
	rootCmd.AddCommand(mirrorSyncCmd)
	rootCmd.AddCommand(mirrorListCmd)
	rootCmd.AddCommand(feedExportCmd)
	rootCmd.AddCommand(feedSyncCmd)
	rootCmd.AddCommand(mailTestCmd)
	rootCmd.AddCommand(siteGenerateCmd)
}
