package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/database/seeders"
	"github.com/sudeviagro/backoffice/pkg/database"
	"github.com/sudeviagro/backoffice/pkg/migration"
	"github.com/sudeviagro/backoffice/pkg/rbac"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// backoffice migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		ran, err := migration.New(database.DB).Run(cmd.Context())
		for _, name := range ran {
			fmt.Println("Migrated:", name)
		}
		if err == nil && len(ran) == 0 {
			fmt.Println("Nothing to migrate.")
		}
		return err
	},
}

// backoffice migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		reverted, err := migration.New(database.DB).Rollback(cmd.Context())
		for _, name := range reverted {
			fmt.Println("Rolled back:", name)
		}
		return err
	},
}

// backoffice migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		rows, err := migration.New(database.DB).Status(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "RAN\tBATCH\tMIGRATION")
		for _, s := range rows {
			ran, batch := "No", "-"
			if s.Ran {
				ran, batch = "Yes", fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ran, batch, s.Name)
		}
		return w.Flush()
	},
}

var seedOnly []string

// backoffice seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run the database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		if err := seeders.Run(cmd.Context(), database.DB, seedOnly...); err != nil {
			return err
		}
		fmt.Println("Seeding complete.")
		return nil
	},
}

var userFlags struct {
	name, email, password, role string
}

// backoffice user:create
var userCreateCmd = &cobra.Command{
	Use:   "user:create",
	Short: "Create an admin or editor account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		u, err := services.NewAuthService().CreateUser(cmd.Context(),
			userFlags.name, userFlags.email, userFlags.password, userFlags.role)
		if err != nil {
			return err
		}
		fmt.Printf("Created %s %s (id %d)\n", u.Role, u.Email, u.ID)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringSliceVar(&seedOnly, "only", nil, "Run only these seeders ("+fmt.Sprint(seeders.Names())+")")

	userCreateCmd.Flags().StringVar(&userFlags.name, "name", "Administrator", "Display name")
	userCreateCmd.Flags().StringVar(&userFlags.email, "email", "", "Login e-mail")
	userCreateCmd.Flags().StringVar(&userFlags.password, "password", "", "Password (min 8 characters)")
	userCreateCmd.Flags().StringVar(&userFlags.role, "role", rbac.RoleAdmin, "admin or editor")
	userCreateCmd.MarkFlagRequired("email")    //nolint:errcheck
	userCreateCmd.MarkFlagRequired("password") //nolint:errcheck
}
