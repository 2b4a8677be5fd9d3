package main

import (
	"fmt"

	"aperturama/internal/app"

	"github.com/spf13/cobra"
)

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the metadata database",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if err := app.MigrateDatabase(cfg); err != nil {
			return err
		}
		fmt.Println("Database is up to date.")
		return nil
	},
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup PATH",
	Short: "Write a consistent snapshot of the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "BackupDatabase")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.BackupDatabase(args[0]); err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Printf("Database written to %s\n", args[0])
		return nil
	},
}

// user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add EMAIL",
	Short: "Register a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "RegisterUser")
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.Service().RegisterUser(cmd.Context(), args[0])
		if err != nil {
			return a.Fail(err)
		}
		fmt.Printf("User %d: %s\n", u.ID, u.Email)
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show EMAIL",
	Short: "Look up a user by email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "FindUser")
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.Service().FindUserByEmail(cmd.Context(), args[0])
		if err != nil {
			return a.Fail(err)
		}
		if u == nil {
			return a.Fail(fmt.Errorf("no user registered as %s", args[0]))
		}
		fmt.Printf("User %d: %s (since %s)\n", u.ID, u.Email, u.CreatedAt.Format("2006-01-02"))
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbBackupCmd)
	rootCmd.AddCommand(dbCmd)

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userShowCmd)
	rootCmd.AddCommand(userCmd)
}
