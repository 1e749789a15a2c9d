package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quickai/server/internal/app"
	"github.com/quickai/server/internal/shared/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.New(&cfg.Database)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		if err := app.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
