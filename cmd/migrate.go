package cmd

import (
	"fmt"
	"log"

	"feira/internal/config"
	"feira/internal/database"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		db, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access database handle: %w", err)
		}
		defer sqlDB.Close()

		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Printf("Migrated %s database", cfg.Database.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
