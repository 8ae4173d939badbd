package cmd

import (
	"github.com/poornesh-v09/Milk-Management/config"
	"github.com/poornesh-v09/Milk-Management/internal/database"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Creates or updates the schema for all collections and exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		log.Info().Msg("Running database migrations")
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		log.Info().Msg("Database migrations completed successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
