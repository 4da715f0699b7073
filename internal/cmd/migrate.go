package cmd

import (
	"github.com/spf13/cobra"

	"backoffice-service/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		db, err := connectDB(cmd.Context(), cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.AutoMigrate(cmd.Context(), db, cfg.DB.ConnectRetries); err != nil {
			return err
		}
		logger.Info().Msg("Migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
