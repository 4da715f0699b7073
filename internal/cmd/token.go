package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"backoffice-service/internal/repository"
	"backoffice-service/internal/service"
)

var tokenUserID int

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for an existing user",
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

		auth := service.NewAuthService(repository.NewUserRepository(db), []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
		token, err := auth.IssueToken(cmd.Context(), tokenUserID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().IntVar(&tokenUserID, "user-id", 0, "id of the user the token is issued to")
	_ = tokenCmd.MarkFlagRequired("user-id")
}
