package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"backoffice-service/internal/repository"
	"backoffice-service/internal/service"
)

var userName string

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage the users orders are placed for",
}

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a user and print its id",
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

		user, err := service.NewUserService(repository.NewUserRepository(db)).CreateUser(cmd.Context(), userName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\n", user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersAddCmd)

	usersAddCmd.Flags().StringVar(&userName, "name", "", "name of the user")
	_ = usersAddCmd.MarkFlagRequired("name")
}
