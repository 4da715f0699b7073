package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "backoffice",
	Short: "Back-office API for categories, products, orders and reports",
	Long: `backoffice serves the authenticated REST API used to manage the
catalog, place and track orders, and export order reports as PDF or CSV.

Configuration is read from config.yaml and BACKOFFICE_* environment
variables, e.g. BACKOFFICE_DB_DSN or BACKOFFICE_AUTH_JWTSECRET.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ./config.yaml)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
