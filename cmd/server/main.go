package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rollcall/internal/platform/config"
)

var (
	configPath string
	envFile    string
	settings   = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "rollcall",
	Short: "Biometric attendance service",
	Long: `rollcall identifies students from face embeddings and records attendance
at most once per student, course and day.

Commands:
  serve      run the HTTP API (default)
  migrate    create the ledger schema
  reconcile  rebuild the embedding index from the ledger
  token      mint a bearer token for local testing`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		config.SetDefaults(settings)
		config.SetupEnv(settings)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file; missing is fine")

	rootCmd.AddCommand(serveCmd, migrateCmd, reconcileCmd, tokenCmd)
}

// loadConfig resolves flags, environment and the optional file into Config.
func loadConfig() (*config.Config, error) {
	return config.Load(settings, configPath)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
