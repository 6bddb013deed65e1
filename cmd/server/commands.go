package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "rollcall/internal/jwt_token"
	"rollcall/pkg/requestcontext"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the ledger schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// newApp migrates on open.
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()
		a.logger.Info("ledger schema up to date", "driver", cfg.Database.Driver)
		return nil
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Rebuild the embedding index from the ledger and persist it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()

		report, err := a.registration.Reconcile(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

var (
	tokenUserID int64
	tokenRole   string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a signed bearer token for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !requestcontext.Role(tokenRole).Known() {
			return fmt.Errorf("unknown role %q (want lecturer, hod or admin)", tokenRole)
		}
		token, err := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer).
			GenerateAccessToken(tokenUserID, tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user", 1, "principal id")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(requestcontext.RoleLecturer), "lecturer, hod or admin")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}
