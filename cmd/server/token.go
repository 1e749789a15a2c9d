package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quickai/server/internal/module/auth"
)

var tokenEmail string

// tokenCmd issues a bearer token for local testing against the API.
var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue a bearer token for a user id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		manager := auth.NewJWTManager(&auth.JWTConfig{
			Secret:   cfg.Auth.JWTSecret,
			Issuer:   cfg.Auth.Issuer,
			TokenTTL: cfg.Auth.TokenTTL,
		})
		token, expiresAt, err := manager.GenerateToken(args[0], tokenEmail)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim to embed")
	rootCmd.AddCommand(tokenCmd)
}
