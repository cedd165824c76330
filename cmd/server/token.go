package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	// Token flags
	tokenEmail string
	tokenTTL   time.Duration
)

// tokenCmd mints a bearer token with the configured shared secret.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	Long: `Mint an HS256 bearer token for the given principal email, signed with auth.jwt_secret.

Examples:
  carrest token --email admin@example.com
  carrest token --email admin@example.com --ttl 24h`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenEmail == "" {
			return errors.New("--email is required")
		}

		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if tokenTTL > 0 {
			cfg.Auth.TokenTTL = tokenTTL
		}

		jwtService, err := newJWTService(cfg)
		if err != nil {
			return err
		}

		token, expiresAt, err := jwtService.GenerateAccessToken(tokenEmail)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Principal email placed in the token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (default auth.token_ttl)")
	rootCmd.AddCommand(tokenCmd)
}
