package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"storepulse/internal/platform/config"
	"storepulse/pkg/domain"
)

var (
	tokenName    string
	tokenSubject string
	tokenTTL     time.Duration
	tokenJSON    bool
)

var tokenCmd = &cobra.Command{
	Use:   "token <role>",
	Short: "Mint a development bearer token for the given role",
	Long: "Sign a short-lived bearer token with the configured JWT signing key. " +
		"Roles: store, branch, region, admin. Intended for local development and " +
		"demos; production tokens come from the identity provider.",
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenName, "name", "Dev User", "Display name carried in the token")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "dev-user", "Subject (actor ID) claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "Token time-to-live")
	tokenCmd.Flags().BoolVar(&tokenJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	role := domain.Role(args[0])
	if !role.IsValid() {
		return fmt.Errorf("unknown role %q (expected store, branch, region, or admin)", args[0])
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  tokenSubject,
		"name": tokenName,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}

	signingKey := os.Getenv("JWT_SIGNING_KEY")
	if signingKey == "" {
		signingKey = config.FromEnv().JWTSigningKey
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: JWT_SIGNING_KEY not set, using the development default")
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	if tokenJSON {
		out, err := json.MarshalIndent(map[string]any{
			"token":      signed,
			"role":       string(role),
			"expires_in": tokenTTL.String(),
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), signed)
	return nil
}
