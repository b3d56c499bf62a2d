package main

import (
	"fmt"

	"casewatch/backend/internal/auth"
	"casewatch/backend/internal/config"
	"casewatch/backend/internal/models"

	"github.com/spf13/cobra"
)

var tokenRole string

// tokenCmd mints a bearer token for local development
var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint a development JWT for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, ok := models.ParseRole(tokenRole)
		if !ok {
			return fmt.Errorf("unknown role %q", tokenRole)
		}
		cfg := config.Load()
		codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
		tok, err := codec.Issue(auth.Actor{UserID: args[0], Role: role, Status: models.AccountVerified})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
		return err
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(models.RolePublic), "Role claim: PUBLIC, LAWYER, MODERATOR or ADMIN")
	rootCmd.AddCommand(tokenCmd)
}
