package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"laundry-cycle-backend/internal/auth"
)

var (
	tokenName string
	tokenRole string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage staff session tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Print a session token for a staff member",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Auth.SessionSecret == "" {
			return fmt.Errorf("auth.session_secret is not configured")
		}

		token, err := auth.NewSessionCodec(cfg.Auth.SessionSecret, cfg.Auth.TokenTTL).Issue(auth.Actor{
			Name: tokenName,
			Role: auth.Role(tokenRole),
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenIssueCmd.Flags().StringVar(&tokenName, "name", "", "staff member's name")
	tokenIssueCmd.Flags().StringVar(&tokenRole, "role", string(auth.RoleRunner), "runner or frontdesk")
	_ = tokenIssueCmd.MarkFlagRequired("name")

	tokenCmd.AddCommand(tokenIssueCmd)
}
