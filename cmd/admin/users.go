package main

import (
	"fmt"

	"casewatch/backend/internal/models"

	"github.com/spf13/cobra"
)

var reason string

// suspendCmd suspends a user account
var suspendCmd = &cobra.Command{
	Use:   "suspend <user-id>",
	Short: "Suspend a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := current.moderation.SuspendUser(cmd.Context(), current.actor, args[0], reason)
		if err != nil {
			return err
		}
		return printUser(cmd, u)
	},
}

// banCmd bans a user account
var banCmd = &cobra.Command{
	Use:   "ban <user-id>",
	Short: "Ban a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := current.moderation.BanUser(cmd.Context(), current.actor, args[0], reason)
		if err != nil {
			return err
		}
		return printUser(cmd, u)
	},
}

// unsuspendCmd lifts a suspension or ban
var unsuspendCmd = &cobra.Command{
	Use:   "unsuspend <user-id>",
	Short: "Restore a suspended or banned account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := current.moderation.UnsuspendUser(cmd.Context(), current.actor, args[0], reason)
		if err != nil {
			return err
		}
		return printUser(cmd, u)
	},
}

var logsPage, logsLimit int

// logsCmd prints the moderation audit trail, newest first
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List moderation log entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := current.moderation.Logs(cmd.Context(), current.actor, logsPage, logsLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, l := range page.Items {
			r := ""
			if l.Reason != nil {
				r = *l.Reason
			}
			if _, err := fmt.Fprintf(out, "%s\t%-16s\t%s\t%s\t%s\n",
				l.CreatedAt.Format("2006-01-02 15:04:05"), l.ActionType, l.PerformedByID, l.TargetID, r); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintf(out, "page %d/%d, %d entries\n", page.Page, page.TotalPages, page.Total)
		return err
	},
}

func printUser(cmd *cobra.Command, u *models.User) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "user %s is now %s\n", u.ID, u.Status)
	return err
}

func init() {
	for _, c := range []*cobra.Command{suspendCmd, banCmd, unsuspendCmd} {
		c.Flags().StringVar(&reason, "reason", "", "Reason recorded in the moderation log")
		rootCmd.AddCommand(c)
	}
	logsCmd.Flags().IntVar(&logsPage, "page", 1, "Page number")
	logsCmd.Flags().IntVar(&logsLimit, "limit", 20, "Entries per page")
	rootCmd.AddCommand(logsCmd)
}
