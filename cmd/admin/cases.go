package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// approveCmd verifies a case awaiting review
var approveCmd = &cobra.Command{
	Use:   "approve <case-id>",
	Short: "Approve a pending case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := current.cases.Approve(cmd.Context(), current.actor, args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "case %s is now %s\n", c.ID, c.Status)
		return err
	},
}

var rejectReason string

// rejectCmd rejects a case awaiting review
var rejectCmd = &cobra.Command{
	Use:   "reject <case-id>",
	Short: "Reject a pending case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := current.cases.Reject(cmd.Context(), current.actor, args[0], rejectReason)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "case %s is now %s\n", c.ID, c.Status)
		return err
	},
}

// recountCmd rebuilds a case's vote counters from the vote rows
var recountCmd = &cobra.Command{
	Use:   "recount <case-id>...",
	Short: "Recompute support and oppose counters from recorded votes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range args {
			tally, drifted, err := current.votes.Recount(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("recount %s: %w", id, err)
			}
			state := "ok"
			if drifted {
				state = "repaired"
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "case %s: support=%d oppose=%d (%s)\n",
				tally.CaseID, tally.Support, tally.Oppose, state); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rejectCmd.Flags().StringVar(&rejectReason, "reason", "", "Rejection reason shown on the case timeline")
	_ = rejectCmd.MarkFlagRequired("reason")
	rootCmd.AddCommand(approveCmd, rejectCmd, recountCmd)
}
