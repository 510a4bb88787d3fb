package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"laundry-cycle-backend/internal/parse"
)

var dryersCmd = &cobra.Command{
	Use:   "dryers",
	Short: "Show and change dryer cycle lengths",
}

var dryersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show each dryer's cycle length",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		durations, err := manager.DryerDurations(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderDryers(durations, manager.Presets()))
		return nil
	},
}

var dryersSetCmd = &cobra.Command{
	Use:     "set-duration <dryer> <minutes>",
	Short:   "Set the cycle length for loads started on a dryer from now on",
	Example: "  laundryctl dryers set-duration 2 \"48 min\"",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryer, err := parse.Dryer(args[0])
		if err != nil {
			return err
		}
		minutes, err := parse.Minutes(args[1])
		if err != nil {
			return err
		}

		manager, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := manager.SetDryerDuration(cmd.Context(), dryer, minutes); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Dryer %d now runs %d min", dryer, minutes)))
		return nil
	},
}

func init() {
	dryersCmd.AddCommand(dryersListCmd, dryersSetCmd)
}
