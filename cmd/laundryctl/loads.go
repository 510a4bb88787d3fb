package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"laundry-cycle-backend/internal/laundry"
	"laundry-cycle-backend/internal/model"
)

var loadsCmd = &cobra.Command{
	Use:   "loads",
	Short: "List, create and advance loads",
}

var (
	listAll     bool
	createType  string
	createNotes string
	createStart bool
	createdBy   string
)

var loadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show active loads, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		loads, err := manager.List(cmd.Context(), !listAll)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderLoads(loads, manager.Now()))
		return nil
	},
}

var loadsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a load to the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		load, err := manager.Create(cmd.Context(), laundry.CreateRequest{
			Type:        model.LoadType(createType),
			Notes:       createNotes,
			StartWasher: createStart,
			CreatedBy:   createdBy,
		})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderLoad(*load, manager.Now()))
		return nil
	},
}

var loadsAdvanceCmd = &cobra.Command{
	Use:       "advance <id> <action>",
	Short:     "Apply start_washer, start_dryer or mark_done to a load",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(laundry.ActionStartWasher), string(laundry.ActionStartDryer), string(laundry.ActionMarkDone)},
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := laundry.ParseAction(args[1])
		if err != nil {
			return err
		}

		manager, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		load, err := manager.Advance(cmd.Context(), args[0], action)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderLoad(*load, manager.Now()))
		return nil
	},
}

func init() {
	loadsListCmd.Flags().BoolVar(&listAll, "all", false, "include finished loads")

	loadsCreateCmd.Flags().StringVarP(&createType, "type", "t", string(model.LoadTypeTowels), "towels, pillowcases_towels or towels_feet")
	loadsCreateCmd.Flags().StringVarP(&createNotes, "notes", "n", "", "free-form notes")
	loadsCreateCmd.Flags().BoolVar(&createStart, "start", false, "start the washer right away")
	loadsCreateCmd.Flags().StringVar(&createdBy, "by", "laundryctl", "name recorded as the creator")

	loadsCmd.AddCommand(loadsListCmd, loadsCreateCmd, loadsAdvanceCmd)
}
