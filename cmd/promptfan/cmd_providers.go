package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Manage the provider catalog",
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured providers in fan-out order",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := st.Load()
		if err != nil {
			return err
		}
		for _, d := range state.Destinations {
			mark := " "
			if d.Enabled {
				mark = "*"
			}
			fmt.Printf("%s %-12s %-16s %s\n", mark, d.ID, d.DisplayName, d.NewConversationURL)
		}
		return nil
	},
}

var providersEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a provider for default fan-out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return st.SetDestinationEnabled(args[0], true)
	},
}

var providersDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Exclude a provider from default fan-out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return st.SetDestinationEnabled(args[0], false)
	},
}

var providersReorderCmd = &cobra.Command{
	Use:   "reorder <id> [id...]",
	Short: "Reorder providers; listed ids lead, the rest keep their order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return st.ReorderDestinations(args)
	},
}

func init() {
	providersCmd.AddCommand(providersListCmd)
	providersCmd.AddCommand(providersEnableCmd)
	providersCmd.AddCommand(providersDisableCmd)
	providersCmd.AddCommand(providersReorderCmd)
}
