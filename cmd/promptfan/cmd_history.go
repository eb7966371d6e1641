package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the query history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past queries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := st.Load()
		if err != nil {
			return err
		}
		if len(state.History) == 0 {
			fmt.Println("history is empty")
			return nil
		}
		for i, q := range state.History {
			fmt.Printf("%3d  %s\n", i+1, q)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return st.ClearHistory()
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}
