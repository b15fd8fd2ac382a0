package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"zentime/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear finished meditation sessions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		sessions, err := store.List(ctx)
		if err != nil {
			return err
		}
		summary, err := store.Summary(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, history.SummaryLine(summary))
		for i, session := range sessions {
			if historyLimit > 0 && i >= historyLimit {
				break
			}
			fmt.Fprintln(out, history.SessionLine(session))
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !historyYes {
			return fmt.Errorf("refusing to clear history without --yes")
		}
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

var (
	historyLimit int
	historyYes   bool
)

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show at most n sessions (0 = all)")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "confirm deletion")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}
