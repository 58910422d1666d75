package cli

import (
	"github.com/spf13/cobra"
)

var budgetHistoryDays int

func init() {
	budgetHistoryCmd.Flags().IntVar(&budgetHistoryDays, "days", 7, "Number of trailing days to report")
	budgetCmd.AddCommand(budgetStatusCmd, budgetHistoryCmd)
	rootCmd.AddCommand(budgetCmd)
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Inspect the daily AI spend cap and usage ledger",
}

var budgetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's spend, remaining budget, and any alerts fired",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return printJSON(a.guard.Status())
	},
}

var budgetHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the last N days of persisted usage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return printJSON(a.guard.History(budgetHistoryDays))
	},
}
