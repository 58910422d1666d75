package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusSummary is the machine-readable snapshot `sologit status`
// prints: every repository with its active workpads, plus today's
// budget status, in one shot for a dashboard or script to consume.
type statusSummary struct {
	Repositories []repoStatus `json:"repositories"`
	Budget       any          `json:"budget"`
}

type repoStatus struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Workpads []string `json:"active_workpads"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every repository's active workpads plus today's budget status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		var summary statusSummary
		for _, repo := range a.repos.List() {
			rs := repoStatus{ID: repo.ID, Name: repo.Name}
			for _, w := range a.workpads.List(repo.ID) {
				if w.Status == "active" {
					rs.Workpads = append(rs.Workpads, w.ID)
				}
			}
			summary.Repositories = append(summary.Repositories, rs)
		}
		summary.Budget = a.guard.Status()
		return printJSON(summary)
	},
}
