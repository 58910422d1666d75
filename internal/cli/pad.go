package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sologit/sologit/internal/workpadengine"
)

var (
	padDeleteForce  bool
	padDiffBase     string
	padCleanupRepo  string
	padCleanupDays  int
	padCleanupState string
)

func init() {
	padDeleteCmd.Flags().BoolVar(&padDeleteForce, "force", false, "Delete even if the branch removal fails")
	padDiffCmd.Flags().StringVar(&padDiffBase, "base", "trunk", "Base ref to diff against")
	padCleanupCmd.Flags().StringVar(&padCleanupRepo, "repo", "", "Restrict cleanup to one repository")
	padCleanupCmd.Flags().IntVar(&padCleanupDays, "days", 30, "Delete workpads inactive for at least this many days")
	padCleanupCmd.Flags().StringVar(&padCleanupState, "status", "", "Restrict cleanup to one status (active, promoted, deleted)")

	padCmd.AddCommand(padCreateCmd, padSwitchCmd, padListCmd, padGetCmd, padPromoteCmd,
		padDeleteCmd, padDiffCmd, padCompareCmd, padPreviewCmd, padCleanupCmd, padTestResultCmd)
	rootCmd.AddCommand(padCmd)
}

var padCmd = &cobra.Command{
	Use:   "pad",
	Short: "Manage ephemeral workpads layered over a repository's trunk",
}

var padCreateCmd = &cobra.Command{
	Use:   "create <repo-id> <title>",
	Short: "Create a workpad branched off trunk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		id, err := a.workpads.Create(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var padSwitchCmd = &cobra.Command{
	Use:   "switch <pad-id>",
	Short: "Check out a workpad's branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.workpads.Switch(args[0])
	},
}

var padListCmd = &cobra.Command{
	Use:   "list [repo-id]",
	Short: "List workpads, optionally scoped to one repository",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		repoID := ""
		if len(args) == 1 {
			repoID = args[0]
		}
		return printJSON(a.workpads.List(repoID))
	},
}

var padGetCmd = &cobra.Command{
	Use:   "get <pad-id>",
	Short: "Show a single workpad's metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		w, err := a.workpads.Get(args[0])
		if err != nil {
			return err
		}
		return printJSON(w)
	},
}

var padPromoteCmd = &cobra.Command{
	Use:   "promote <pad-id>",
	Short: "Fast-forward trunk to the workpad's HEAD and retire the branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		hash, err := a.workpads.Promote(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

var padDeleteCmd = &cobra.Command{
	Use:   "delete <pad-id>",
	Short: "Retire a workpad without promoting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.workpads.Delete(args[0], padDeleteForce)
	},
}

var padDiffCmd = &cobra.Command{
	Use:   "diff <pad-id>",
	Short: "Show the unified diff between a base ref (default: trunk) and the workpad",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		diff, err := a.workpads.Diff(args[0], padDiffBase)
		if err != nil {
			return err
		}
		fmt.Print(diff)
		return nil
	},
}

var padCompareCmd = &cobra.Command{
	Use:   "compare <pad-id-a> <pad-id-b>",
	Short: "Diff two workpads' HEADs and summarize the files touched",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		c, err := a.workpads.Compare(args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(c)
	},
}

var padPreviewCmd = &cobra.Command{
	Use:   "merge-preview <pad-id>",
	Short: "Preview fast-forward status, commit counts, and conflicts without mutating anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		p, err := a.workpads.MergePreview(args[0])
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

var padCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete workpads inactive past a threshold",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		deleted, err := a.workpads.Cleanup(padCleanupRepo, padCleanupDays, workpadengine.Status(padCleanupState))
		if err != nil {
			return err
		}
		return printJSON(deleted)
	},
}

var padTestResultCmd = &cobra.Command{
	Use:   "test-result <pad-id> <green|red>",
	Short: "Record a workpad's last test outcome",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		result := workpadengine.TestResult(args[1])
		if result != workpadengine.TestResultGreen && result != workpadengine.TestResultRed {
			return fmt.Errorf("test result must be %q or %q", workpadengine.TestResultGreen, workpadengine.TestResultRed)
		}
		return a.workpads.RecordTestResult(args[0], result)
	},
}
