package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	repoCmd.AddCommand(repoInitArchiveCmd)
	repoCmd.AddCommand(repoInitRemoteCmd)
	repoCmd.AddCommand(repoListCmd)
	repoCmd.AddCommand(repoGetCmd)
	repoCmd.AddCommand(repoMapCmd)
	repoCmd.AddCommand(repoRevertCmd)
	rootCmd.AddCommand(repoCmd)
}

var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Manage repositories under sologit's control",
}

var repoInitArchiveCmd = &cobra.Command{
	Use:   "init-archive <zip-file> <name>",
	Short: "Initialize a repository from a zip archive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
		id, err := a.repos.InitFromArchive(data, args[1])
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var repoInitRemoteCmd = &cobra.Command{
	Use:   "init-remote <url> [name]",
	Short: "Initialize a repository by cloning a remote",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		name := ""
		if len(args) == 2 {
			name = args[1]
		}
		id, err := a.repos.InitFromRemote(args[0], name)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var repoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all repositories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return printJSON(a.repos.List())
	},
}

var repoGetCmd = &cobra.Command{
	Use:   "get <repo-id>",
	Short: "Show a single repository's metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		repo, err := a.repos.Get(args[0])
		if err != nil {
			return err
		}
		return printJSON(repo)
	},
}

var repoMapCmd = &cobra.Command{
	Use:   "map <repo-id>",
	Short: "Summarize a repository's working tree (file/dir counts, language histogram)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		m, err := a.repos.RepoMap(args[0])
		if err != nil {
			return err
		}
		return printJSON(m)
	},
}

var repoRevertCmd = &cobra.Command{
	Use:   "revert-last-commit <repo-id>",
	Short: "Hard-reset trunk to HEAD~1 (emergency rollback after a bad promotion)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.repos.RevertLastTrunkCommit(args[0])
	},
}

// printJSON writes v to stdout as two-space-indented JSON, matching the
// persisted-state file formatting everywhere else in the engine.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
