package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sologit/sologit/internal/patch"
)

var (
	patchMessage    string
	patchNoValidate bool
	patchDryRun     bool
)

func init() {
	patchApplyCmd.Flags().StringVar(&patchMessage, "message", "", "Commit message for the checkpoint (default: \"Checkpoint <N>\")")
	patchApplyCmd.Flags().BoolVar(&patchNoValidate, "no-validate", false, "Skip the pre-flight validation check")

	patchApplyInteractiveCmd.Flags().StringVar(&patchMessage, "message", "", "Commit message for the checkpoint")
	patchApplyInteractiveCmd.Flags().BoolVar(&patchDryRun, "dry-run", false, "Preview without applying")

	patchCmd.AddCommand(patchValidateSyntaxCmd, patchValidateCmd, patchApplyCmd, patchApplyInteractiveCmd,
		patchPreviewCmd, patchConflictsCmd, patchStatsCmd, patchSplitCmd, patchCombineCmd)
	rootCmd.AddCommand(patchCmd)
}

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Validate, preview, and apply unified diffs against a workpad",
}

func readPatchFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading patch file: %w", err)
	}
	return string(data), nil
}

var patchValidateSyntaxCmd = &cobra.Command{
	Use:   "validate-syntax <patch-file>",
	Short: "Structurally check a unified diff without touching any repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readPatchFile(args[0])
		if err != nil {
			return err
		}
		return printJSON(patch.ValidateSyntax(text))
	},
}

var patchValidateCmd = &cobra.Command{
	Use:   "validate <pad-id> <patch-file>",
	Short: "Dry-run a patch against a workpad's branch",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		text, err := readPatchFile(args[1])
		if err != nil {
			return err
		}
		if err := a.patches.Validate(args[0], text); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	},
}

var patchApplyCmd = &cobra.Command{
	Use:   "apply <pad-id> <patch-file>",
	Short: "Validate (unless --no-validate) and apply a patch, creating a checkpoint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		text, err := readPatchFile(args[1])
		if err != nil {
			return err
		}
		checkpointID, err := a.patches.Apply(args[0], text, patchMessage, !patchNoValidate)
		if err != nil {
			return err
		}
		fmt.Println(checkpointID)
		return nil
	},
}

var patchApplyInteractiveCmd = &cobra.Command{
	Use:   "apply-interactive <pad-id> <patch-file>",
	Short: "Pipeline validate-syntax -> preview -> apply, returning a tagged result instead of failing",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		text, err := readPatchFile(args[1])
		if err != nil {
			return err
		}
		result, err := a.patches.ApplyInteractive(args[0], text, patchMessage, patchDryRun)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var patchPreviewCmd = &cobra.Command{
	Use:   "preview <pad-id> <patch-file>",
	Short: "Compute stats and conflict status for a patch without applying it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		text, err := readPatchFile(args[1])
		if err != nil {
			return err
		}
		p, err := a.patches.Preview(args[0], text)
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

var patchConflictsCmd = &cobra.Command{
	Use:   "conflicts <pad-id> <patch-file>",
	Short: "Report the detailed conflict set for a patch",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		text, err := readPatchFile(args[1])
		if err != nil {
			return err
		}
		d, err := a.patches.DetectConflictsDetailed(args[0], text)
		if err != nil {
			return err
		}
		return printJSON(d)
	},
}

var patchStatsCmd = &cobra.Command{
	Use:   "stats <patch-file>",
	Short: "Summarize a patch's shape: files, additions, deletions, hunks, complexity bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readPatchFile(args[0])
		if err != nil {
			return err
		}
		return printJSON(patch.ComputeStats(text))
	},
}

var patchSplitCmd = &cobra.Command{
	Use:   "split <patch-file>",
	Short: "Break a multi-file patch into one sub-patch per file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readPatchFile(args[0])
		if err != nil {
			return err
		}
		return printJSON(patch.SplitByFile(text))
	},
}

var patchCombineCmd = &cobra.Command{
	Use:   "combine <patch-file>...",
	Short: "Concatenate multiple patches into one, separated by blank lines",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		texts := make([]string, 0, len(args))
		for _, path := range args {
			text, err := readPatchFile(path)
			if err != nil {
				return err
			}
			texts = append(texts, text)
		}
		fmt.Println(strings.TrimRight(patch.Combine(texts), "\n"))
		return nil
	},
}
