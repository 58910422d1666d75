package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sologit/sologit/internal/complexity"
	"github.com/sologit/sologit/internal/orchestrator"
)

var (
	aiRepoContext string
	aiForceModel  string
	aiFileCount   int
	aiLinesChged  int
	aiFilesChged  int
)

func init() {
	aiPlanCmd.Flags().StringVar(&aiRepoContext, "repo-context", "", "Extra repository context text appended to the prompt")
	aiPlanCmd.Flags().StringVar(&aiForceModel, "force-model", "", "Force a specific model name instead of routing by complexity")
	aiPlanCmd.Flags().IntVar(&aiFileCount, "file-count", 0, "Hint: number of files the change is expected to touch")
	aiPlanCmd.Flags().IntVar(&aiLinesChged, "lines-changed", 0, "Hint: lines changed in a related diff, if any")
	aiPlanCmd.Flags().IntVar(&aiFilesChged, "files-changed", 0, "Hint: files changed in a related diff, if any")

	aiGenerateCmd.Flags().StringVar(&aiForceModel, "force-model", "", "Force a specific model name instead of routing by plan complexity")

	aiComplexityCmd.Flags().IntVar(&aiFileCount, "file-count", 0, "Hint: number of files the change is expected to touch")
	aiComplexityCmd.Flags().IntVar(&aiLinesChged, "lines-changed", 0, "Hint: lines changed in a related diff, if any")
	aiComplexityCmd.Flags().IntVar(&aiFilesChged, "files-changed", 0, "Hint: files changed in a related diff, if any")

	aiCmd.AddCommand(aiPlanCmd, aiGenerateCmd, aiReviewCmd, aiDiagnoseCmd, aiDeploymentsCmd, aiComplexityCmd)
	rootCmd.AddCommand(aiCmd)
}

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Drive the AI orchestrator's plan -> generate -> review -> diagnose pipeline",
}

var aiComplexityCmd = &cobra.Command{
	Use:   "complexity <prompt>",
	Short: "Score a prompt into complexity metrics without calling any model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := complexity.Analyze(args[0], complexityContext(aiFileCount, aiLinesChged, aiFilesChged))
		return printJSON(m)
	},
}

var aiPlanCmd = &cobra.Command{
	Use:   "plan <prompt>",
	Short: "Analyze complexity, pick a model, and produce a structured implementation plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		plan, err := a.orch.Plan(context.Background(), args[0], aiRepoContext, aiForceModel)
		if err != nil {
			return err
		}
		return printJSON(plan)
	},
}

var aiGenerateCmd = &cobra.Command{
	Use:   "generate <plan-file>",
	Short: "Generate a unified diff implementing a plan produced by `ai plan`",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading plan file: %w", err)
		}
		var plan orchestrator.PlanResponse
		if err := json.Unmarshal(data, &plan); err != nil {
			return fmt.Errorf("parsing plan file: %w", err)
		}
		patchResp, err := a.orch.GeneratePatch(context.Background(), plan, nil, aiForceModel)
		if err != nil {
			return err
		}
		return printJSON(patchResp)
	},
}

var aiReviewCmd = &cobra.Command{
	Use:   "review <patch-file>",
	Short: "Heuristically review a generated patch (size, missing tests)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		text, err := readPatchFile(args[0])
		if err != nil {
			return err
		}
		stats := countDiffForReview(text)
		review := a.orch.ReviewPatch(orchestrator.GeneratedPatch{Diff: text, Additions: stats}, "")
		return printJSON(review)
	},
}

var aiDiagnoseCmd = &cobra.Command{
	Use:   "diagnose <test-output-file> <patch-file>",
	Short: "Produce a short structured diagnosis for a failing test run",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		output, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading test output file: %w", err)
		}
		text, err := readPatchFile(args[1])
		if err != nil {
			return err
		}
		fmt.Print(a.orch.DiagnoseFailure(string(output), orchestrator.GeneratedPatch{Diff: text}, ""))
		return nil
	},
}

var aiDeploymentsCmd = &cobra.Command{
	Use:   "deployments",
	Short: "Show configured deployment credentials by task name (read-only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return printJSON(a.cfg.Orchestrator.Deployments)
	},
}

// countDiffForReview counts "+" lines for the heuristic large-patch
// check without pulling in the full patch.Stats machinery.
func countDiffForReview(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			n++
		}
	}
	return n
}
