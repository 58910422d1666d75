package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sologit/sologit/internal/aichannel"
	"github.com/sologit/sologit/internal/costguard"
	"github.com/sologit/sologit/internal/metrics"
	"github.com/sologit/sologit/internal/router"
	"github.com/sologit/sologit/internal/sgerrors"
)

func tierForComplexity(c Complexity) router.Tier {
	switch c {
	case ComplexityLow:
		return router.TierFast
	case ComplexityHigh:
		return router.TierPlanning
	default:
		return router.TierCoding
	}
}

// GeneratePatch turns an approved plan into a unified diff, picking a
// tier from the plan's own estimated complexity rather than re-running
// the complexity analyzer.
func (o *Orchestrator) GeneratePatch(ctx context.Context, plan PlanResponse, fileContents map[string]string, forceModel string) (GeneratedPatch, error) {
	return o.generatePatch(ctx, plan, fileContents, forceModel, 0)
}

func (o *Orchestrator) generatePatch(ctx context.Context, plan PlanResponse, fileContents map[string]string, forceModel string, depth int) (GeneratedPatch, error) {
	tier := tierForComplexity(plan.EstimatedComplexity)
	var model router.ModelConfig
	if forceModel != "" {
		if resolvedTier, resolvedModel, ok := o.router.ResolveByName(forceModel); ok {
			tier, model = resolvedTier, resolvedModel
		}
	}
	if model.Name == "" {
		model = o.router.ModelForTier(tier, o.budget.Remaining().InexactFloat64())
	}

	promptText := buildGeneratePrompt(plan, fileContents)
	estimatedTokens := wordCount(promptText) * 4
	estimatedCost := decimal.NewFromInt(int64(estimatedTokens)).
		Div(decimal.NewFromInt(1000)).
		Mul(decimal.NewFromFloat(model.CostPer1kTokens)).
		Mul(decimal.NewFromFloat(1.5))

	within, err := o.budget.CheckBudget(estimatedCost)
	if err != nil {
		return GeneratedPatch{}, err
	}
	if !within {
		return GeneratedPatch{}, &sgerrors.BudgetExceededError{Remaining: o.budget.Remaining().InexactFloat64()}
	}

	deployment, deploymentID, deploymentToken := o.deploymentFor("coding")
	messages := []aichannel.Message{
		{Role: aichannel.RoleSystem, Content: generateSystemPrompt},
		{Role: aichannel.RoleUser, Content: promptText},
	}
	result, err := o.channel.Chat(ctx, aichannel.Request{
		Messages:        messages,
		Model:           model.Name,
		MaxTokens:       model.MaxTokens,
		Temperature:     model.Temperature,
		Deployment:      deployment,
		DeploymentID:    deploymentID,
		DeploymentToken: deploymentToken,
	})
	if err != nil {
		metrics.RecordAICall(string(tier), "channel_error")
		return fallbackPatch(model.Name), nil
	}

	diff := extractDiff(result.Content)
	stats := countDiffLines(diff)

	promptTokens, completionTokens := result.PromptTokens, result.CompletionTokens
	if promptTokens == 0 && completionTokens == 0 {
		promptTokens, completionTokens = estimatedTokens, estimatedTokens
	}
	if err := o.budget.RecordUsage(model.Name, promptTokens, completionTokens, decimal.NewFromFloat(model.CostPer1kTokens), costguard.TaskCoding); err != nil {
		return GeneratedPatch{}, err
	}

	metrics.RecordAICall(string(tier), "ok")
	confidence := 0.9
	if diff == "" {
		confidence = 0.0
	}
	return GeneratedPatch{
		Diff:         diff,
		FilesChanged: stats.files,
		Additions:    stats.additions,
		Deletions:    stats.deletions,
		Model:        model.Name,
		Confidence:   confidence,
	}, nil
}

// fallbackPatch is the zero-cost response returned when the AI channel
// itself fails — no escalation is attempted here, mirroring
// fallbackPlan's unconditional behavior on a channel error.
func fallbackPatch(model string) GeneratedPatch {
	return GeneratedPatch{
		Model:      model,
		Confidence: 0.0,
	}
}

func buildGeneratePrompt(plan PlanResponse, fileContents map[string]string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Plan: %s\n%s\n\n", plan.Title, plan.Description))
	for _, fc := range plan.FileChanges {
		sb.WriteString(fmt.Sprintf("- %s %s: %s\n", fc.Action, fc.Path, fc.Reason))
	}
	if len(fileContents) > 0 {
		sb.WriteString("\nCurrent file contents:\n")
		for path, content := range fileContents {
			sb.WriteString(fmt.Sprintf("--- %s ---\n%s\n", path, content))
		}
	}
	sb.WriteString("\nRespond with a single unified diff implementing this plan.")
	return sb.String()
}

const generateSystemPrompt = `You are a senior engineer. Produce a single unified diff that implements the given plan. ` +
	`Wrap it in a fenced code block marked diff if convenient.`

// extractDiff strips surrounding fences: prefers a fenced block marked
// diff, then any fenced block, then the suffix starting at the first
// diff marker line, then the raw content.
func extractDiff(content string) string {
	if d, ok := extractFence(content, "diff"); ok {
		return d
	}
	if d, ok := extractFence(content, ""); ok {
		return d
	}
	for _, marker := range []string{"--- ", "+++ ", "@@ "} {
		if idx := strings.Index(content, marker); idx >= 0 {
			return strings.TrimSpace(content[idx:])
		}
	}
	return strings.TrimSpace(content)
}

func extractFence(content, lang string) (string, bool) {
	opener := "```" + lang
	start := strings.Index(content, opener)
	if start < 0 {
		return "", false
	}
	rest := content[start+len(opener):]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[idx+1:]
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

type diffLineStats struct {
	files     int
	additions int
	deletions int
}

func countDiffLines(diff string) diffLineStats {
	var s diffLineStats
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++ "):
			s.files++
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			s.additions++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			s.deletions++
		}
	}
	return s
}

// ReviewPatch is a heuristic-only review: no channel call in this core.
// A missing test file is a suggestion, not an issue, so it never blocks
// approval on its own.
func (o *Orchestrator) ReviewPatch(patch GeneratedPatch, context string) ReviewResponse {
	var issues, suggestions []string
	if patch.Additions > 200 {
		issues = append(issues, "Large patch — consider breaking into smaller checkpoints")
	}
	hasTest := false
	for _, line := range strings.Split(patch.Diff, "\n") {
		if strings.HasPrefix(line, "+++ ") && strings.Contains(strings.ToLower(line), "test") {
			hasTest = true
			break
		}
	}
	if !hasTest {
		suggestions = append(suggestions, "Consider adding tests for this change")
	}
	return ReviewResponse{Approved: len(issues) == 0, Issues: issues, Suggestions: suggestions}
}

// DiagnoseFailure returns a short structured diagnosis template.
func (o *Orchestrator) DiagnoseFailure(testOutput string, patch GeneratedPatch, context string) string {
	trimmed := testOutput
	if len(trimmed) > 500 {
		trimmed = trimmed[:500]
	}
	return fmt.Sprintf(
		"Diagnosis\n---------\nTest output (truncated):\n%s\n\nSuggested checks:\n"+
			"- Re-run the failing test in isolation\n"+
			"- Confirm the patch applied cleanly to the expected base commit\n"+
			"- Check for missing imports or renamed symbols introduced by the diff\n",
		trimmed,
	)
}
