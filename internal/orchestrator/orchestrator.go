package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/sologit/sologit/internal/aichannel"
	"github.com/sologit/sologit/internal/complexity"
	"github.com/sologit/sologit/internal/costguard"
	"github.com/sologit/sologit/internal/metrics"
	"github.com/sologit/sologit/internal/router"
	"github.com/sologit/sologit/internal/sgerrors"
)

// Orchestrator coordinates the plan -> patch pipeline.
type Orchestrator struct {
	channel aichannel.AIChannel
	router  *router.Router
	budget  *costguard.CostGuard
	config  Config
}

// New builds an Orchestrator over the given channel, router, and budget
// guard.
func New(channel aichannel.AIChannel, r *router.Router, budget *costguard.CostGuard, cfg Config) *Orchestrator {
	return &Orchestrator{channel: channel, router: r, budget: budget, config: cfg}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func (o *Orchestrator) deploymentFor(task string) (string, string, string) {
	cred, ok := o.config.Deployments[task]
	if !ok {
		return "", "", ""
	}
	return cred.Deployment, cred.DeploymentID, cred.DeploymentToken
}

// Plan analyzes the prompt's complexity, picks a model, checks the
// budget, calls the channel, and parses the structured plan it returns.
func (o *Orchestrator) Plan(ctx context.Context, prompt, repoContext, forceModel string) (PlanResponse, error) {
	return o.plan(ctx, prompt, repoContext, forceModel, 0)
}

func (o *Orchestrator) plan(ctx context.Context, prompt, repoContext, forceModel string, depth int) (PlanResponse, error) {
	m := complexity.Analyze(prompt, nil)

	tier, model, err := o.resolveModel(m, forceModel)
	if err != nil {
		return PlanResponse{}, err
	}

	estimatedTokens := wordCount(prompt) * 4
	estimatedCost := decimal.NewFromInt(int64(estimatedTokens)).
		Div(decimal.NewFromInt(1000)).
		Mul(decimal.NewFromFloat(model.CostPer1kTokens)).
		Mul(decimal.NewFromInt(2))

	within, err := o.budget.CheckBudget(estimatedCost)
	if err != nil {
		return PlanResponse{}, err
	}
	if !within {
		return PlanResponse{}, &sgerrors.BudgetExceededError{Remaining: o.budget.Remaining().InexactFloat64()}
	}

	deployment, deploymentID, deploymentToken := o.deploymentFor("planning")
	messages := []aichannel.Message{
		{Role: aichannel.RoleSystem, Content: planSystemPrompt},
		{Role: aichannel.RoleUser, Content: buildPlanPrompt(prompt, repoContext)},
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
		return fallbackPlan(model.Name), nil
	}

	plan, parseErr := parsePlan(result.Content)
	if parseErr != nil {
		if depth < len(escalationChain)-1 {
			nextTier, nextModel, ok := o.router.Escalate(tier, o.budget.Remaining().InexactFloat64())
			if ok {
				escalatedCost := estimatedCost
				if escWithin, _ := o.budget.CheckBudget(escalatedCost); escWithin {
					_ = nextTier
					return o.plan(ctx, prompt, repoContext, nextModel.Name, depth+1)
				}
			}
		}
		metrics.RecordAICall(string(tier), "parse_error")
		return PlanResponse{}, fmt.Errorf("parsing plan response: %w", parseErr)
	}

	promptTokens, completionTokens := result.PromptTokens, result.CompletionTokens
	if promptTokens == 0 && completionTokens == 0 {
		promptTokens, completionTokens = estimatedTokens, estimatedTokens
	}
	costPer1k := model.CostPer1kTokens
	if err := o.budget.RecordUsage(model.Name, promptTokens, completionTokens, decimal.NewFromFloat(costPer1k), costguard.TaskPlanning); err != nil {
		return PlanResponse{}, err
	}

	plan.Model = model.Name
	plan.PromptTokens = promptTokens
	plan.CompletionTokens = completionTokens
	cost := decimal.NewFromInt(int64(promptTokens + completionTokens)).Div(decimal.NewFromInt(1000)).Mul(decimal.NewFromFloat(costPer1k))
	plan.CostUSD, _ = cost.Float64()
	metrics.RecordAICall(string(tier), "ok")
	return plan, nil
}

var escalationChain = []router.Tier{router.TierFast, router.TierCoding, router.TierPlanning}

func (o *Orchestrator) resolveModel(m complexity.Metrics, forceModel string) (router.Tier, router.ModelConfig, error) {
	if forceModel != "" {
		tier, model, ok := o.router.ResolveByName(forceModel)
		if ok {
			return tier, model, nil
		}
	}
	tier, model := o.router.SelectModel(m, o.budget.Remaining().InexactFloat64())
	return tier, model, nil
}

func fallbackPlan(model string) PlanResponse {
	return PlanResponse{
		Title:               "Basic Implementation",
		Description:         "Fallback plan generated after an AI channel error.",
		EstimatedComplexity: ComplexityUnknown,
		Model:               model,
	}
}

const planSystemPrompt = `You are a senior engineer producing a structured implementation plan. ` +
	`Respond with a single JSON object: {"title","description","file_changes":[{"path","action","reason","estimated_lines"}],"test_strategy","risks":[],"dependencies":[],"estimated_complexity"}.`

func buildPlanPrompt(prompt, repoContext string) string {
	if repoContext == "" {
		return prompt
	}
	return fmt.Sprintf("%s\n\nRepository context:\n%s", prompt, repoContext)
}

// parsePlan defensively pulls fields out of the model's JSON response
// with gjson, tolerating extra prose around the object.
func parsePlan(content string) (PlanResponse, error) {
	jsonStart := strings.IndexByte(content, '{')
	jsonEnd := strings.LastIndexByte(content, '}')
	if jsonStart < 0 || jsonEnd <= jsonStart {
		return PlanResponse{}, fmt.Errorf("no JSON object found in plan response")
	}
	candidate := content[jsonStart : jsonEnd+1]
	if !gjson.Valid(candidate) {
		return PlanResponse{}, fmt.Errorf("invalid JSON in plan response")
	}

	parsed := gjson.Parse(candidate)
	plan := PlanResponse{
		Title:               parsed.Get("title").String(),
		Description:         parsed.Get("description").String(),
		TestStrategy:        parsed.Get("test_strategy").String(),
		EstimatedComplexity: Complexity(parsed.Get("estimated_complexity").String()),
	}
	if plan.Title == "" {
		return PlanResponse{}, fmt.Errorf("plan response missing title")
	}
	if plan.EstimatedComplexity == "" {
		plan.EstimatedComplexity = ComplexityUnknown
	}

	for _, fc := range parsed.Get("file_changes").Array() {
		plan.FileChanges = append(plan.FileChanges, FileChange{
			Path:           fc.Get("path").String(),
			Action:         FileAction(fc.Get("action").String()),
			Reason:         fc.Get("reason").String(),
			EstimatedLines: int(fc.Get("estimated_lines").Int()),
		})
	}
	for _, r := range parsed.Get("risks").Array() {
		plan.Risks = append(plan.Risks, r.String())
	}
	for _, d := range parsed.Get("dependencies").Array() {
		plan.Dependencies = append(plan.Dependencies, d.String())
	}
	return plan, nil
}
