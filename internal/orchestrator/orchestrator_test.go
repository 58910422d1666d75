package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sologit/sologit/internal/aichannel"
	"github.com/sologit/sologit/internal/costguard"
	"github.com/sologit/sologit/internal/router"
)

func newTestOrchestrator(t *testing.T, channel aichannel.AIChannel) *Orchestrator {
	t.Helper()
	r := router.New(nil)
	g, err := costguard.New(t.TempDir(), costguard.Config{DailyCapUSD: decimal.NewFromInt(100), AlertThreshold: 0.8})
	if err != nil {
		t.Fatalf("costguard.New() error = %v", err)
	}
	return New(channel, r, g, Config{})
}

func TestPlanChannelErrorReturnsFallback(t *testing.T) {
	channel := aichannel.NewFakeChannel()
	channel.Err = errors.New("channel unavailable")
	o := newTestOrchestrator(t, channel)

	plan, err := o.Plan(context.Background(), "add a login form", "", "")
	if err != nil {
		t.Fatalf("Plan() error = %v, want nil (channel errors convert to a fallback)", err)
	}
	if plan.Title != "Basic Implementation" {
		t.Errorf("Plan() = %+v, want the fallback plan", plan)
	}
	if plan.EstimatedComplexity != ComplexityUnknown {
		t.Errorf("fallback plan EstimatedComplexity = %v, want %v", plan.EstimatedComplexity, ComplexityUnknown)
	}
}

func TestPlanParseErrorSurfacesWhenEscalationUnavailable(t *testing.T) {
	// Force the top tier (PLANNING) via forceModel so there is nowhere left
	// to escalate to, and script an unparseable response.
	channel := aichannel.NewFakeChannel(aichannel.Result{Content: "not json at all"})
	o := newTestOrchestrator(t, channel)

	_, err := o.Plan(context.Background(), "refactor the architecture", "", "o1-preview")
	if err == nil {
		t.Fatalf("Plan() error = nil, want the parse error to be surfaced")
	}
}

func TestPlanParseErrorEscalatesThenSucceeds(t *testing.T) {
	channel := aichannel.NewFakeChannel(
		aichannel.Result{Content: "not json at all"},
		aichannel.Result{Content: `{"title":"Add login form","description":"d","estimated_complexity":"medium"}`},
	)
	o := newTestOrchestrator(t, channel)

	plan, err := o.Plan(context.Background(), "tweak a label", "", "")
	if err != nil {
		t.Fatalf("Plan() error = %v, want nil after a successful escalation", err)
	}
	if plan.Title != "Add login form" {
		t.Errorf("Plan() = %+v, want the escalated response's plan", plan)
	}
	if channel.CallCount() != 2 {
		t.Errorf("CallCount() = %d, want 2 (original attempt + one escalation)", channel.CallCount())
	}
}

func TestGeneratePatchChannelErrorReturnsFallback(t *testing.T) {
	channel := aichannel.NewFakeChannel()
	channel.Err = errors.New("channel unavailable")
	o := newTestOrchestrator(t, channel)

	plan := PlanResponse{Title: "Add login form", EstimatedComplexity: ComplexityMedium}
	patch, err := o.GeneratePatch(context.Background(), plan, nil, "")
	if err != nil {
		t.Fatalf("GeneratePatch() error = %v, want nil (channel errors convert to a zero-cost fallback)", err)
	}
	if patch.Confidence != 0.0 || patch.Diff != "" {
		t.Errorf("GeneratePatch() = %+v, want an empty zero-confidence fallback patch", patch)
	}
	if channel.CallCount() != 1 {
		t.Errorf("CallCount() = %d, want 1 (no escalation attempt on a channel error)", channel.CallCount())
	}
}

func TestReviewPatchMissingTestsIsSuggestionOnly(t *testing.T) {
	o := newTestOrchestrator(t, aichannel.NewFakeChannel())

	patch := GeneratedPatch{
		Diff:      "--- a/main.go\n+++ b/main.go\n@@ -1 +1 @@\n-old\n+new\n",
		Additions: 1,
	}
	review := o.ReviewPatch(patch, "")
	if !review.Approved {
		t.Errorf("a small patch without tests must still be approved, got %+v", review)
	}
	if len(review.Issues) != 0 {
		t.Errorf("Issues = %v, want empty (missing tests is not an issue)", review.Issues)
	}
	if len(review.Suggestions) != 1 {
		t.Errorf("Suggestions = %v, want the missing-tests suggestion", review.Suggestions)
	}
}

func TestReviewPatchLargePatchBlocksApproval(t *testing.T) {
	o := newTestOrchestrator(t, aichannel.NewFakeChannel())

	patch := GeneratedPatch{
		Diff:      "--- a/parser.go\n+++ b/parser.go\n--- a/parser_test.go\n+++ b/parser_test.go\n",
		Additions: 250,
	}
	review := o.ReviewPatch(patch, "")
	if review.Approved {
		t.Errorf("a >200-addition patch must not be approved, got %+v", review)
	}
	if len(review.Issues) != 1 {
		t.Errorf("Issues = %v, want exactly the large-patch issue", review.Issues)
	}
	if len(review.Suggestions) != 0 {
		t.Errorf("Suggestions = %v, want empty when a test file is touched", review.Suggestions)
	}
}

func TestGeneratePatchSuccess(t *testing.T) {
	diff := "```diff\n--- a/main.go\n+++ b/main.go\n@@ -1 +1 @@\n-old\n+new\n```"
	channel := aichannel.NewFakeChannel(aichannel.Result{Content: diff})
	o := newTestOrchestrator(t, channel)

	plan := PlanResponse{Title: "Add login form", EstimatedComplexity: ComplexityMedium}
	patch, err := o.GeneratePatch(context.Background(), plan, nil, "")
	if err != nil {
		t.Fatalf("GeneratePatch() error = %v", err)
	}
	if patch.FilesChanged != 1 {
		t.Errorf("patch.FilesChanged = %d, want 1", patch.FilesChanged)
	}
	if patch.Confidence <= 0 {
		t.Errorf("patch.Confidence = %v, want > 0 for a non-empty diff", patch.Confidence)
	}
}
