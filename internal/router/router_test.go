package router

import (
	"testing"

	"github.com/sologit/sologit/internal/complexity"
)

func TestSelectTierSecuritySensitiveForcesPlanning(t *testing.T) {
	m := complexity.Metrics{SecuritySensitive: true, Score: 0.1}
	if got := SelectTier(m); got != TierPlanning {
		t.Errorf("SelectTier(security-sensitive, low score) = %v, want %v", got, TierPlanning)
	}
}

func TestSelectTierArchitectureForcesPlanning(t *testing.T) {
	m := complexity.Metrics{RequiresArchitecture: true, Score: 0.05}
	if got := SelectTier(m); got != TierPlanning {
		t.Errorf("SelectTier(architecture, low score) = %v, want %v", got, TierPlanning)
	}
}

func TestSelectTierLargePatchForcesPlanning(t *testing.T) {
	m := complexity.Metrics{EstimatedPatchSize: 250, Score: 0.1}
	if got := SelectTier(m); got != TierPlanning {
		t.Errorf("SelectTier(large patch) = %v, want %v", got, TierPlanning)
	}
}

func TestSelectTierScoreBuckets(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{0.0, TierFast},
		{0.29, TierFast},
		{0.3, TierCoding},
		{0.69, TierCoding},
		{0.7, TierPlanning},
		{1.0, TierPlanning},
	}
	for _, tt := range tests {
		m := complexity.Metrics{Score: tt.score}
		if got := SelectTier(m); got != tt.want {
			t.Errorf("SelectTier(score=%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestNewFillsDefaultsWhenConfigNil(t *testing.T) {
	r := New(nil)
	_, model := r.SelectModel(complexity.Metrics{Score: 0}, 100.0)
	if model.Name != "gpt-4o-mini" {
		t.Errorf("default FAST primary = %q, want gpt-4o-mini", model.Name)
	}
}

func TestNewMergesPartialOverride(t *testing.T) {
	cfg := &Config{
		Fast: &TierEntry{Primary: ModelConfig{Name: "custom-fast-model"}},
	}
	r := New(cfg)
	_, model := r.SelectModel(complexity.Metrics{Score: 0}, 100.0)
	if model.Name != "custom-fast-model" {
		t.Errorf("overridden name not respected: got %q", model.Name)
	}
	if model.MaxTokens != 4096 {
		t.Errorf("unset MaxTokens should inherit default 4096, got %d", model.MaxTokens)
	}
}

func TestModelForTierFallsBackUnderBudgetPressure(t *testing.T) {
	r := New(nil)
	model := r.ModelForTier(TierFast, 0.5)
	if model.Name != "claude-3-haiku" {
		t.Errorf("expected cheaper fallback under budget pressure, got %q", model.Name)
	}
}

func TestModelForTierKeepsPrimaryWithBudget(t *testing.T) {
	r := New(nil)
	model := r.ModelForTier(TierFast, 50.0)
	if model.Name != "gpt-4o-mini" {
		t.Errorf("expected primary model with healthy budget, got %q", model.Name)
	}
}

func TestModelForTierCodingPicksCheaperEntryUnderBudgetPressure(t *testing.T) {
	// The built-in CODING defaults have a fallback pricier than the
	// primary, so the cheapest-wins rule needs an override to exercise.
	cfg := &Config{
		Coding: &TierEntry{
			Primary:  ModelConfig{Name: "pricey-coder", CostPer1kTokens: 0.005},
			Fallback: &ModelConfig{Name: "budget-coder", CostPer1kTokens: 0.001},
		},
	}
	r := New(cfg)

	model := r.ModelForTier(TierCoding, 0.5)
	if model.Name != "budget-coder" {
		t.Errorf("ModelForTier(CODING, 0.5) = %q, want the cheaper entry budget-coder", model.Name)
	}

	model = r.ModelForTier(TierCoding, 50.0)
	if model.Name != "pricey-coder" {
		t.Errorf("ModelForTier(CODING, 50.0) = %q, want the primary with healthy budget", model.Name)
	}
}

func TestResolveByName(t *testing.T) {
	r := New(nil)
	tier, model, ok := r.ResolveByName("claude-3-opus")
	if !ok {
		t.Fatalf("expected to resolve claude-3-opus")
	}
	if tier != TierPlanning {
		t.Errorf("ResolveByName(claude-3-opus) tier = %v, want %v", tier, TierPlanning)
	}
	if model.Provider != "anthropic" {
		t.Errorf("ResolveByName(claude-3-opus) provider = %q, want anthropic", model.Provider)
	}

	if _, _, ok := r.ResolveByName("nonexistent-model"); ok {
		t.Errorf("expected ResolveByName(nonexistent-model) to fail")
	}
}

func TestEscalateChain(t *testing.T) {
	r := New(nil)

	next, _, ok := r.Escalate(TierFast, 100)
	if !ok || next != TierCoding {
		t.Errorf("Escalate(FAST) = (%v, %v), want (CODING, true)", next, ok)
	}

	next, _, ok = r.Escalate(TierCoding, 100)
	if !ok || next != TierPlanning {
		t.Errorf("Escalate(CODING) = (%v, %v), want (PLANNING, true)", next, ok)
	}

	_, _, ok = r.Escalate(TierPlanning, 100)
	if ok {
		t.Errorf("Escalate(PLANNING) should return false: top of chain")
	}
}
