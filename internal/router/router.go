package router

import (
	"github.com/sologit/sologit/internal/complexity"
)

// Router holds the compiled tier catalog (config overrides merged with
// defaults).
type Router struct {
	tiers map[Tier]TierEntry
}

// New compiles cfg (which may be nil) against the built-in defaults.
func New(cfg *Config) *Router {
	r := &Router{tiers: make(map[Tier]TierEntry, 3)}
	var fast, coding, planning *TierEntry
	if cfg != nil {
		fast, coding, planning = cfg.Fast, cfg.Coding, cfg.Planning
	}
	r.tiers[TierFast] = mergeWithDefault(TierFast, fast)
	r.tiers[TierCoding] = mergeWithDefault(TierCoding, coding)
	r.tiers[TierPlanning] = mergeWithDefault(TierPlanning, planning)
	return r
}

// SelectTier applies the tier-selection policy: security or architecture
// sensitivity and very large patches force PLANNING regardless of score;
// otherwise the score buckets into PLANNING/CODING/FAST.
func SelectTier(m complexity.Metrics) Tier {
	switch {
	case m.SecuritySensitive:
		return TierPlanning
	case m.RequiresArchitecture:
		return TierPlanning
	case m.EstimatedPatchSize > 200:
		return TierPlanning
	case m.Score >= 0.7:
		return TierPlanning
	case m.Score >= 0.3:
		return TierCoding
	default:
		return TierFast
	}
}

// SelectModel picks a tier via SelectTier, then a model within that
// tier: the primary by default, or the cheaper of primary/fallback when
// remainingBudget is tight and a fallback exists.
func (r *Router) SelectModel(m complexity.Metrics, remainingBudget float64) (Tier, ModelConfig) {
	tier := SelectTier(m)
	return tier, r.modelForTier(tier, remainingBudget)
}

// ModelForTier picks a model within an already-chosen tier, applying the
// same cost-pressure fallback rule as SelectModel.
func (r *Router) ModelForTier(tier Tier, remainingBudget float64) ModelConfig {
	return r.modelForTier(tier, remainingBudget)
}

func (r *Router) modelForTier(tier Tier, remainingBudget float64) ModelConfig {
	entry, ok := r.tiers[tier]
	if !ok {
		entry = r.tiers[TierFast]
	}
	if remainingBudget < 1.0 && entry.Fallback != nil {
		if entry.Fallback.CostPer1kTokens < entry.Primary.CostPer1kTokens {
			return *entry.Fallback
		}
	}
	return entry.Primary
}

// ResolveByName looks up a model by exact name across all tiers, for the
// orchestrator's forceModel path.
func (r *Router) ResolveByName(name string) (Tier, ModelConfig, bool) {
	for _, tier := range []Tier{TierFast, TierCoding, TierPlanning} {
		entry := r.tiers[tier]
		if entry.Primary.Name == name {
			return tier, entry.Primary, true
		}
		if entry.Fallback != nil && entry.Fallback.Name == name {
			return tier, *entry.Fallback, true
		}
	}
	return "", ModelConfig{}, false
}

// Escalate returns the model one tier up from current, or false when
// current is already PLANNING (the top of the FAST->CODING->PLANNING
// chain).
func (r *Router) Escalate(current Tier, remainingBudget float64) (Tier, ModelConfig, bool) {
	var next Tier
	switch current {
	case TierFast:
		next = TierCoding
	case TierCoding:
		next = TierPlanning
	default:
		return "", ModelConfig{}, false
	}
	return next, r.modelForTier(next, remainingBudget), true
}
