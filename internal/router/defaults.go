package router

// defaultSettings holds the built-in per-tier defaults, used whenever a
// Config leaves a tier (or a field within a tier) unset.
var defaultSettings = map[Tier]TierEntry{
	TierFast: {
		Primary:  ModelConfig{Name: "gpt-4o-mini", MaxTokens: 4096, Temperature: 0.2, CostPer1kTokens: 0.00015, Provider: "openai"},
		Fallback: &ModelConfig{Name: "claude-3-haiku", MaxTokens: 4096, Temperature: 0.2, CostPer1kTokens: 0.00025, Provider: "anthropic"},
	},
	TierCoding: {
		Primary:  ModelConfig{Name: "gpt-4o", MaxTokens: 8192, Temperature: 0.2, CostPer1kTokens: 0.0025, Provider: "openai"},
		Fallback: &ModelConfig{Name: "claude-3-5-sonnet", MaxTokens: 8192, Temperature: 0.2, CostPer1kTokens: 0.003, Provider: "anthropic"},
	},
	TierPlanning: {
		Primary:  ModelConfig{Name: "o1-preview", MaxTokens: 16384, Temperature: 0.3, CostPer1kTokens: 0.015, Provider: "openai"},
		Fallback: &ModelConfig{Name: "claude-3-opus", MaxTokens: 16384, Temperature: 0.3, CostPer1kTokens: 0.015, Provider: "anthropic"},
	},
}

func defaultEntry(tier Tier) TierEntry {
	return defaultSettings[tier]
}

// mergeWithDefault fills any zero fields on entry's primary/fallback
// with the tier's compiled-in defaults — "missing fields inherit tier
// defaults".
func mergeWithDefault(tier Tier, entry *TierEntry) TierEntry {
	def := defaultEntry(tier)
	if entry == nil {
		return def
	}
	merged := *entry
	merged.Primary = mergeModel(entry.Primary, def.Primary)
	if entry.Fallback != nil {
		f := mergeModel(*entry.Fallback, *def.Fallback)
		merged.Fallback = &f
	} else {
		merged.Fallback = def.Fallback
	}
	return merged
}

func mergeModel(override, def ModelConfig) ModelConfig {
	if override.Name == "" {
		override.Name = def.Name
	}
	if override.MaxTokens == 0 {
		override.MaxTokens = def.MaxTokens
	}
	if override.Temperature == 0 {
		override.Temperature = def.Temperature
	}
	if override.CostPer1kTokens == 0 {
		override.CostPer1kTokens = def.CostPer1kTokens
	}
	if override.Provider == "" {
		override.Provider = def.Provider
	}
	return override
}
