// Package router implements the Model Router: a tiered catalog of model
// configurations and the policy that picks a tier and model from
// complexity metrics, remaining budget, and an optional forced name.
package router

// Tier is one of the three model tiers.
type Tier string

const (
	TierFast     Tier = "FAST"
	TierCoding   Tier = "CODING"
	TierPlanning Tier = "PLANNING"
)

// ModelConfig describes one concrete model a tier can route to.
type ModelConfig struct {
	Name            string  `yaml:"name" json:"name" validate:"required"`
	MaxTokens       int     `yaml:"max_tokens" json:"max_tokens"`
	Temperature     float64 `yaml:"temperature" json:"temperature"`
	CostPer1kTokens float64 `yaml:"cost_per_1k_tokens" json:"cost_per_1k_tokens"`
	Provider        string  `yaml:"provider" json:"provider"`
}

// TierEntry holds a tier's primary and optional fallback model.
type TierEntry struct {
	Primary  ModelConfig  `yaml:"primary" json:"primary"`
	Fallback *ModelConfig `yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

// Config overrides the built-in tier catalog. Recognized fields per
// tier are {primary, fallback?}; missing fields inherit tier defaults.
type Config struct {
	Fast     *TierEntry `yaml:"fast,omitempty" json:"fast,omitempty"`
	Coding   *TierEntry `yaml:"coding,omitempty" json:"coding,omitempty"`
	Planning *TierEntry `yaml:"planning,omitempty" json:"planning,omitempty"`
}
