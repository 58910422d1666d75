// Package config loads the orchestrator-facing YAML configuration: model
// router tiers, cost guard limits, deployment credentials, and the local
// model-runner command. This is distinct from any configuration a
// repository under management might carry of its own.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sologit/sologit/internal/costguard"
	"github.com/sologit/sologit/internal/orchestrator"
	"github.com/sologit/sologit/internal/router"
)

// RunnerConfig configures the local command-line model runner that
// ExecChannel drives.
type RunnerConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	WorkDir string   `yaml:"work_dir,omitempty"`
}

// Config is the full on-disk shape of the orchestrator's own config file.
type Config struct {
	DataRoot     string              `yaml:"data_root,omitempty"`
	Runner       RunnerConfig        `yaml:"runner"`
	Router       router.Config       `yaml:"router,omitempty"`
	CostGuard    costguard.Config    `yaml:"cost_guard,omitempty"`
	Orchestrator orchestrator.Config `yaml:"orchestrator,omitempty"`
}

// Load reads and parses path, filling unset sections with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if cfg.Runner.Command == "" {
		cfg.Runner.Command = "claude"
	}
	if cfg.CostGuard.DailyCapUSD.IsZero() {
		def := costguard.DefaultConfig()
		cfg.CostGuard.DailyCapUSD = def.DailyCapUSD
		if cfg.CostGuard.AlertThreshold == 0 {
			cfg.CostGuard.AlertThreshold = def.AlertThreshold
		}
	}
	return &cfg, nil
}

// Validate reports every configuration error found, rather than failing
// on the first one. Struct-tag constraints on the cost guard and model
// entries are enforced with validator; checks the tags cannot express
// (decimal sign, cross-field deployment coupling) stay explicit.
func Validate(cfg *Config) []error {
	var errs []error
	v := validator.New()

	if cfg.Runner.Command == "" {
		errs = append(errs, fmt.Errorf("runner.command is required"))
	}
	if cfg.CostGuard.DailyCapUSD.IsNegative() {
		errs = append(errs, fmt.Errorf("cost_guard.daily_cap_usd must not be negative"))
	}
	errs = append(errs, structErrors(v, "cost_guard", cfg.CostGuard)...)

	for _, tier := range []struct {
		name  string
		entry *router.TierEntry
	}{
		{"fast", cfg.Router.Fast},
		{"coding", cfg.Router.Coding},
		{"planning", cfg.Router.Planning},
	} {
		if tier.entry == nil {
			continue
		}
		errs = append(errs, structErrors(v, fmt.Sprintf("router.%s.primary", tier.name), tier.entry.Primary)...)
		if tier.entry.Fallback != nil {
			errs = append(errs, structErrors(v, fmt.Sprintf("router.%s.fallback", tier.name), *tier.entry.Fallback)...)
		}
	}

	for task, cred := range cfg.Orchestrator.Deployments {
		if cred.Deployment != "" && cred.DeploymentID == "" {
			errs = append(errs, fmt.Errorf("orchestrator.deployments[%s]: deployment_id is required when deployment is set", task))
		}
	}

	return errs
}

// structErrors runs tag validation over one config section and rewrites
// each field failure with its section-qualified path.
func structErrors(v *validator.Validate, section string, s any) []error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var out []error
	for _, fe := range err.(validator.ValidationErrors) {
		out = append(out, fmt.Errorf("%s.%s fails %q validation", section, fe.Field(), fe.Tag()))
	}
	return out
}
