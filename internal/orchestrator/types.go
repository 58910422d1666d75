// Package orchestrator drives the plan -> generate -> (optional) review ->
// diagnose pipeline: it picks a model via the router, enforces the daily
// budget via the cost guard, talks to an abstract AIChannel, and escalates
// once on unexpected failures.
package orchestrator

// FileAction is what a planned file change does to a path.
type FileAction string

const (
	ActionCreate FileAction = "create"
	ActionModify FileAction = "modify"
	ActionDelete FileAction = "delete"
)

// Complexity is the plan's own self-reported difficulty, independent of
// the Complexity Analyzer's numeric score — it drives generatePatch's
// tier choice.
type Complexity string

const (
	ComplexityLow     Complexity = "low"
	ComplexityMedium  Complexity = "medium"
	ComplexityHigh    Complexity = "high"
	ComplexityUnknown Complexity = "unknown"
)

// FileChange is one entry in a plan's file-change list.
type FileChange struct {
	Path           string     `json:"path"`
	Action         FileAction `json:"action"`
	Reason         string     `json:"reason"`
	EstimatedLines int        `json:"estimated_lines"`
}

// PlanResponse is the structured output of plan().
type PlanResponse struct {
	Title               string       `json:"title"`
	Description         string       `json:"description"`
	FileChanges         []FileChange `json:"file_changes"`
	TestStrategy        string       `json:"test_strategy"`
	Risks               []string     `json:"risks"`
	Dependencies        []string     `json:"dependencies"`
	EstimatedComplexity Complexity   `json:"estimated_complexity"`

	Model            string  `json:"model"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	CostUSD          float64 `json:"cost_usd"`
}

// GeneratedPatch is the structured output of generatePatch().
type GeneratedPatch struct {
	Diff         string  `json:"diff"`
	FilesChanged int     `json:"files_changed"`
	Additions    int     `json:"additions"`
	Deletions    int     `json:"deletions"`
	Model        string  `json:"model"`
	Confidence   float64 `json:"confidence"`
}

// ReviewResponse is the heuristic-only output of reviewPatch(). Only
// issues gate approval; suggestions are advisory.
type ReviewResponse struct {
	Approved    bool     `json:"approved"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// DeploymentCredential is an org-hosted deployment's routing info, keyed
// by task name ("planning"/"coding") in Config.
type DeploymentCredential struct {
	Deployment      string `yaml:"deployment" json:"deployment"`
	DeploymentID    string `yaml:"deployment_id" json:"deployment_id"`
	DeploymentToken string `yaml:"deployment_token" json:"deployment_token"`
}

// Config configures deployment credential resolution by task name.
type Config struct {
	Deployments map[string]DeploymentCredential `yaml:"deployments" json:"deployments"`
}
