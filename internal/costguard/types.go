// Package costguard enforces the daily AI spend cap: it tracks token
// usage per calendar date, persists a ledger and a current-day status
// snapshot, and fires at-most-once-per-day threshold/exceeded alerts.
// All USD arithmetic uses shopspring/decimal rather than float64 so
// repeated small additions across a day's calls cannot drift.
package costguard

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskType classifies which orchestrator operation spent the tokens.
type TaskType string

const (
	TaskPlanning  TaskType = "planning"
	TaskCoding    TaskType = "coding"
	TaskReview    TaskType = "review"
	TaskDiagnosis TaskType = "diagnosis"
)

// AlertLevel is the severity of a budget alert.
type AlertLevel string

const (
	AlertThresholdLevel AlertLevel = "threshold"
	AlertExceededLevel  AlertLevel = "exceeded"
)

// TokenUsage is a single AI call's accounting record.
type TokenUsage struct {
	Timestamp        time.Time       `json:"timestamp"`
	Model            string          `json:"model"`
	PromptTokens     int             `json:"prompt_tokens"`
	CompletionTokens int             `json:"completion_tokens"`
	TotalTokens      int             `json:"total_tokens"`
	CostUSD          decimal.Decimal `json:"cost_usd"`
	TaskType         TaskType        `json:"task_type"`
}

// DailyUsage aggregates every call recorded on one calendar date.
type DailyUsage struct {
	Date         string                     `json:"date"` // YYYY-MM-DD
	TotalCostUSD decimal.Decimal            `json:"total_cost_usd"`
	TotalTokens  int                        `json:"total_tokens"`
	CallCount    int                        `json:"call_count"`
	CostByModel  map[string]decimal.Decimal `json:"cost_by_model"`
	CostByTask   map[TaskType]decimal.Decimal `json:"cost_by_task"`
}

func newDailyUsage(date string) *DailyUsage {
	return &DailyUsage{
		Date:        date,
		CostByModel: make(map[string]decimal.Decimal),
		CostByTask:  make(map[TaskType]decimal.Decimal),
	}
}

// Alert is one threshold/exceeded event fired on a given date.
type Alert struct {
	Level         AlertLevel      `json:"level"`
	Timestamp     time.Time       `json:"timestamp"`
	Message       string          `json:"message"`
	ProjectedCost decimal.Decimal `json:"projected_cost"`
}

// BudgetStatus is the current-day snapshot persisted separately from the
// ledger.
type BudgetStatus struct {
	Date             string          `json:"date"`
	CurrentCost      decimal.Decimal `json:"current_cost"`
	ProjectedCost    decimal.Decimal `json:"projected_cost"`
	Alerts           []Alert         `json:"alerts"`
	ThresholdCrossed bool            `json:"threshold_crossed"`
	LastUpdated      time.Time       `json:"last_updated"`
	LastUsage        *TokenUsage     `json:"last_usage,omitempty"`
}

// Config configures the daily cap and alert threshold.
type Config struct {
	DailyCapUSD    decimal.Decimal `yaml:"daily_cap_usd" json:"daily_cap_usd" validate:"required"`
	AlertThreshold float64         `yaml:"alert_threshold" json:"alert_threshold" validate:"min=0,max=1"`
	TrackByModel   bool            `yaml:"track_by_model" json:"track_by_model"`
}

// DefaultConfig returns the spec's default cap (10 USD) and threshold
// (0.8).
func DefaultConfig() Config {
	return Config{
		DailyCapUSD:    decimal.NewFromInt(10),
		AlertThreshold: 0.8,
		TrackByModel:   true,
	}
}

// StatusSnapshot is the full reader-facing view returned by Status.
type StatusSnapshot struct {
	Date             string          `json:"date"`
	CurrentCost      decimal.Decimal `json:"current_cost"`
	DailyCapUSD      decimal.Decimal `json:"daily_cap_usd"`
	PercentUsed      float64         `json:"percent_used"`
	WithinBudget     bool            `json:"within_budget"`
	Remaining        decimal.Decimal `json:"remaining"`
	CostByModel      map[string]decimal.Decimal   `json:"cost_by_model"`
	CostByTask       map[TaskType]decimal.Decimal `json:"cost_by_task"`
	Alerts           []Alert         `json:"alerts"`
	ThresholdCrossed bool            `json:"threshold_crossed"`
	LastUsage        *TokenUsage     `json:"last_usage,omitempty"`
}
