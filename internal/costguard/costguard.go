package costguard

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sologit/sologit/internal/metrics"
	"github.com/sologit/sologit/internal/store"
)

// CostGuard owns the usage ledger and the current-day budget status.
type CostGuard struct {
	config Config

	ledgerPath string
	statusPath string

	mu     sync.Mutex
	ledger map[string]*DailyUsage
	status BudgetStatus
}

type ledgerFile struct {
	History     []*DailyUsage `json:"history"`
	LastUpdated time.Time     `json:"last_updated"`
}

// New loads (or lazily initializes) the ledger and status files under
// dataRoot. A corrupt ledger file is treated as empty rather than
// failing startup.
func New(dataRoot string, config Config) (*CostGuard, error) {
	g := &CostGuard{
		config:     config,
		ledgerPath: filepath.Join(dataRoot, "usage.json"),
		statusPath: filepath.Join(dataRoot, "budget_status.json"),
		ledger:     make(map[string]*DailyUsage),
	}

	var lf ledgerFile
	if _, err := store.ReadJSON(g.ledgerPath, &lf); err == nil {
		for _, d := range lf.History {
			g.ledger[d.Date] = d
		}
	}
	// A read error here is deliberately swallowed — a corrupt ledger is
	// treated as empty with no further diagnostic surfaced to the caller.

	var status BudgetStatus
	if ok, err := store.ReadJSON(g.statusPath, &status); err == nil && ok {
		g.status = status
	}

	return g, nil
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// currentDay returns today's ledger entry, creating it lazily, and
// resets the in-memory status if the persisted date has rolled over.
func (g *CostGuard) currentDay() *DailyUsage {
	date := today()
	if g.status.Date != date {
		g.status = BudgetStatus{Date: date}
	}
	d, ok := g.ledger[date]
	if !ok {
		d = newDailyUsage(date)
		g.ledger[date] = d
	}
	return d
}

func (g *CostGuard) persist() error {
	history := make([]*DailyUsage, 0, len(g.ledger))
	for _, d := range g.ledger {
		history = append(history, d)
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Date < history[j].Date })
	if err := store.WriteJSON(g.ledgerPath, ledgerFile{History: history, LastUpdated: time.Now().UTC()}); err != nil {
		return fmt.Errorf("persisting usage ledger: %w", err)
	}
	if err := store.WriteJSON(g.statusPath, g.status); err != nil {
		return fmt.Errorf("persisting budget status: %w", err)
	}
	return nil
}

// CheckBudget projects today's cost plus estimatedCost, persists the
// projection before returning, and fires at-most-once-per-day alerts.
// It returns false (without retrying) once the cap would be exceeded.
func (g *CostGuard) CheckBudget(estimatedCost decimal.Decimal) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	day := g.currentDay()
	projected := day.TotalCostUSD.Add(estimatedCost)
	g.status.ProjectedCost = projected
	g.status.CurrentCost = day.TotalCostUSD
	g.status.LastUpdated = time.Now().UTC()

	within := true
	if projected.GreaterThan(g.config.DailyCapUSD) {
		within = false
		g.recordAlert(AlertExceededLevel, projected, fmt.Sprintf(
			"Projected cost %s USD exceeds the daily cap of %s USD", projected.StringFixed(4), g.config.DailyCapUSD.StringFixed(2)))
	} else {
		thresholdAmount := g.config.DailyCapUSD.Mul(decimal.NewFromFloat(g.config.AlertThreshold))
		if projected.GreaterThanOrEqual(thresholdAmount) && !g.status.ThresholdCrossed {
			g.status.ThresholdCrossed = true
			g.recordAlert(AlertThresholdLevel, projected, fmt.Sprintf(
				"Projected cost %s USD crossed the alert threshold of %s USD", projected.StringFixed(4), thresholdAmount.StringFixed(4)))
		}
	}

	metrics.SetSpendToday(day.TotalCostUSD.InexactFloat64())
	if err := g.persist(); err != nil {
		return within, err
	}
	return within, nil
}

// recordAlert appends an alert unless one of the same level has already
// been recorded today — the alert-ordering guarantee.
func (g *CostGuard) recordAlert(level AlertLevel, projected decimal.Decimal, message string) {
	for _, a := range g.status.Alerts {
		if a.Level == level {
			return
		}
	}
	g.status.Alerts = append(g.status.Alerts, Alert{
		Level:         level,
		Timestamp:     time.Now().UTC(),
		Message:       message,
		ProjectedCost: projected,
	})
	metrics.RecordBudgetAlert(string(level))
}

// RecordUsage records an actual AI call's token usage and cost into
// today's aggregate.
func (g *CostGuard) RecordUsage(model string, promptTokens, completionTokens int, costPer1k decimal.Decimal, taskType TaskType) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	total := promptTokens + completionTokens
	cost := decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(1000)).Mul(costPer1k)

	day := g.currentDay()
	day.TotalCostUSD = day.TotalCostUSD.Add(cost)
	day.TotalTokens += total
	day.CallCount++
	if g.config.TrackByModel {
		day.CostByModel[model] = day.CostByModel[model].Add(cost)
	}
	day.CostByTask[taskType] = day.CostByTask[taskType].Add(cost)

	usage := TokenUsage{
		Timestamp:        time.Now().UTC(),
		Model:            model,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      total,
		CostUSD:          cost,
		TaskType:         taskType,
	}
	g.status.LastUsage = &usage
	g.status.CurrentCost = day.TotalCostUSD
	g.status.LastUpdated = time.Now().UTC()

	metrics.SetSpendToday(day.TotalCostUSD.InexactFloat64())
	return g.persist()
}

// Remaining returns max(0, cap - currentCost) for today.
func (g *CostGuard) Remaining() decimal.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()
	day := g.currentDay()
	remaining := g.config.DailyCapUSD.Sub(day.TotalCostUSD)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// Status returns a full reader-facing snapshot of today's usage.
func (g *CostGuard) Status() StatusSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	day := g.currentDay()

	percent := 0.0
	if !g.config.DailyCapUSD.IsZero() {
		percent, _ = day.TotalCostUSD.Div(g.config.DailyCapUSD).Mul(decimal.NewFromInt(100)).Float64()
	}
	remaining := g.config.DailyCapUSD.Sub(day.TotalCostUSD)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return StatusSnapshot{
		Date:             day.Date,
		CurrentCost:      day.TotalCostUSD,
		DailyCapUSD:      g.config.DailyCapUSD,
		PercentUsed:      percent,
		WithinBudget:     day.TotalCostUSD.LessThanOrEqual(g.config.DailyCapUSD),
		Remaining:        remaining,
		CostByModel:      day.CostByModel,
		CostByTask:       day.CostByTask,
		Alerts:           g.status.Alerts,
		ThresholdCrossed: g.status.ThresholdCrossed,
		LastUsage:        g.status.LastUsage,
	}
}

// History returns the last `days` persisted daily entries in date order,
// oldest first.
func (g *CostGuard) History(days int) []DailyUsage {
	g.mu.Lock()
	defer g.mu.Unlock()

	all := make([]*DailyUsage, 0, len(g.ledger))
	for _, d := range g.ledger {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date < all[j].Date })
	if days > 0 && len(all) > days {
		all = all[len(all)-days:]
	}
	out := make([]DailyUsage, len(all))
	for i, d := range all {
		out[i] = *d
	}
	return out
}
