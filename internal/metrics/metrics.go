// Package metrics exports Prometheus collectors for the handful of
// engine events worth observing continuously: AI call volume by tier,
// USD spent today, budget alerts fired, and patches applied/rejected.
// No component in the core depends on metrics being scraped; these are
// pure side-effect recorders that a caller may expose via Handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	aiCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sologit",
		Name:      "ai_calls_total",
		Help:      "AI orchestrator calls by tier and outcome.",
	}, []string{"tier", "outcome"})

	spendTodayUSD = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sologit",
		Name:      "spend_today_usd",
		Help:      "Current day's cumulative AI spend in USD.",
	})

	budgetAlertsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sologit",
		Name:      "budget_alerts_total",
		Help:      "Budget alerts fired, by level.",
	}, []string{"level"})

	patchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sologit",
		Name:      "patches_total",
		Help:      "Patch apply attempts, by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(aiCallsTotal, spendTodayUSD, budgetAlertsTotal, patchesTotal)
}

// RecordAICall increments the AI call counter for a tier/outcome pair.
func RecordAICall(tier, outcome string) {
	aiCallsTotal.WithLabelValues(tier, outcome).Inc()
}

// SetSpendToday sets the current day's cumulative spend gauge.
func SetSpendToday(usd float64) {
	spendTodayUSD.Set(usd)
}

// RecordBudgetAlert increments the alert counter for a level.
func RecordBudgetAlert(level string) {
	budgetAlertsTotal.WithLabelValues(level).Inc()
}

// RecordPatchOutcome increments the patch counter for an outcome
// ("applied", "rejected", "skipped_ignored").
func RecordPatchOutcome(outcome string) {
	patchesTotal.WithLabelValues(outcome).Inc()
}

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
