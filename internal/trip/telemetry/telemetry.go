package telemetry

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/voyago/config"
)

// Telemetry records planning, stage, provider and LLM events and keeps
// a running cost tally. Each instance owns its own prometheus registry
// so tests can build as many as they need.
type Telemetry struct {
	config      config.TelemetryConfig
	logger      *log.Logger
	mu          sync.Mutex
	costTracker *CostTracker

	registry         *prometheus.Registry
	planningRuns     *prometheus.CounterVec
	stageDuration    *prometheus.HistogramVec
	stageFallbacks   *prometheus.CounterVec
	providerRequests *prometheus.CounterVec
	llmTokens        *prometheus.CounterVec
	llmCost          *prometheus.CounterVec
}

// CostTracker tracks LLM spend across a process lifetime.
type CostTracker struct {
	TotalCost   float64
	TotalTokens int64
	ModelCosts  map[string]float64
}

// CostSummary is a snapshot of the cost tracker.
type CostSummary struct {
	TotalCost   float64
	TotalTokens int64
	ModelCosts  map[string]float64
}

// PlanningEvent covers one complete planning run.
type PlanningEvent struct {
	ID          string
	Destination string
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	Fallbacks   int
	Cost        float64
	TokensUsed  int64
}

// StageEvent covers one stage execution.
type StageEvent struct {
	Stage    string
	Duration time.Duration
	FellBack bool
}

// ProviderEvent covers one external provider call.
type ProviderEvent struct {
	Provider string
	Duration time.Duration
	Success  bool
}

// LLMEvent covers one language-model call.
type LLMEvent struct {
	Model        string
	InputTokens  int64
	OutputTokens int64
	Cost         float64
	Duration     time.Duration
	Success      bool
}

// NewTelemetry creates a telemetry instance.
func NewTelemetry(cfg config.TelemetryConfig) *Telemetry {
	registry := prometheus.NewRegistry()
	t := &Telemetry{
		config:      cfg,
		logger:      log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		costTracker: &CostTracker{ModelCosts: make(map[string]float64)},
		registry:    registry,
		planningRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voyago_planning_runs_total",
			Help: "Completed planning runs by outcome.",
		}, []string{"outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voyago_stage_duration_seconds",
			Help:    "Stage execution time.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		stageFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voyago_stage_fallbacks_total",
			Help: "Stages that fell back to default data.",
		}, []string{"stage"}),
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voyago_provider_requests_total",
			Help: "External provider calls by outcome.",
		}, []string{"provider", "outcome"}),
		llmTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voyago_llm_tokens_total",
			Help: "Tokens consumed per model.",
		}, []string{"model"}),
		llmCost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voyago_llm_cost_dollars_total",
			Help: "Estimated LLM spend per model.",
		}, []string{"model"}),
	}
	registry.MustRegister(t.planningRuns, t.stageDuration, t.stageFallbacks,
		t.providerRequests, t.llmTokens, t.llmCost)
	return t
}

// MetricsHandler exposes this instance's metrics for scraping.
func (t *Telemetry) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// RecordPlanningEvent records a complete planning run.
func (t *Telemetry) RecordPlanningEvent(ctx context.Context, event PlanningEvent) {
	if !t.config.Enabled {
		return
	}
	outcome := "full"
	if event.Fallbacks > 0 {
		outcome = "degraded"
	}
	t.planningRuns.WithLabelValues(outcome).Inc()

	t.mu.Lock()
	t.costTracker.TotalCost += event.Cost
	t.costTracker.TotalTokens += event.TokensUsed
	t.mu.Unlock()

	t.logger.Printf("Planning Event: ID=%s, Destination=%s, Duration=%v, Fallbacks=%d, Cost=$%.4f, Tokens=%d",
		event.ID, event.Destination, event.Duration, event.Fallbacks, event.Cost, event.TokensUsed)
}

// RecordStageEvent records one stage execution.
func (t *Telemetry) RecordStageEvent(ctx context.Context, event StageEvent) {
	if !t.config.Enabled {
		return
	}
	t.stageDuration.WithLabelValues(event.Stage).Observe(event.Duration.Seconds())
	if event.FellBack {
		t.stageFallbacks.WithLabelValues(event.Stage).Inc()
	}
	t.logger.Printf("Stage Event: Stage=%s, Duration=%v, FellBack=%t", event.Stage, event.Duration, event.FellBack)
}

// RecordProviderEvent records one external provider call.
func (t *Telemetry) RecordProviderEvent(ctx context.Context, event ProviderEvent) {
	if !t.config.Enabled {
		return
	}
	outcome := "success"
	if !event.Success {
		outcome = "failure"
	}
	t.providerRequests.WithLabelValues(event.Provider, outcome).Inc()
}

// RecordLLMEvent records one model call and its cost.
func (t *Telemetry) RecordLLMEvent(ctx context.Context, event LLMEvent) {
	if !t.config.Enabled {
		return
	}
	tokens := event.InputTokens + event.OutputTokens
	t.llmTokens.WithLabelValues(event.Model).Add(float64(tokens))

	if t.config.CostTracking {
		t.llmCost.WithLabelValues(event.Model).Add(event.Cost)
		t.mu.Lock()
		t.costTracker.ModelCosts[event.Model] += event.Cost
		t.mu.Unlock()
	}
	t.logger.Printf("LLM Event: Model=%s, Tokens=%d, Cost=$%.4f, Duration=%v, Success=%t",
		event.Model, tokens, event.Cost, event.Duration, event.Success)
}

// GetCostSummary returns a snapshot of accumulated costs.
func (t *Telemetry) GetCostSummary() CostSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	summary := CostSummary{
		TotalCost:   t.costTracker.TotalCost,
		TotalTokens: t.costTracker.TotalTokens,
		ModelCosts:  make(map[string]float64, len(t.costTracker.ModelCosts)),
	}
	for k, v := range t.costTracker.ModelCosts {
		summary.ModelCosts[k] = v
	}
	return summary
}

// Shutdown logs a final cost report.
func (t *Telemetry) Shutdown() {
	costs := t.GetCostSummary()
	t.logger.Printf("Final Report: TotalCost=$%.4f, TotalTokens=%d", costs.TotalCost, costs.TotalTokens)
	for model, cost := range costs.ModelCosts {
		t.logger.Printf("  Model %s: $%.4f", model, cost)
	}
}
