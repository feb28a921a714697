package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mohammad-safakhou/voyago/config"
	"github.com/mohammad-safakhou/voyago/internal/trip/telemetry"
)

// FatalInputError reports a malformed trip request. It is the only
// error that prevents the pipeline from starting.
type FatalInputError struct {
	Reason string
}

func (e *FatalInputError) Error() string { return "invalid trip request: " + e.Reason }

// TripPlanner is the facade over the pipeline: it validates requests,
// builds the initial state and runs the stages.
type TripPlanner struct {
	cfg       *config.Config
	pipeline  *Pipeline
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

// NewTripPlanner wires the full planning pipeline from configuration.
func NewTripPlanner(cfg *config.Config, tele *telemetry.Telemetry) (*TripPlanner, error) {
	llm, err := NewLLMProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	cache, err := NewCache(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	search := NewSearchFacade(NewSearchProviders(cfg.Search), cache, tele)
	forecast := NewOpenMeteoClient(cfg.Weather)

	routing := cfg.LLM.Routing
	extractionModel := routing.Extraction
	if extractionModel == "" {
		extractionModel = routing.Fallback
	}
	itineraryModel := routing.Itinerary
	if itineraryModel == "" {
		itineraryModel = routing.Fallback
	}
	summaryModel := routing.Summary
	if summaryModel == "" {
		summaryModel = routing.Fallback
	}

	stages := []Stage{
		NewWeatherStage(forecast, cfg.Weather.ForecastDays),
		NewAttractionsStage(search, llm, extractionModel, tele),
		NewHotelsStage(search, llm, extractionModel, cfg.Costs, tele),
		NewCostStage(cfg.Costs),
		NewCurrencyStage(search, llm, extractionModel, cfg.Costs.PricingCurrency, tele),
		NewItineraryStage(llm, itineraryModel, tele),
		NewSummaryStage(llm, summaryModel, tele),
	}

	return &TripPlanner{
		cfg:       cfg,
		pipeline:  NewPipeline(stages, cfg.General.StageTimeout, tele),
		telemetry: tele,
		logger:    log.New(log.Writer(), "[PLANNER] ", log.LstdFlags),
	}, nil
}

// NewTripPlannerWithPipeline builds a planner around an existing
// pipeline. Used by tests and alternative wiring.
func NewTripPlannerWithPipeline(cfg *config.Config, pipeline *Pipeline, tele *telemetry.Telemetry) *TripPlanner {
	return &TripPlanner{
		cfg:       cfg,
		pipeline:  pipeline,
		telemetry: tele,
		logger:    log.New(log.Writer(), "[PLANNER] ", log.LstdFlags),
	}
}

// Plan validates the request and runs the pipeline to completion. The
// returned state is always complete when the error is nil; a non-empty
// Errors list signals degraded-but-complete output.
func (p *TripPlanner) Plan(ctx context.Context, req TripRequest) (*PlanningState, error) {
	if err := validateTripRequest(req); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	start := time.Now()
	p.logger.Printf("run %s: planning %s, %s to %s, %d travelers",
		runID, req.Destination, req.StartDate, req.EndDate, req.Travelers)

	if timeout := p.cfg.General.PipelineTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	state := NewPlanningState(req)
	runErr := p.pipeline.Run(ctx, state)

	if p.telemetry != nil {
		costs := p.telemetry.GetCostSummary()
		p.telemetry.RecordPlanningEvent(ctx, telemetry.PlanningEvent{
			ID:          runID,
			Destination: req.Destination,
			StartTime:   start,
			EndTime:     time.Now(),
			Duration:    time.Since(start),
			Fallbacks:   len(state.Errors),
			Cost:        costs.TotalCost,
			TokensUsed:  costs.TotalTokens,
		})
	}
	if runErr != nil {
		p.logger.Printf("run %s: deadline expired, returning partial state (%d diagnostics)", runID, len(state.Errors))
		return state, nil
	}
	p.logger.Printf("run %s: completed in %v with %d diagnostics", runID, time.Since(start), len(state.Errors))
	return state, nil
}

func validateTripRequest(req TripRequest) error {
	if strings.TrimSpace(req.Destination) == "" {
		return &FatalInputError{Reason: "destination is required"}
	}
	start, err := time.Parse(DateLayout, req.StartDate)
	if err != nil {
		return &FatalInputError{Reason: "start_date must be YYYY-MM-DD"}
	}
	end, err := time.Parse(DateLayout, req.EndDate)
	if err != nil {
		return &FatalInputError{Reason: "end_date must be YYYY-MM-DD"}
	}
	if !end.After(start) {
		return &FatalInputError{Reason: "end_date must be after start_date"}
	}
	if req.Budget <= 0 {
		return &FatalInputError{Reason: "budget must be positive"}
	}
	if req.Travelers <= 0 {
		return &FatalInputError{Reason: "travelers must be positive"}
	}
	if len(req.Currency) != 3 {
		return &FatalInputError{Reason: "currency must be a 3-letter code"}
	}
	return nil
}
