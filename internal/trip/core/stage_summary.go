package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mohammad-safakhou/voyago/internal/trip/telemetry"
)

// Summary context bounds.
const (
	summaryTopAttractions = 5
	summaryTopHotels      = 3
)

// SummaryStage assembles a markdown narrative from the whole state.
// The fallback template always carries the numeric expense breakdown so
// callers receive usable numbers even when prose generation fails.
type SummaryStage struct {
	caller modelCaller
	logger *log.Logger
}

func NewSummaryStage(llm LLMProvider, model string, tele *telemetry.Telemetry) *SummaryStage {
	return &SummaryStage{
		caller: modelCaller{llm: llm, model: model, tele: tele},
		logger: log.New(log.Writer(), "[SUMMARY] ", log.LstdFlags),
	}
}

func (s *SummaryStage) Name() string { return "Summary" }

func (s *SummaryStage) Run(ctx context.Context, state *PlanningState) error {
	req := state.Request

	attractions := state.Attractions
	if len(attractions) > summaryTopAttractions {
		attractions = attractions[:summaryTopAttractions]
	}
	hotels := state.Hotels
	if len(hotels) > summaryTopHotels {
		hotels = hotels[:summaryTopHotels]
	}

	weatherJSON, _ := json.Marshal(state.Weather)
	attractionsJSON, _ := json.Marshal(attractions)
	hotelsJSON, _ := json.Marshal(hotels)
	expensesJSON, _ := json.Marshal(state.Expenses)
	itineraryJSON, _ := json.Marshal(state.Itinerary)

	prompt := fmt.Sprintf(`You are a professional travel consultant creating a comprehensive trip summary.

Destination: %s
Dates: %s to %s
Travelers: %d
Budget: %.2f %s

Weather: %s
Top Attractions: %s
Recommended Hotels: %s
Expense Breakdown: %s
Itinerary: %s

Write a well-structured markdown document covering the trip overview,
weather recommendations, top attractions, accommodation, the expense
breakdown, the day-by-day itinerary, travel tips and the total cost.`,
		req.Destination, req.StartDate, req.EndDate, req.Travelers, req.Budget, req.Currency,
		weatherJSON, attractionsJSON, hotelsJSON, expensesJSON, itineraryJSON)

	reply, err := s.caller.generate(ctx, prompt, 0.4, 2000)
	if err != nil || strings.TrimSpace(reply) == "" {
		state.Summary = fallbackSummary(req, state.Expenses)
		if err == nil {
			err = fmt.Errorf("model returned empty summary")
		}
		return fmt.Errorf("summary generation failed: %w", err)
	}
	state.Summary = reply
	return nil
}

func fallbackSummary(req TripRequest, expenses ExpenseBreakdown) string {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf(`# Travel Plan Summary

**Destination:** %s
**Dates:** %s to %s
**Travelers:** %d
**Total Budget:** %.2f %s

## Expense Breakdown
- Accommodation: %.2f %s
- Food: %.2f %s
- Transportation: %.2f %s
- Activities: %.2f %s
- Miscellaneous: %.2f %s

## Daily Budget
%.2f %s per day
`,
		req.Destination, req.StartDate, req.EndDate, req.Travelers, expenses.Total, currency,
		expenses.Accommodation, currency,
		expenses.Food, currency,
		expenses.Transportation, currency,
		expenses.Activities, currency,
		expenses.Miscellaneous, currency,
		expenses.DailyBudget, currency)
}
