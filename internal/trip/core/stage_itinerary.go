package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mohammad-safakhou/voyago/internal/trip/telemetry"
)

// maxItineraryContext bounds how many attractions feed the itinerary
// prompt.
const maxItineraryContext = 15

// ItineraryStage asks the model for a day-by-day plan, then normalizes
// the result so the itinerary always has exactly one entry per trip day
// with contiguous numbering and dates derived from the start date.
type ItineraryStage struct {
	caller modelCaller
	logger *log.Logger
}

func NewItineraryStage(llm LLMProvider, model string, tele *telemetry.Telemetry) *ItineraryStage {
	return &ItineraryStage{
		caller: modelCaller{llm: llm, model: model, tele: tele},
		logger: log.New(log.Writer(), "[ITINERARY] ", log.LstdFlags),
	}
}

func (s *ItineraryStage) Name() string { return "ItineraryBuilder" }

func (s *ItineraryStage) Run(ctx context.Context, state *PlanningState) error {
	req := state.Request
	days := req.Days()

	attractions := state.Attractions
	if len(attractions) > maxItineraryContext {
		attractions = attractions[:maxItineraryContext]
	}
	attractionsJSON, _ := json.Marshal(attractions)
	weatherJSON, _ := json.Marshal(state.Weather)

	prompt := fmt.Sprintf(`You are an expert travel itinerary planner.
Create a detailed %d-day itinerary for %s.

Available attractions: %s
Weather info: %s
Daily budget: $%.2f
Travelers: %d
Preferences: %v

Plan morning, afternoon and evening activities plus meal recommendations per day.
Return ONLY a strict JSON array of objects with keys:
day (number), date (YYYY-MM-DD), activities (array of {time, activity, cost}), meals (array of {meal, suggestion, cost}), estimated_cost (number)`,
		days, req.Destination, attractionsJSON, weatherJSON, state.Expenses.DailyBudget, req.Travelers, req.Preferences)

	reply, err := s.caller.generate(ctx, prompt, 0.3, 2000)
	if err != nil {
		state.Itinerary = fallbackItinerary(req)
		return fmt.Errorf("model call failed: %w", err)
	}

	plans, err := parseItinerary(reply)
	if err != nil {
		state.Itinerary = fallbackItinerary(req)
		return err
	}
	state.Itinerary = normalizeItinerary(plans, req)
	return nil
}

func parseItinerary(reply string) ([]DayPlan, error) {
	raw, perr := ExtractJSON(reply, ShapeArray)
	if perr != nil {
		return nil, perr
	}
	var items []map[string]interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("itinerary decode: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("itinerary empty")
	}

	var plans []DayPlan
	for _, item := range items {
		plan := DayPlan{}
		if cost, ok := asFloat(item["estimated_cost"]); ok {
			plan.EstimatedCost = cost
		}
		if slots, ok := item["activities"].([]interface{}); ok {
			for _, raw := range slots {
				if m, ok := raw.(map[string]interface{}); ok {
					cost, _ := asFloat(m["cost"])
					plan.Activities = append(plan.Activities, ActivitySlot{
						Time:     asString(m["time"]),
						Activity: asString(m["activity"]),
						Cost:     cost,
					})
				}
			}
		}
		if slots, ok := item["meals"].([]interface{}); ok {
			for _, raw := range slots {
				if m, ok := raw.(map[string]interface{}); ok {
					cost, _ := asFloat(m["cost"])
					plan.Meals = append(plan.Meals, MealSlot{
						Meal:       asString(m["meal"]),
						Suggestion: asString(m["suggestion"]),
						Cost:       cost,
					})
				}
			}
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// normalizeItinerary clamps or pads the model output so its length
// equals the trip length, and rewrites day numbers and dates so the
// invariant holds regardless of what the model emitted.
func normalizeItinerary(plans []DayPlan, req TripRequest) []DayPlan {
	days := req.Days()
	if len(plans) > days {
		plans = plans[:days]
	}
	for len(plans) < days {
		plans = append(plans, fallbackDayPlan())
	}
	start, err := time.Parse(DateLayout, req.StartDate)
	for i := range plans {
		plans[i].Day = i + 1
		if err == nil {
			plans[i].Date = start.AddDate(0, 0, i).Format(DateLayout)
		}
	}
	return plans
}

func fallbackItinerary(req TripRequest) []DayPlan {
	return normalizeItinerary(nil, req)
}

func fallbackDayPlan() DayPlan {
	return DayPlan{
		Activities: []ActivitySlot{
			{Time: "Morning", Activity: "Explore local attractions", Cost: 30},
			{Time: "Afternoon", Activity: "Visit museums or landmarks", Cost: 25},
			{Time: "Evening", Activity: "Dinner and local entertainment", Cost: 45},
		},
		Meals: []MealSlot{
			{Meal: "Breakfast", Suggestion: "Local cafe", Cost: 15},
			{Meal: "Lunch", Suggestion: "Street food", Cost: 20},
			{Meal: "Dinner", Suggestion: "Traditional restaurant", Cost: 35},
		},
		EstimatedCost: 170,
	}
}
