package core

import (
	"context"
	"errors"
	"testing"
)

func TestItineraryFallbackSynthesizesEveryDay(t *testing.T) {
	state := NewPlanningState(costsRequest())
	stage := NewItineraryStage(stubLLM{err: errors.New("model down")}, "stub", nil)

	if err := stage.Run(context.Background(), state); err == nil {
		t.Fatalf("expected fallback error")
	}
	if len(state.Itinerary) != 3 {
		t.Fatalf("expected 3 day plans, got %d", len(state.Itinerary))
	}
	for i, plan := range state.Itinerary {
		if plan.Day != i+1 {
			t.Fatalf("day %d: got number %d", i+1, plan.Day)
		}
		if len(plan.Activities) != 3 || len(plan.Meals) != 3 {
			t.Fatalf("day %d: expected 3 activities and 3 meals, got %d/%d",
				plan.Day, len(plan.Activities), len(plan.Meals))
		}
	}
	wantDates := []string{"2025-09-01", "2025-09-02", "2025-09-03"}
	for i, want := range wantDates {
		if state.Itinerary[i].Date != want {
			t.Fatalf("day %d: expected date %s, got %s", i+1, want, state.Itinerary[i].Date)
		}
	}
}

func TestItineraryNormalizationPadsShortReply(t *testing.T) {
	reply := `Here is your plan:
[{"day": 9, "date": "2030-01-01", "activities": [{"time":"Morning","activity":"Tram 28 ride","cost":3}], "meals": [{"meal":"Lunch","suggestion":"Time Out Market","cost":25}], "estimated_cost": 28}]`
	state := NewPlanningState(costsRequest())
	stage := NewItineraryStage(stubLLM{reply: reply}, "stub", nil)

	if err := stage.Run(context.Background(), state); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(state.Itinerary) != 3 {
		t.Fatalf("expected padding to 3 days, got %d", len(state.Itinerary))
	}
	first := state.Itinerary[0]
	if first.Day != 1 || first.Date != "2025-09-01" {
		t.Fatalf("expected model day renumbered to 1 / 2025-09-01, got %d / %s", first.Day, first.Date)
	}
	if len(first.Activities) != 1 || first.Activities[0].Activity != "Tram 28 ride" {
		t.Fatalf("model content lost in normalization: %+v", first.Activities)
	}
	if state.Itinerary[2].Day != 3 {
		t.Fatalf("expected padded day numbered 3, got %d", state.Itinerary[2].Day)
	}
}

func TestItineraryNormalizationTruncatesLongReply(t *testing.T) {
	reply := `[{"day":1,"date":"x","activities":[],"meals":[]},
{"day":2,"date":"x","activities":[],"meals":[]},
{"day":3,"date":"x","activities":[],"meals":[]},
{"day":4,"date":"x","activities":[],"meals":[]},
{"day":5,"date":"x","activities":[],"meals":[]}]`
	state := NewPlanningState(costsRequest())
	stage := NewItineraryStage(stubLLM{reply: reply}, "stub", nil)

	if err := stage.Run(context.Background(), state); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(state.Itinerary) != 3 {
		t.Fatalf("expected truncation to 3 days, got %d", len(state.Itinerary))
	}
	if state.Itinerary[2].Date != "2025-09-03" {
		t.Fatalf("expected date rewritten from start date, got %s", state.Itinerary[2].Date)
	}
}
