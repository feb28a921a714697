package core

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestHotelsStageParsesModelReply(t *testing.T) {
	reply := `Sure, here are the options:
[{"name":"Hotel Mundial","price_per_night":140,"rating":4.2,"amenities":["WiFi","Pool"],"location":"Baixa"},
{"name":"Lisbon Lounge Hostel","price_per_night":"45","rating":4.6,"amenities":"WiFi","location":"Chiado"}]`
	state := NewPlanningState(costsRequest())
	stage := NewHotelsStage(fixedSearchFacade("some listings"), stubLLM{reply: reply}, "stub", testCosts(), nil)

	if err := stage.Run(context.Background(), state); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(state.Hotels) != 2 {
		t.Fatalf("expected 2 hotels, got %d", len(state.Hotels))
	}
	if state.Hotels[1].PricePerNight != 45 {
		t.Fatalf("expected string price coerced to 45, got %.2f", state.Hotels[1].PricePerNight)
	}
	if len(state.Hotels[1].Amenities) != 1 || state.Hotels[1].Amenities[0] != "WiFi" {
		t.Fatalf("expected scalar amenity coerced to list, got %v", state.Hotels[1].Amenities)
	}
}

func TestHotelsStageFallbackPricing(t *testing.T) {
	state := NewPlanningState(costsRequest())
	stage := NewHotelsStage(failingSearchFacade(), stubLLM{err: errors.New("model down")}, "stub", testCosts(), nil)

	if err := stage.Run(context.Background(), state); err == nil {
		t.Fatalf("expected fallback error")
	}
	if len(state.Hotels) != 1 {
		t.Fatalf("expected single fallback hotel, got %d", len(state.Hotels))
	}
	// half of the 1200 budget spread over 3 nights
	if math.Abs(state.Hotels[0].PricePerNight-200) > 1e-9 {
		t.Fatalf("expected fallback nightly price 200, got %.2f", state.Hotels[0].PricePerNight)
	}
}

func TestHotelsStageRejectsNegativePrice(t *testing.T) {
	reply := `[{"name":"Bad Hotel","price_per_night":-10}]`
	state := NewPlanningState(costsRequest())
	stage := NewHotelsStage(fixedSearchFacade("listings"), stubLLM{reply: reply}, "stub", testCosts(), nil)

	if err := stage.Run(context.Background(), state); err == nil {
		t.Fatalf("expected validation failure")
	}
	if len(state.Hotels) != 1 || state.Hotels[0].Name != "Budget Hotel" {
		t.Fatalf("expected fallback hotel after validation failure, got %+v", state.Hotels)
	}
}

func TestAttractionsStageParsesAndBounds(t *testing.T) {
	reply := `[
{"name":"Belém Tower","description":"Riverside fort","rating":4.7,"price":12,"category":"Sightseeing","location":"Belém"},
{"name":"Time Out Market","description":"Food hall","rating":4.5,"price":0,"category":"food hall","location":"Cais do Sodré"},
{"name":"","description":"missing name is skipped"},
{"name":"Oceanarium","description":"Aquarium","rating":4.8,"price":"25","category":"attraction","location":"Parque das Nações"}]`
	state := NewPlanningState(costsRequest())
	stage := NewAttractionsStage(fixedSearchFacade("results"), stubLLM{reply: reply}, "stub", nil)

	if err := stage.Run(context.Background(), state); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(state.Attractions) != 3 {
		t.Fatalf("expected 3 attractions, got %d", len(state.Attractions))
	}
	if state.Attractions[0].Category != "attraction" {
		t.Fatalf("expected category normalized to attraction, got %q", state.Attractions[0].Category)
	}
	if state.Attractions[1].Category != "restaurant" {
		t.Fatalf("expected food hall normalized to restaurant, got %q", state.Attractions[1].Category)
	}
	if state.Attractions[2].Price != 25 {
		t.Fatalf("expected string price coerced to 25, got %.2f", state.Attractions[2].Price)
	}
}

func TestAttractionsStageFallback(t *testing.T) {
	state := NewPlanningState(costsRequest())
	stage := NewAttractionsStage(failingSearchFacade(), stubLLM{reply: "no structure here"}, "stub", nil)

	if err := stage.Run(context.Background(), state); err == nil {
		t.Fatalf("expected fallback error")
	}
	if len(state.Attractions) != 1 || state.Attractions[0].Name != "Local Exploration" {
		t.Fatalf("expected local exploration fallback, got %+v", state.Attractions)
	}
	if state.Attractions[0].Price != 0 {
		t.Fatalf("expected free fallback attraction, got %.2f", state.Attractions[0].Price)
	}
}
