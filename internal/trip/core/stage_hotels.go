package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mohammad-safakhou/voyago/config"
	"github.com/mohammad-safakhou/voyago/internal/trip/telemetry"
)

// maxHotels bounds the structured hotel list.
const maxHotels = 10

// HotelsStage searches for lodging scaled to traveler count and the
// per-night budget, then asks the model for a bounded list of options.
type HotelsStage struct {
	search *SearchFacade
	caller modelCaller
	costs  config.CostsConfig
	logger *log.Logger
}

func NewHotelsStage(search *SearchFacade, llm LLMProvider, model string, costs config.CostsConfig, tele *telemetry.Telemetry) *HotelsStage {
	return &HotelsStage{
		search: search,
		caller: modelCaller{llm: llm, model: model, tele: tele},
		costs:  costs,
		logger: log.New(log.Writer(), "[HOTELS] ", log.LstdFlags),
	}
}

func (s *HotelsStage) Name() string { return "Hotels" }

func (s *HotelsStage) Run(ctx context.Context, state *PlanningState) error {
	req := state.Request
	days := req.Days()
	perNight := req.Budget / float64(days)

	hotelsText, err1 := s.search.SearchText(ctx,
		fmt.Sprintf("hotels %s accommodation booking prices per night %d guests", req.Destination, req.Travelers))
	budgetText, err2 := s.search.SearchText(ctx,
		fmt.Sprintf("budget hotels %s cheap accommodation under %.0f per night", req.Destination, perNight))
	if err1 != nil {
		s.logger.Printf("hotel search failed: %v", err1)
	}
	if err2 != nil {
		s.logger.Printf("budget search failed: %v", err2)
	}

	prompt := fmt.Sprintf(`You are a hotel booking expert structuring options for %s.
Hotels data: %s
Budget options: %s

Total budget: $%.0f for %d travelers over %d nights.
Provide up to %d hotel options across price ranges.
Return ONLY a strict JSON array of objects with keys:
name (string), price_per_night (number), rating (number 0..5), amenities (array of strings), location (string)`,
		req.Destination, hotelsText, budgetText, req.Budget, req.Travelers, days, maxHotels)

	reply, err := s.caller.generate(ctx, prompt, 0.2, 1200)
	if err != nil {
		state.Hotels = s.fallbackHotels(req)
		return fmt.Errorf("model call failed: %w", err)
	}

	hotels, err := parseHotels(reply)
	if err != nil {
		state.Hotels = s.fallbackHotels(req)
		return err
	}
	state.Hotels = hotels
	return nil
}

func parseHotels(reply string) ([]Hotel, error) {
	raw, perr := ExtractJSON(reply, ShapeArray)
	if perr != nil {
		return nil, perr
	}
	var items []map[string]interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("hotel list decode: %w", err)
	}

	var out []Hotel
	for _, item := range items {
		name := asString(item["name"])
		if name == "" {
			continue
		}
		price, ok := asFloat(item["price_per_night"])
		if !ok || price < 0 {
			return nil, fmt.Errorf("hotel %q has invalid nightly price", name)
		}
		rating, _ := asFloat(item["rating"])
		out = append(out, Hotel{
			Name:          name,
			PricePerNight: price,
			Rating:        rating,
			Amenities:     asStringSlice(item["amenities"]),
			Location:      asString(item["location"]),
		})
		if len(out) == maxHotels {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("hotel list empty after validation")
	}
	return out, nil
}

// fallbackHotels prices a single placeholder hotel at a configured
// fraction of the total budget spread over the trip nights.
func (s *HotelsStage) fallbackHotels(req TripRequest) []Hotel {
	fraction := s.costs.HotelFallbackBudget
	if fraction <= 0 {
		fraction = 0.5
	}
	return []Hotel{{
		Name:          "Budget Hotel",
		PricePerNight: fraction * req.Budget / float64(req.Days()),
		Rating:        3.5,
		Amenities:     []string{"WiFi", "Breakfast"},
		Location:      req.Destination,
	}}
}
