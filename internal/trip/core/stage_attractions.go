package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/mohammad-safakhou/voyago/internal/trip/telemetry"
)

// maxAttractions bounds the structured attraction list.
const maxAttractions = 10

// AttractionsStage searches for attractions, dining and
// preference-matched activities, then asks the model to structure the
// raw text into a bounded list.
type AttractionsStage struct {
	search *SearchFacade
	caller modelCaller
	logger *log.Logger
}

func NewAttractionsStage(search *SearchFacade, llm LLMProvider, model string, tele *telemetry.Telemetry) *AttractionsStage {
	return &AttractionsStage{
		search: search,
		caller: modelCaller{llm: llm, model: model, tele: tele},
		logger: log.New(log.Writer(), "[ATTRACTIONS] ", log.LstdFlags),
	}
}

func (s *AttractionsStage) Name() string { return "Attractions" }

func (s *AttractionsStage) Run(ctx context.Context, state *PlanningState) error {
	destination := state.Request.Destination
	preferences := state.Request.Preferences

	queries := []string{
		fmt.Sprintf("top attractions activities %s tourist places visit", destination),
		fmt.Sprintf("best restaurants %s local food dining", destination),
		fmt.Sprintf("%s activities %s things to do", destination, strings.Join(preferences, " ")),
	}

	// The three searches are independent; issue them concurrently and
	// collect everything before the structuring step.
	results := make([]string, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			text, err := s.search.SearchText(ctx, q)
			if err != nil {
				s.logger.Printf("search failed: %v", err)
				return
			}
			results[i] = text
		}(i, q)
	}
	wg.Wait()

	prompt := fmt.Sprintf(`You are a travel expert structuring information about %s.
Attractions: %s
Restaurants: %s
Activities matching preferences %v: %s

Build a single list of the top %d attractions, restaurants and activities combined.
Return ONLY a strict JSON array of objects with keys:
name (string), description (string), rating (number 0..5), price (number, 0 if free), category ("attraction" or "restaurant"), location (string)`,
		destination, results[0], results[1], preferences, results[2], maxAttractions)

	reply, err := s.caller.generate(ctx, prompt, 0.2, 1400)
	if err != nil {
		state.Attractions = fallbackAttractions(destination)
		return fmt.Errorf("model call failed: %w", err)
	}

	attractions, err := parseAttractions(reply)
	if err != nil {
		state.Attractions = fallbackAttractions(destination)
		return err
	}
	state.Attractions = attractions
	return nil
}

func parseAttractions(reply string) ([]Attraction, error) {
	raw, perr := ExtractJSON(reply, ShapeArray)
	if perr != nil {
		return nil, perr
	}
	var items []map[string]interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("attraction list decode: %w", err)
	}

	var out []Attraction
	for _, item := range items {
		name := asString(item["name"])
		if name == "" {
			continue
		}
		price, _ := asFloat(item["price"])
		if price < 0 {
			return nil, fmt.Errorf("attraction %q has negative price", name)
		}
		rating, _ := asFloat(item["rating"])
		out = append(out, Attraction{
			Name:        name,
			Description: asString(item["description"]),
			Rating:      rating,
			Price:       price,
			Category:    normalizeCategory(asString(item["category"])),
			Location:    asString(item["location"]),
		})
		if len(out) == maxAttractions {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("attraction list empty after validation")
	}
	return out, nil
}

func normalizeCategory(category string) string {
	c := strings.ToLower(category)
	if strings.Contains(c, "restaurant") || strings.Contains(c, "dining") || strings.Contains(c, "food") {
		return "restaurant"
	}
	return "attraction"
}

func fallbackAttractions(destination string) []Attraction {
	return []Attraction{{
		Name:        "Local Exploration",
		Description: "Explore the local area",
		Rating:      4.0,
		Price:       0,
		Category:    "attraction",
		Location:    destination,
	}}
}
