package core

import (
	"context"

	"github.com/mohammad-safakhou/voyago/config"
)

// CostStage aggregates the estimated trip costs. Pure arithmetic over
// earlier state, no external calls; it cannot fail. Transportation is a
// fixed per-traveler cost, held constant regardless of trip length.
type CostStage struct {
	costs config.CostsConfig
}

func NewCostStage(costs config.CostsConfig) *CostStage {
	return &CostStage{costs: costs}
}

func (s *CostStage) Name() string { return "CostCalculator" }

func (s *CostStage) Run(_ context.Context, state *PlanningState) error {
	req := state.Request
	days := req.Days()
	travelers := float64(req.Travelers)

	accommodation := s.averageNightlyPrice(state.Hotels) * float64(days)
	food := s.costs.FoodDailyPerPerson * float64(days) * travelers
	transportation := s.costs.TransportPerTraveler * travelers
	activities := averageActivityPrice(state.Attractions) * float64(days) * s.costs.PaidActivityFraction
	miscellaneous := s.costs.MiscellaneousBuffer * (accommodation + food + activities)
	total := accommodation + food + transportation + activities + miscellaneous

	state.Expenses = ExpenseBreakdown{
		Accommodation:  accommodation,
		Food:           food,
		Transportation: transportation,
		Activities:     activities,
		Miscellaneous:  miscellaneous,
		Total:          total,
		DailyBudget:    total / float64(days),
		Days:           days,
	}
	return nil
}

// averageNightlyPrice averages the first three hotels, falling back to
// the configured default nightly rate when no hotel is available.
func (s *CostStage) averageNightlyPrice(hotels []Hotel) float64 {
	if len(hotels) == 0 {
		if s.costs.DefaultHotelNightly > 0 {
			return s.costs.DefaultHotelNightly
		}
		return 100
	}
	n := len(hotels)
	if n > 3 {
		n = 3
	}
	var sum float64
	for _, h := range hotels[:n] {
		sum += h.PricePerNight
	}
	return sum / float64(n)
}

// averageActivityPrice averages the priced attractions, capped to the
// first ten. Free attractions do not dilute the average.
func averageActivityPrice(attractions []Attraction) float64 {
	var priced []float64
	for _, a := range attractions {
		if a.Price > 0 {
			priced = append(priced, a.Price)
		}
	}
	if len(priced) > 10 {
		priced = priced[:10]
	}
	if len(priced) == 0 {
		return 0
	}
	var sum float64
	for _, p := range priced {
		sum += p
	}
	return sum / float64(len(priced))
}
