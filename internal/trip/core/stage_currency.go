package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mohammad-safakhou/voyago/internal/trip/telemetry"
)

// CurrencyStage converts the expense breakdown from the pricing
// currency to the requested one. A no-op when they match. On any
// failure the rate defaults to 1 so the caller still receives usable
// numbers in the pricing currency.
type CurrencyStage struct {
	search          *SearchFacade
	caller          modelCaller
	pricingCurrency string
	logger          *log.Logger
}

func NewCurrencyStage(search *SearchFacade, llm LLMProvider, model string, pricingCurrency string, tele *telemetry.Telemetry) *CurrencyStage {
	if pricingCurrency == "" {
		pricingCurrency = "USD"
	}
	return &CurrencyStage{
		search:          search,
		caller:          modelCaller{llm: llm, model: model, tele: tele},
		pricingCurrency: pricingCurrency,
		logger:          log.New(log.Writer(), "[CURRENCY] ", log.LstdFlags),
	}
}

func (s *CurrencyStage) Name() string { return "Currency" }

func (s *CurrencyStage) Run(ctx context.Context, state *PlanningState) error {
	target := strings.ToUpper(state.Request.Currency)
	if target == strings.ToUpper(s.pricingCurrency) {
		state.CurrencyRates = map[string]float64{s.pricingCurrency: 1.0}
		return nil
	}

	rate, err := s.lookupRate(ctx, target)
	if err != nil {
		s.logger.Printf("rate lookup failed for %s: %v", target, err)
		state.CurrencyRates = map[string]float64{target: 1.0}
		return fmt.Errorf("exchange rate unavailable, amounts left in %s: %w", s.pricingCurrency, err)
	}

	state.CurrencyRates = map[string]float64{target: rate}
	state.Expenses = scaleExpenses(state.Expenses, rate)
	return nil
}

func (s *CurrencyStage) lookupRate(ctx context.Context, target string) (float64, error) {
	text, err := s.search.SearchText(ctx,
		fmt.Sprintf("%s to %s exchange rate current", s.pricingCurrency, target))
	if err != nil {
		return 0, err
	}

	prompt := fmt.Sprintf(`Extract the current exchange rate from this data:
%s

Find the rate to convert %s to %s.
Return ONLY a strict JSON object: {"rate": number}`, text, s.pricingCurrency, target)

	reply, err := s.caller.generate(ctx, prompt, 0.1, 200)
	if err != nil {
		return 0, err
	}
	raw, perr := ExtractJSON(reply, ShapeObject)
	if perr != nil {
		return 0, perr
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return 0, fmt.Errorf("rate decode: %w", err)
	}
	rate, ok := asFloat(parsed["rate"])
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("rate missing or non-positive")
	}
	return rate, nil
}

// scaleExpenses rescales every monetary field; the day count is not a
// monetary value and stays untouched.
func scaleExpenses(e ExpenseBreakdown, rate float64) ExpenseBreakdown {
	return ExpenseBreakdown{
		Accommodation:  e.Accommodation * rate,
		Food:           e.Food * rate,
		Transportation: e.Transportation * rate,
		Activities:     e.Activities * rate,
		Miscellaneous:  e.Miscellaneous * rate,
		Total:          e.Total * rate,
		DailyBudget:    e.DailyBudget * rate,
		Days:           e.Days,
	}
}
