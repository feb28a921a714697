package core

import (
	"context"
	"math"
	"testing"
)

func TestCurrencyStageNoopForPricingCurrency(t *testing.T) {
	state := NewPlanningState(costsRequest())
	state.Expenses = ExpenseBreakdown{Total: 1000, DailyBudget: 250, Days: 4}

	stage := NewCurrencyStage(failingSearchFacade(), stubLLM{}, "stub", "USD", nil)
	if err := stage.Run(context.Background(), state); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if state.Expenses.Total != 1000 {
		t.Fatalf("expenses must not change for pricing currency, got %.2f", state.Expenses.Total)
	}
	if rate := state.CurrencyRates["USD"]; rate != 1.0 {
		t.Fatalf("expected USD rate 1.0, got %.2f", rate)
	}
}

func TestCurrencyStageConvertsExpenses(t *testing.T) {
	req := costsRequest()
	req.Currency = "EUR"
	state := NewPlanningState(req)
	state.Expenses = ExpenseBreakdown{
		Accommodation: 600, Food: 300, Transportation: 400,
		Activities: 63, Miscellaneous: 96.3, Total: 1459.3, DailyBudget: 486.43, Days: 3,
	}

	stage := NewCurrencyStage(fixedSearchFacade("1 USD = 0.9 EUR"), stubLLM{reply: `{"rate": 0.9}`}, "stub", "USD", nil)
	if err := stage.Run(context.Background(), state); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if math.Abs(state.Expenses.Total-1313.37) > 1e-6 {
		t.Fatalf("expected total scaled by 0.9, got %.4f", state.Expenses.Total)
	}
	if state.Expenses.Days != 3 {
		t.Fatalf("days must not be scaled, got %d", state.Expenses.Days)
	}
	if rate := state.CurrencyRates["EUR"]; rate != 0.9 {
		t.Fatalf("expected EUR rate 0.9, got %.2f", rate)
	}
}

func TestCurrencyStageFallbackKeepsAmounts(t *testing.T) {
	req := costsRequest()
	req.Currency = "EUR"
	state := NewPlanningState(req)
	state.Expenses = ExpenseBreakdown{Total: 1000, DailyBudget: 250, Days: 4}

	stage := NewCurrencyStage(fixedSearchFacade("rates page"), stubLLM{reply: `{"rate": 0}`}, "stub", "USD", nil)
	if err := stage.Run(context.Background(), state); err == nil {
		t.Fatalf("expected diagnostic for unusable rate")
	}
	if state.Expenses.Total != 1000 {
		t.Fatalf("amounts must stay unconverted on fallback, got %.2f", state.Expenses.Total)
	}
	if rate := state.CurrencyRates["EUR"]; rate != 1.0 {
		t.Fatalf("expected fallback rate 1.0, got %.2f", rate)
	}
}
