package core

import (
	"context"
	"errors"
)

// stubLLM returns a canned reply or error for every model call.
type stubLLM struct {
	reply string
	err   error
}

func (s stubLLM) Generate(ctx context.Context, prompt string, model string, options map[string]interface{}) (string, error) {
	return s.reply, s.err
}

func (s stubLLM) GenerateWithTokens(ctx context.Context, prompt string, model string, options map[string]interface{}) (string, int64, int64, error) {
	return s.reply, 10, 20, s.err
}

func (s stubLLM) CalculateCost(inputTokens, outputTokens int64, model string) float64 { return 0 }

// stubSearch is a SearchProvider with fixed output.
type stubSearch struct {
	text string
	err  error
}

func (s stubSearch) Name() string { return "stub" }

func (s stubSearch) Search(ctx context.Context, query string) (string, error) {
	return s.text, s.err
}

func failingSearchFacade() *SearchFacade {
	return NewSearchFacade([]SearchProvider{stubSearch{err: errors.New("provider down")}}, nil, nil)
}

func fixedSearchFacade(text string) *SearchFacade {
	return NewSearchFacade([]SearchProvider{stubSearch{text: text}}, nil, nil)
}

// stubForecast is a ForecastProvider with fixed output.
type stubForecast struct {
	point  GeoPoint
	data   ForecastData
	geoErr error
	fcErr  error
}

func (s stubForecast) Geocode(ctx context.Context, place string) (GeoPoint, error) {
	return s.point, s.geoErr
}

func (s stubForecast) Forecast(ctx context.Context, point GeoPoint, days int) (ForecastData, error) {
	return s.data, s.fcErr
}
