package core

import (
	"context"
	"fmt"
	"log"
)

// rainThresholdMM is the daily precipitation above which rain gear is
// recommended.
const rainThresholdMM = 5.0

// WeatherStage resolves the destination to coordinates and fetches the
// forecast. Packing advice is derived from fixed temperature and
// precipitation thresholds, not delegated to the model.
type WeatherStage struct {
	provider     ForecastProvider
	forecastDays int
	logger       *log.Logger
}

func NewWeatherStage(provider ForecastProvider, forecastDays int) *WeatherStage {
	if forecastDays <= 0 {
		forecastDays = 7
	}
	return &WeatherStage{
		provider:     provider,
		forecastDays: forecastDays,
		logger:       log.New(log.Writer(), "[WEATHER] ", log.LstdFlags),
	}
}

func (s *WeatherStage) Name() string { return "Weather" }

func (s *WeatherStage) Run(ctx context.Context, state *PlanningState) error {
	destination := state.Request.Destination

	point, err := s.provider.Geocode(ctx, destination)
	if err != nil {
		s.logger.Printf("geocode failed for %q: %v", destination, err)
		state.Weather = fallbackWeather()
		return fmt.Errorf("geocode failed: %w", err)
	}

	data, err := s.provider.Forecast(ctx, point, s.forecastDays)
	if err != nil {
		s.logger.Printf("forecast failed for %q: %v", destination, err)
		state.Weather = fallbackWeather()
		return fmt.Errorf("forecast failed: %w", err)
	}

	forecast := make([]ForecastDay, 0, len(data.Daily))
	for _, entry := range data.Daily {
		forecast = append(forecast, ForecastDay{
			Date:          entry.Date,
			Condition:     ConditionText(entry.Code),
			MaxTemp:       entry.MaxTemp,
			MinTemp:       entry.MinTemp,
			Precipitation: entry.Precipitation,
		})
	}

	state.Weather = WeatherInfo{
		CurrentTemp:     fmt.Sprintf("%.1f°C", data.CurrentTemp),
		Condition:       ConditionText(data.CurrentCode),
		Forecast:        forecast,
		Recommendations: weatherRecommendations(data.CurrentTemp, forecast),
	}
	return nil
}

// weatherRecommendations builds packing advice from fixed thresholds.
func weatherRecommendations(currentTemp float64, forecast []ForecastDay) []string {
	var recs []string
	switch {
	case currentTemp < 10:
		recs = append(recs, "Pack warm clothing and layers")
	case currentTemp > 25:
		recs = append(recs, "Pack light, breathable clothing and sun protection")
	default:
		recs = append(recs, "Comfortable weather for outdoor activities")
	}
	for _, day := range forecast {
		if day.Precipitation > rainThresholdMM {
			recs = append(recs, "Pack rain gear and plan indoor activities")
			break
		}
	}
	return recs
}

func fallbackWeather() WeatherInfo {
	return WeatherInfo{
		CurrentTemp:     "N/A",
		Condition:       "Data unavailable",
		Forecast:        []ForecastDay{},
		Recommendations: []string{"Check weather before departure"},
	}
}
