package core

import (
	"context"
	"errors"
	"testing"
)

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestWeatherRecommendationThresholds(t *testing.T) {
	cases := []struct {
		name string
		temp float64
		want string
	}{
		{"cold", 5, "Pack warm clothing and layers"},
		{"hot", 30, "Pack light, breathable clothing and sun protection"},
		{"mild", 18, "Comfortable weather for outdoor activities"},
	}
	for _, tc := range cases {
		recs := weatherRecommendations(tc.temp, nil)
		if !containsString(recs, tc.want) {
			t.Fatalf("%s: expected %q in %v", tc.name, tc.want, recs)
		}
	}
}

func TestWeatherRecommendationRainGear(t *testing.T) {
	forecast := []ForecastDay{
		{Date: "2025-09-01", Precipitation: 1.2},
		{Date: "2025-09-02", Precipitation: 7.5},
	}
	recs := weatherRecommendations(18, forecast)
	if !containsString(recs, "Pack rain gear and plan indoor activities") {
		t.Fatalf("expected rain gear advice in %v", recs)
	}

	dry := []ForecastDay{{Date: "2025-09-01", Precipitation: 0.4}}
	recs = weatherRecommendations(18, dry)
	if containsString(recs, "Pack rain gear and plan indoor activities") {
		t.Fatalf("did not expect rain gear advice in %v", recs)
	}
}

func TestWeatherStageSuccess(t *testing.T) {
	provider := stubForecast{
		point: GeoPoint{Lat: 38.72, Lon: -9.14},
		data: ForecastData{
			CurrentTemp: 27.3,
			CurrentCode: 1,
			Daily: []ForecastEntry{
				{Date: "2025-09-01", Code: 0, MaxTemp: 29, MinTemp: 19, Precipitation: 0},
				{Date: "2025-09-02", Code: 61, MaxTemp: 24, MinTemp: 17, Precipitation: 8.2},
			},
		},
	}
	state := NewPlanningState(costsRequest())

	stage := NewWeatherStage(provider, 7)
	if err := stage.Run(context.Background(), state); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if state.Weather.CurrentTemp != "27.3°C" {
		t.Fatalf("current temp: got %q", state.Weather.CurrentTemp)
	}
	if state.Weather.Condition != "Mainly clear" {
		t.Fatalf("condition: got %q", state.Weather.Condition)
	}
	if len(state.Weather.Forecast) != 2 {
		t.Fatalf("expected 2 forecast days, got %d", len(state.Weather.Forecast))
	}
	if state.Weather.Forecast[1].Condition != "Slight rain" {
		t.Fatalf("forecast condition: got %q", state.Weather.Forecast[1].Condition)
	}
	if !containsString(state.Weather.Recommendations, "Pack rain gear and plan indoor activities") {
		t.Fatalf("expected rain gear advice in %v", state.Weather.Recommendations)
	}
}

func TestWeatherStageFallbackOnGeocodeError(t *testing.T) {
	provider := stubForecast{geoErr: errors.New("geocoder down")}
	state := NewPlanningState(costsRequest())

	stage := NewWeatherStage(provider, 7)
	err := stage.Run(context.Background(), state)
	if err == nil {
		t.Fatalf("expected fallback error")
	}
	if state.Weather.CurrentTemp != "N/A" {
		t.Fatalf("expected N/A temp, got %q", state.Weather.CurrentTemp)
	}
	if len(state.Weather.Forecast) != 0 {
		t.Fatalf("expected empty forecast, got %d entries", len(state.Weather.Forecast))
	}
	if len(state.Weather.Recommendations) != 1 || state.Weather.Recommendations[0] != "Check weather before departure" {
		t.Fatalf("expected single generic recommendation, got %v", state.Weather.Recommendations)
	}
}
