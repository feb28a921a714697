package core

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mohammad-safakhou/voyago/config"
)

// OpenMeteoClient implements ForecastProvider using the Nominatim
// geocoder and the Open-Meteo forecast API. Neither needs an API key.
type OpenMeteoClient struct {
	cfg  config.WeatherConfig
	http *HTTPClient
}

func NewOpenMeteoClient(cfg config.WeatherConfig) *OpenMeteoClient {
	return &OpenMeteoClient{cfg: cfg, http: NewHTTPClient(cfg.Timeout, 2, 300*time.Millisecond)}
}

// Geocode resolves a destination name to coordinates.
func (c *OpenMeteoClient) Geocode(ctx context.Context, place string) (GeoPoint, error) {
	endpoint := c.cfg.GeocodeEndpoint
	if endpoint == "" {
		endpoint = "https://nominatim.openstreetmap.org/search"
	}
	var resp []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	u := fmt.Sprintf("%s?q=%s&format=json&limit=1", endpoint, url.QueryEscape(place))
	headers := map[string]string{"User-Agent": "voyago/1.0"}
	if err := c.http.DoJSON(ctx, "GET", u, headers, nil, &resp); err != nil {
		return GeoPoint{}, fmt.Errorf("geocode %q: %w", place, err)
	}
	if len(resp) == 0 {
		return GeoPoint{}, fmt.Errorf("geocode %q: no results", place)
	}
	lat, err1 := strconv.ParseFloat(resp[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(resp[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return GeoPoint{}, fmt.Errorf("geocode %q: bad coordinates", place)
	}
	return GeoPoint{Lat: lat, Lon: lon}, nil
}

// Forecast fetches current conditions and a daily forecast.
func (c *OpenMeteoClient) Forecast(ctx context.Context, point GeoPoint, days int) (ForecastData, error) {
	endpoint := c.cfg.ForecastEndpoint
	if endpoint == "" {
		endpoint = "https://api.open-meteo.com/v1/forecast"
	}
	if days <= 0 {
		days = 7
	}
	var resp struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			WeatherCode int     `json:"weather_code"`
		} `json:"current"`
		Daily struct {
			Time          []string  `json:"time"`
			WeatherCode   []int     `json:"weather_code"`
			TempMax       []float64 `json:"temperature_2m_max"`
			TempMin       []float64 `json:"temperature_2m_min"`
			Precipitation []float64 `json:"precipitation_sum"`
		} `json:"daily"`
	}
	u := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&current=temperature_2m,weather_code&daily=weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum&timezone=auto&forecast_days=%d",
		endpoint, point.Lat, point.Lon, days)
	if err := c.http.DoJSON(ctx, "GET", u, nil, nil, &resp); err != nil {
		return ForecastData{}, fmt.Errorf("forecast: %w", err)
	}

	data := ForecastData{
		CurrentTemp: resp.Current.Temperature,
		CurrentCode: resp.Current.WeatherCode,
	}
	for i, date := range resp.Daily.Time {
		entry := ForecastEntry{Date: date}
		if i < len(resp.Daily.WeatherCode) {
			entry.Code = resp.Daily.WeatherCode[i]
		}
		if i < len(resp.Daily.TempMax) {
			entry.MaxTemp = resp.Daily.TempMax[i]
		}
		if i < len(resp.Daily.TempMin) {
			entry.MinTemp = resp.Daily.TempMin[i]
		}
		if i < len(resp.Daily.Precipitation) {
			entry.Precipitation = resp.Daily.Precipitation[i]
		}
		data.Daily = append(data.Daily, entry)
	}
	return data, nil
}

// wmoConditions maps WMO weather codes to condition text.
var wmoConditions = map[int]string{
	0: "Clear sky", 1: "Mainly clear", 2: "Partly cloudy", 3: "Overcast",
	45: "Fog", 48: "Depositing rime fog", 51: "Light drizzle", 53: "Moderate drizzle",
	55: "Dense drizzle", 56: "Light freezing drizzle", 57: "Dense freezing drizzle",
	61: "Slight rain", 63: "Moderate rain", 65: "Heavy rain", 66: "Light freezing rain",
	67: "Heavy freezing rain", 71: "Slight snow", 73: "Moderate snow", 75: "Heavy snow",
	77: "Snow grains", 80: "Slight rain showers", 81: "Moderate rain showers",
	82: "Violent rain showers", 85: "Slight snow showers", 86: "Heavy snow showers",
	95: "Thunderstorm", 96: "Thunderstorm with slight hail", 99: "Thunderstorm with heavy hail",
}

// ConditionText converts a WMO weather code to a description.
func ConditionText(code int) string {
	if text, ok := wmoConditions[code]; ok {
		return text
	}
	return "Unknown"
}
