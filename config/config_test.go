package config

import (
	"testing"
	"time"
)

func validTestConfig() *Config {
	return &Config{
		General: GeneralConfig{StageTimeout: 45 * time.Second, PipelineTimeout: 5 * time.Minute},
		Weather: WeatherConfig{ForecastDays: 7},
		Costs: CostsConfig{
			DefaultHotelNightly:  100,
			FoodDailyPerPerson:   50,
			TransportPerTraveler: 200,
			PaidActivityFraction: 0.7,
			MiscellaneousBuffer:  0.1,
			HotelFallbackBudget:  0.5,
			PricingCurrency:      "USD",
		},
		Cache: CacheConfig{Backend: "memory"},
	}
}

func TestValidateConfigAccepts(t *testing.T) {
	if err := validateConfig(validTestConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero forecast days", func(c *Config) { c.Weather.ForecastDays = 0 }},
		{"paid fraction above one", func(c *Config) { c.Costs.PaidActivityFraction = 1.5 }},
		{"zero hotel fallback", func(c *Config) { c.Costs.HotelFallbackBudget = 0 }},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
	}
	for _, tc := range cases {
		cfg := validTestConfig()
		tc.mutate(cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidateConfigChecksRouting(t *testing.T) {
	cfg := validTestConfig()
	cfg.LLM = LLMConfig{
		Providers: map[string]LLMProvider{
			"openai": {Type: "openai", Models: map[string]LLMModel{"gpt-4o-mini": {Name: "gpt-4o-mini"}}},
		},
		Routing: LLMRoutingConfig{Extraction: "gpt-4o-mini", Fallback: "gpt-4o-mini"},
	}
	if err := validateConfig(cfg); err != nil {
		t.Fatalf("expected routed models to validate, got %v", err)
	}

	cfg.LLM.Routing.Itinerary = "claude-9"
	if err := validateConfig(cfg); err == nil {
		t.Fatalf("expected error for unconfigured routing model")
	}
}
