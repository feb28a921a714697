package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the trip planner
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	Costs     CostsConfig     `mapstructure:"costs"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Server    ServerConfig    `mapstructure:"server"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug           bool          `mapstructure:"debug"`
	LogLevel        string        `mapstructure:"log_level"`
	StageTimeout    time.Duration `mapstructure:"stage_timeout"`
	PipelineTimeout time.Duration `mapstructure:"pipeline_timeout"`
}

// LLMConfig contains LLM provider configurations
type LLMConfig struct {
	Providers map[string]LLMProvider `mapstructure:"providers"`
	Routing   LLMRoutingConfig       `mapstructure:"routing"`
}

// LLMProvider represents a single LLM provider configuration
type LLMProvider struct {
	Type       string              `mapstructure:"type"` // openai, anthropic, local, etc.
	APIKey     string              `mapstructure:"api_key"`
	BaseURL    string              `mapstructure:"base_url"`
	Models     map[string]LLMModel `mapstructure:"models"`
	MaxRetries int                 `mapstructure:"max_retries"`
	Timeout    time.Duration       `mapstructure:"timeout"`
}

// LLMModel represents a specific model configuration
type LLMModel struct {
	Name            string   `mapstructure:"name"`
	APIName         string   `mapstructure:"api_name"`
	MaxTokens       int      `mapstructure:"max_tokens"`
	Temperature     float64  `mapstructure:"temperature"`
	CostPer1K       float64  `mapstructure:"cost_per_1k_input"`
	CostPer1KOutput float64  `mapstructure:"cost_per_1k_output"`
	Capabilities    []string `mapstructure:"capabilities"` // extraction, itinerary, summary, etc.
}

// LLMRoutingConfig defines which model to use for different stages
type LLMRoutingConfig struct {
	Extraction string `mapstructure:"extraction"` // Structuring provider text into JSON
	Itinerary  string `mapstructure:"itinerary"`  // Day-by-day itinerary generation
	Summary    string `mapstructure:"summary"`    // Final narrative summary
	Fallback   string `mapstructure:"fallback"`   // Fallback model
}

// SearchConfig contains web search provider settings
type SearchConfig struct {
	TavilyAPIKey string        `mapstructure:"tavily_api_key"`
	BraveAPIKey  string        `mapstructure:"brave_api_key"`
	SerperAPIKey string        `mapstructure:"serper_api_key"`
	MaxResults   int           `mapstructure:"max_results"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// WeatherConfig contains geocoding and forecast endpoint settings
type WeatherConfig struct {
	GeocodeEndpoint  string        `mapstructure:"geocode_endpoint"`
	ForecastEndpoint string        `mapstructure:"forecast_endpoint"`
	ForecastDays     int           `mapstructure:"forecast_days"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// CostsConfig contains the deterministic cost-model constants.
// Amounts are in the pricing currency (USD).
type CostsConfig struct {
	DefaultHotelNightly  float64 `mapstructure:"default_hotel_nightly"`  // used when no hotel carries a price
	FoodDailyPerPerson   float64 `mapstructure:"food_daily_per_person"`  // food cost per traveler per day
	TransportPerTraveler float64 `mapstructure:"transport_per_traveler"` // fixed per-traveler transport cost
	PaidActivityFraction float64 `mapstructure:"paid_activity_fraction"` // assumed share of paid activities
	MiscellaneousBuffer  float64 `mapstructure:"miscellaneous_buffer"`   // buffer fraction on accom+food+activities
	HotelFallbackBudget  float64 `mapstructure:"hotel_fallback_budget"`  // fraction of total budget assumed for lodging
	PricingCurrency      string  `mapstructure:"pricing_currency"`       // currency all providers quote in
}

// CacheConfig contains provider-response cache settings
type CacheConfig struct {
	Backend string        `mapstructure:"backend"` // memory or redis
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	CostTracking bool `mapstructure:"cost_tracking"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("voyago")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("VOYAGO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Read config file (optional - will use defaults if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Override with environment variables for sensitive data
	overrideFromEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// General defaults
	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.stage_timeout", "45s")
	viper.SetDefault("general.pipeline_timeout", "5m")

	// LLM defaults
	viper.SetDefault("llm.routing.extraction", "gpt-4o-mini")
	viper.SetDefault("llm.routing.itinerary", "gpt-4o")
	viper.SetDefault("llm.routing.summary", "gpt-4o")
	viper.SetDefault("llm.routing.fallback", "gpt-4o-mini")

	// Search defaults
	viper.SetDefault("search.max_results", 3)
	viper.SetDefault("search.timeout", "15s")

	// Weather defaults
	viper.SetDefault("weather.geocode_endpoint", "https://nominatim.openstreetmap.org/search")
	viper.SetDefault("weather.forecast_endpoint", "https://api.open-meteo.com/v1/forecast")
	viper.SetDefault("weather.forecast_days", 7)
	viper.SetDefault("weather.timeout", "10s")

	// Cost model defaults (USD); transportation is a fixed per-traveler cost
	viper.SetDefault("costs.default_hotel_nightly", 100.0)
	viper.SetDefault("costs.food_daily_per_person", 50.0)
	viper.SetDefault("costs.transport_per_traveler", 200.0)
	viper.SetDefault("costs.paid_activity_fraction", 0.7)
	viper.SetDefault("costs.miscellaneous_buffer", 0.1)
	viper.SetDefault("costs.hotel_fallback_budget", 0.5)
	viper.SetDefault("costs.pricing_currency", "USD")

	// Cache defaults
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.ttl", "15m")
	viper.SetDefault("cache.redis.host", "localhost")
	viper.SetDefault("cache.redis.port", 6379)
	viper.SetDefault("cache.redis.db", 0)
	viper.SetDefault("cache.redis.timeout", "5s")

	// Telemetry defaults
	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.cost_tracking", true)

	// Server defaults
	viper.SetDefault("server.listen", ":10010")
}

// overrideFromEnv overrides configuration with environment variables
func overrideFromEnv() {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		viper.Set("llm.providers.openai.api_key", apiKey)
	}
	if apiKey := os.Getenv("TAVILY_API_KEY"); apiKey != "" {
		viper.Set("search.tavily_api_key", apiKey)
	}
	if apiKey := os.Getenv("BRAVE_SEARCH_KEY"); apiKey != "" {
		viper.Set("search.brave_api_key", apiKey)
	}
	if apiKey := os.Getenv("SERPER_API_KEY"); apiKey != "" {
		viper.Set("search.serper_api_key", apiKey)
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		viper.Set("cache.redis.host", host)
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		viper.Set("cache.redis.password", password)
	}
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Weather.ForecastDays <= 0 {
		return fmt.Errorf("weather.forecast_days must be positive")
	}
	if f := config.Costs.PaidActivityFraction; f < 0 || f > 1 {
		return fmt.Errorf("costs.paid_activity_fraction must be in [0,1]")
	}
	if f := config.Costs.HotelFallbackBudget; f <= 0 || f > 1 {
		return fmt.Errorf("costs.hotel_fallback_budget must be in (0,1]")
	}
	switch config.Cache.Backend {
	case "", "memory", "redis":
	default:
		return fmt.Errorf("unsupported cache backend: %s", config.Cache.Backend)
	}

	// Validate that routing models exist in providers when any are configured
	if len(config.LLM.Providers) == 0 {
		return nil
	}
	routingModels := []string{
		config.LLM.Routing.Extraction,
		config.LLM.Routing.Itinerary,
		config.LLM.Routing.Summary,
		config.LLM.Routing.Fallback,
	}
	for _, model := range routingModels {
		if model == "" {
			continue
		}
		found := false
		for _, provider := range config.LLM.Providers {
			if _, ok := provider.Models[model]; ok {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("routing model '%s' not found in any provider", model)
		}
	}
	return nil
}
