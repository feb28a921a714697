package core

import (
	"context"
	"time"
)

// DateLayout is the calendar-date wire format used throughout the planner.
const DateLayout = "2006-01-02"

// TripRequest is the immutable input to a planning run.
type TripRequest struct {
	Destination string   `json:"destination"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Budget      float64  `json:"budget"`
	Currency    string   `json:"currency"`
	Travelers   int      `json:"travelers"`
	Preferences []string `json:"preferences"`
}

// Days returns the trip length in whole days, clamped to at least 1.
func (r TripRequest) Days() int {
	start, err1 := time.Parse(DateLayout, r.StartDate)
	end, err2 := time.Parse(DateLayout, r.EndDate)
	if err1 != nil || err2 != nil {
		return 1
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

// WeatherInfo holds current conditions, the forecast and packing advice.
type WeatherInfo struct {
	CurrentTemp     string        `json:"current_temp"`
	Condition       string        `json:"condition"`
	Forecast        []ForecastDay `json:"forecast"`
	Recommendations []string      `json:"recommendations"`
}

// ForecastDay is one day of the weather forecast.
type ForecastDay struct {
	Date          string  `json:"date"`
	Condition     string  `json:"condition"`
	MaxTemp       float64 `json:"max_temp"`
	MinTemp       float64 `json:"min_temp"`
	Precipitation float64 `json:"precipitation"`
}

// Attraction is a point of interest or restaurant at the destination.
type Attraction struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
}

// Hotel is one lodging option.
type Hotel struct {
	Name          string   `json:"name"`
	PricePerNight float64  `json:"price_per_night"`
	Rating        float64  `json:"rating"`
	Amenities     []string `json:"amenities"`
	Location      string   `json:"location"`
}

// ExpenseBreakdown aggregates the estimated trip costs by category.
// Total always reconciles additively with the categories.
type ExpenseBreakdown struct {
	Accommodation  float64 `json:"accommodation"`
	Food           float64 `json:"food"`
	Transportation float64 `json:"transportation"`
	Activities     float64 `json:"activities"`
	Miscellaneous  float64 `json:"miscellaneous"`
	Total          float64 `json:"total"`
	DailyBudget    float64 `json:"daily_budget"`
	Days           int     `json:"days"`
}

// ActivitySlot is one scheduled activity within a day plan.
type ActivitySlot struct {
	Time     string  `json:"time"`
	Activity string  `json:"activity"`
	Cost     float64 `json:"cost"`
}

// MealSlot is one meal recommendation within a day plan.
type MealSlot struct {
	Meal       string  `json:"meal"`
	Suggestion string  `json:"suggestion"`
	Cost       float64 `json:"cost"`
}

// DayPlan is one day of the itinerary. Day numbers are 1-based and
// contiguous; the itinerary always has exactly Days entries.
type DayPlan struct {
	Day           int            `json:"day"`
	Date          string         `json:"date"`
	Activities    []ActivitySlot `json:"activities"`
	Meals         []MealSlot     `json:"meals"`
	EstimatedCost float64        `json:"estimated_cost"`
}

// PipelineStatus tracks how far a planning run has progressed.
type PipelineStatus string

const (
	StatusNotStarted      PipelineStatus = "not_started"
	StatusWeatherDone     PipelineStatus = "weather_done"
	StatusAttractionsDone PipelineStatus = "attractions_done"
	StatusHotelsDone      PipelineStatus = "hotels_done"
	StatusCostsDone       PipelineStatus = "costs_done"
	StatusCurrencyDone    PipelineStatus = "currency_done"
	StatusItineraryDone   PipelineStatus = "itinerary_done"
	StatusCompleted       PipelineStatus = "completed"
)

// PlanningState is the single mutable record threaded through the
// pipeline. Each field is written by exactly one stage; stages may read
// any field written earlier in the sequence.
type PlanningState struct {
	Request       TripRequest        `json:"trip_request"`
	Weather       WeatherInfo        `json:"weather_info"`
	Attractions   []Attraction       `json:"attractions"`
	Hotels        []Hotel            `json:"hotels"`
	Expenses      ExpenseBreakdown   `json:"expenses"`
	CurrencyRates map[string]float64 `json:"currency_rates"`
	Itinerary     []DayPlan          `json:"itinerary"`
	Summary       string             `json:"summary"`
	Status        PipelineStatus     `json:"status"`
	Errors        []string           `json:"errors"`
}

// NewPlanningState builds the initial state for a validated request.
func NewPlanningState(req TripRequest) *PlanningState {
	return &PlanningState{
		Request:       req,
		Attractions:   []Attraction{},
		Hotels:        []Hotel{},
		CurrencyRates: map[string]float64{},
		Itinerary:     []DayPlan{},
		Status:        StatusNotStarted,
		Errors:        []string{},
	}
}

// Stage is one unit of the pipeline. Run mutates the state's owned
// field and returns a non-nil error only when it fell back to default
// data; the pipeline records the cause and always advances.
type Stage interface {
	Name() string
	Run(ctx context.Context, state *PlanningState) error
}

// LLMProvider is the language-model collaborator. Its output is
// untrusted free text that callers feed through ExtractJSON.
type LLMProvider interface {
	Generate(ctx context.Context, prompt string, model string, options map[string]interface{}) (string, error)
	GenerateWithTokens(ctx context.Context, prompt string, model string, options map[string]interface{}) (string, int64, int64, error)
	CalculateCost(inputTokens, outputTokens int64, model string) float64
}

// ModelInfo describes a configured model.
type ModelInfo struct {
	Name            string
	Provider        string
	MaxTokens       int
	CostPer1KInput  float64
	CostPer1KOutput float64
	Capabilities    []string
}

// SearchProvider returns concatenated free-text content for a query.
type SearchProvider interface {
	Name() string
	Search(ctx context.Context, query string) (string, error)
}

// GeoPoint is a geocoded location.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// ForecastData is the raw payload from the weather collaborator.
// Condition codes follow the WMO weather-code table.
type ForecastData struct {
	CurrentTemp float64
	CurrentCode int
	Daily       []ForecastEntry
}

// ForecastEntry is one raw daily forecast record.
type ForecastEntry struct {
	Date          string
	Code          int
	MaxTemp       float64
	MinTemp       float64
	Precipitation float64
}

// ForecastProvider resolves a destination to coordinates and fetches
// its forecast.
type ForecastProvider interface {
	Geocode(ctx context.Context, place string) (GeoPoint, error)
	Forecast(ctx context.Context, point GeoPoint, days int) (ForecastData, error)
}
