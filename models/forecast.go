package models

import "time"

// ============================================================================
// DEMAND FORECASTING
// ============================================================================

// Demand labels attached to forecast points. Distinct from the system-wide
// demand level: "medium" only exists here.
const (
	ForecastDemandLow    = "low"
	ForecastDemandMedium = "medium"
	ForecastDemandHigh   = "high"
)

// ForecastPoint is one hour's predicted demand for one menu item. A full run
// produces 24 of these per item and replaces the previous set wholesale.
type ForecastPoint struct {
	ID            string    `json:"id"`
	FoodID        string    `json:"foodId"`
	ForecastHour  int       `json:"forecastHour"`
	PointForecast float64   `json:"pointForecast"`
	LowerBound    float64   `json:"lowerBound"`
	UpperBound    float64   `json:"upperBound"`
	Confidence    float64   `json:"confidence"`
	WeatherFactor float64   `json:"weatherFactor"`
	DemandLevel   string    `json:"demandLevel"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

// HistoricalDemandPoint is a derived hourly bucket, recomputed from order
// history on demand. Only hours with history are present.
type HistoricalDemandPoint struct {
	Hour          int `json:"hour"`
	TotalQuantity int `json:"totalQuantity"`
	OrderCount    int `json:"orderCount"`
}

type ForecastSummary struct {
	FoodID      string   `json:"foodId"`
	FoodName    string   `json:"foodName"`
	TotalDemand int      `json:"totalDemand"`
	PeakHour    int      `json:"peakHour"`
	PeakDemand  int      `json:"peakDemand"`
	Confidence  float64  `json:"confidence"`
	Alerts      []string `json:"alerts"`
}

type ForecastAlert struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Count    int    `json:"count"`
}

// ForecastConfig is the static configuration exposed to the admin dashboard.
type ForecastConfig struct {
	TrainingWindow   int            `json:"trainingWindow"`
	ForecastHorizon  int            `json:"forecastHorizon"`
	ConfidenceLevel  float64        `json:"confidenceLevel"`
	WeatherEnabled   bool           `json:"weatherEnabled"`
	DemandThresholds map[string]int `json:"demandThresholds"`
}
