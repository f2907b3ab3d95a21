package models

import "time"

// ============================================================================
// PRICING RULES
// ============================================================================

// Rule types
const (
	RuleTypeDemand  = "demand"
	RuleTypeUser    = "user"
	RuleTypeLoyalty = "loyalty"
	RuleTypeWeather = "weather"
)

// Discount priority classes. Higher wins; discounts never stack.
const (
	PriorityLoyalty = 4
	PriorityNewUser = 3
	PriorityWeather = 2
	PriorityDemand  = 1
)

type PricingRule struct {
	ID       string `json:"id"`
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required"`
	IsActive bool   `json:"isActive"`
	Priority int    `json:"priority"`

	// Demand-based pricing
	DemandLevel    string  `json:"demandLevel,omitempty"`
	DemandDiscount float64 `json:"demandDiscount"`

	// User-based pricing
	UserType        string  `json:"userType,omitempty"`
	NewUserDiscount float64 `json:"newUserDiscount"`

	// Loyalty tier discounts
	LoyaltyTier     string  `json:"loyaltyTier,omitempty"`
	LoyaltyDiscount float64 `json:"loyaltyDiscount"`
	MinOrders       int     `json:"minOrders"`
	MinSpent        float64 `json:"minSpent"`

	// Weather-based pricing
	WeatherCondition     string   `json:"weatherCondition,omitempty"`
	WeatherDiscount      float64  `json:"weatherDiscount"`
	ApplicableCategories []string `json:"applicableCategories"`

	// General settings
	MaxDiscount float64 `json:"maxDiscount"`
	MinPrice    float64 `json:"minPrice"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PriceQuote is the result of one price resolution. AppliedRule and
// DiscountType are nil when no discount matched.
type PriceQuote struct {
	OriginalPrice float64 `json:"originalPrice"`
	FinalPrice    float64 `json:"finalPrice"`
	Discount      float64 `json:"discount"`
	AppliedRule   *string `json:"appliedRule"`
	DiscountType  *string `json:"discountType"`
}

// ============================================================================
// DEMAND LEVEL (system-wide singleton)
// ============================================================================

const (
	DemandLow    = "low"
	DemandNormal = "normal"
	DemandHigh   = "high"
)

type DemandLevelState struct {
	Level          string    `json:"level"`
	OrderThreshold int       `json:"orderThreshold"`
	CurrentOrders  int       `json:"currentOrders"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// ============================================================================
// WEATHER
// ============================================================================

const (
	WeatherHot    = "hot"
	WeatherCold   = "cold"
	WeatherNormal = "normal"
)

// WeatherCacheEntry is one live entry per lower-cased city name.
type WeatherCacheEntry struct {
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
	LastUpdated time.Time `json:"lastUpdated"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// WeatherInfo is what pricing consumes; never carries an error state.
type WeatherInfo struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
}
