package repositories

import (
	"context"
	"time"

	"foodhub-api/models"
)

// Store contracts consumed by the pricing and forecasting services. Services
// hold these instead of touching the database directly so tests can inject
// in-memory doubles.

type PricingRuleRepository interface {
	// GetActive returns active rules sorted by priority, highest first.
	GetActive(ctx context.Context) ([]models.PricingRule, error)
	GetAll(ctx context.Context) ([]models.PricingRule, error)
	Create(ctx context.Context, rule *models.PricingRule) error
	// Update overwrites the rule with the given ID. Returns the updated rule,
	// or nil when no such rule exists.
	Update(ctx context.Context, id string, rule *models.PricingRule) (*models.PricingRule, error)
	Count(ctx context.Context) (int, error)
}

type UserRepository interface {
	// GetByID returns (nil, nil) when the user does not exist; pricing treats
	// that as an anonymous caller, not an error.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// ApplyOrder increments orderCount/totalSpent, clears isNewUser and
	// returns the updated snapshot.
	ApplyOrder(ctx context.Context, userID string, amount float64) (*models.User, error)
	UpdateTier(ctx context.Context, userID, tier string) error
}

type FoodRepository interface {
	// GetByID returns (nil, nil) when the item does not exist.
	GetByID(ctx context.Context, id string) (*models.Food, error)
	GetAll(ctx context.Context) ([]models.Food, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	// CountSince counts orders created at or after the given time.
	CountSince(ctx context.Context, since time.Time) (int, error)
	// GetRecentWithFood returns up to limit orders containing the food item,
	// most recent first, with their line items populated.
	GetRecentWithFood(ctx context.Context, foodID string, limit int) ([]models.Order, error)
}

type DemandStateRepository interface {
	// Get returns (nil, nil) when no state record exists yet.
	Get(ctx context.Context) (*models.DemandLevelState, error)
	// Upsert overwrites the singleton state record in place.
	Upsert(ctx context.Context, state *models.DemandLevelState) error
}

type WeatherRepository interface {
	// GetLive returns the unexpired entry for the lower-cased city, or
	// (nil, nil) when none exists.
	GetLive(ctx context.Context, city string) (*models.WeatherCacheEntry, error)
	Upsert(ctx context.Context, entry *models.WeatherCacheEntry) error
}

type ForecastRepository interface {
	// GetByFood returns stored points for the item sorted by forecastHour,
	// capped at hours.
	GetByFood(ctx context.Context, foodID string, hours int) ([]models.ForecastPoint, error)
	GetAll(ctx context.Context) ([]models.ForecastPoint, error)
	// ReplaceForFood discards the item's previous point set and stores the
	// new one in its place.
	ReplaceForFood(ctx context.Context, foodID string, points []models.ForecastPoint) error
}
