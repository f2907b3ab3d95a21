package models

import "time"

// ============================================================================
// USER MODEL (loyalty snapshot)
// ============================================================================

// Loyalty tiers in ascending rank order.
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// User carries the cumulative loyalty snapshot the pricing engine reads.
// Authentication fields live with the auth service, not here.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	City        string    `json:"city,omitempty"`
	OrderCount  int       `json:"orderCount"`
	TotalSpent  float64   `json:"totalSpent"`
	IsNewUser   bool      `json:"isNewUser"`
	LoyaltyTier string    `json:"loyaltyTier"`
	CreatedAt   time.Time `json:"createdAt"`
}
