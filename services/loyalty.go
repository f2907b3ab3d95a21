package services

import (
	"context"
	"fmt"
	"log"

	"foodhub-api/repositories"
)

// ============================================================================
// LOYALTY SERVICE
// Classifies users into discount tiers from cumulative order count/spend.
// ============================================================================

// LoyaltyTier is one row of the tier threshold table.
type LoyaltyTier struct {
	Name      string
	MinOrders int
	MinSpent  float64
	Discount  float64
}

// Canonical tier table, highest first. Either threshold qualifies.
var loyaltyTiers = []LoyaltyTier{
	{Name: "platinum", MinOrders: 50, MinSpent: 1000, Discount: 15},
	{Name: "gold", MinOrders: 20, MinSpent: 500, Discount: 10},
	{Name: "silver", MinOrders: 10, MinSpent: 300, Discount: 7},
	{Name: "bronze", MinOrders: 5, MinSpent: 100, Discount: 5},
}

var tierRanks = map[string]int{
	"bronze":   1,
	"silver":   2,
	"gold":     3,
	"platinum": 4,
}

type LoyaltyService struct {
	Users repositories.UserRepository
}

func NewLoyaltyService(users repositories.UserRepository) *LoyaltyService {
	return &LoyaltyService{Users: users}
}

// TierFor derives the tier a user currently qualifies for. Users below every
// threshold stay bronze; bronze is the floor, not an earned tier here, which
// matches how tiers are stored on the user record.
func (s *LoyaltyService) TierFor(orderCount int, totalSpent float64) string {
	for _, tier := range loyaltyTiers {
		if orderCount >= tier.MinOrders || totalSpent >= tier.MinSpent {
			return tier.Name
		}
	}
	return "bronze"
}

// DiscountFor returns the stored tier's discount only when the live numbers
// still satisfy that tier's thresholds. The stored tier is advisory;
// eligibility is re-derived on every call.
func (s *LoyaltyService) DiscountFor(tier string, orderCount int, totalSpent float64) float64 {
	for _, t := range loyaltyTiers {
		if t.Name != tier {
			continue
		}
		if orderCount >= t.MinOrders || totalSpent >= t.MinSpent {
			return t.Discount
		}
		return 0
	}
	return 0
}

// Tiers exposes the canonical table so default pricing rules can be seeded
// from the same numbers the classifier uses.
func (s *LoyaltyService) Tiers() []LoyaltyTier {
	out := make([]LoyaltyTier, len(loyaltyTiers))
	copy(out, loyaltyTiers)
	return out
}

// ApplyCompletedOrder updates the user's loyalty snapshot after a completed
// order: increments count/spend, clears the new-user flag and promotes the
// stored tier when a higher one is reached. Tiers are never demoted.
func (s *LoyaltyService) ApplyCompletedOrder(ctx context.Context, userID string, amount float64) error {
	user, err := s.Users.ApplyOrder(ctx, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to update user stats: %w", err)
	}
	if user == nil {
		log.Printf("⚠️ Loyalty update skipped, user not found: %s", userID)
		return nil
	}

	newTier := s.TierFor(user.OrderCount, user.TotalSpent)
	if tierRanks[newTier] > tierRanks[user.LoyaltyTier] {
		if err := s.Users.UpdateTier(ctx, userID, newTier); err != nil {
			return err
		}
		log.Printf("🏅 User %s loyalty tier promoted to %s (%d orders, %.2f spent)",
			userID, newTier, user.OrderCount, user.TotalSpent)
	}
	return nil
}
