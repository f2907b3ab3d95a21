package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/google/uuid"

	"foodhub-api/models"
	"foodhub-api/observability"
	"foodhub-api/repositories"
)

// ============================================================================
// PRICING SERVICE
// Resolves one discount decision per (item, user, city) from overlapping
// sources: loyalty, new-user status, weather and demand level. Candidates
// carry fixed priority classes; the single highest-priority one wins,
// discounts never stack.
// ============================================================================

// Final price never drops below 10% of the original, regardless of any rule.
const priceFloorFraction = 0.10

const defaultNewUserDiscount = 10

type discountCandidate struct {
	Type     string
	Discount float64
	Priority int
	RuleName string
}

type PricingService struct {
	Rules   repositories.PricingRuleRepository
	Users   repositories.UserRepository
	Loyalty *LoyaltyService
	Weather *WeatherService
	Demand  *DemandService
	Metrics *observability.Metrics
}

func NewPricingService(rules repositories.PricingRuleRepository, users repositories.UserRepository,
	loyalty *LoyaltyService, weather *WeatherService, demand *DemandService, metrics *observability.Metrics) *PricingService {
	return &PricingService{
		Rules:   rules,
		Users:   users,
		Loyalty: loyalty,
		Weather: weather,
		Demand:  demand,
		Metrics: metrics,
	}
}

// ResolvePrice computes the dynamic price for one food item, user and city.
// Pure read of current state; the only side effects are logging, metrics and
// warming the weather cache.
func (s *PricingService) ResolvePrice(ctx context.Context, food *models.Food, userID, city string) models.PriceQuote {
	base := models.PriceQuote{
		OriginalPrice: food.Price,
		FinalPrice:    round2(food.Price),
	}

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Failed to load user %s for pricing: %v", userID, err)
	}
	if user == nil {
		// Anonymous or unknown caller: original price, no discount.
		s.Metrics.ObservePricingResolution("none")
		return base
	}

	rules, err := s.Rules.GetActive(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to load pricing rules: %v", err)
		rules = nil
	}

	var candidates []discountCandidate

	// Loyalty (priority 4). Eligibility is re-derived from live numbers.
	if d, name := s.loyaltyCandidate(rules, user); d > 0 {
		candidates = append(candidates, discountCandidate{
			Type: "loyalty", Discount: d, Priority: models.PriorityLoyalty, RuleName: name,
		})
	}

	// New user (priority 3).
	if user.IsNewUser {
		if d, name := s.newUserCandidate(rules); d > 0 {
			candidates = append(candidates, discountCandidate{
				Type: "new_user", Discount: d, Priority: models.PriorityNewUser, RuleName: name,
			})
		}
	}

	// Weather (priority 2). Unknown cities classify as normal and never match.
	weather := s.Weather.Current(ctx, city)
	if d, name := s.weatherCandidate(rules, weather.Condition, food.Category); d > 0 {
		candidates = append(candidates, discountCandidate{
			Type: "weather", Discount: d, Priority: models.PriorityWeather, RuleName: name,
		})
	}

	// Demand (priority 1).
	demandLevel := s.Demand.CurrentLevel(ctx)
	if d, name := s.demandCandidate(rules, demandLevel); d > 0 {
		candidates = append(candidates, discountCandidate{
			Type: "demand", Discount: d, Priority: models.PriorityDemand, RuleName: name,
		})
	}

	best := pickBest(candidates)
	if best == nil {
		s.Metrics.ObservePricingResolution("none")
		return base
	}

	finalPrice := math.Max(
		food.Price*(1-best.Discount/100),
		food.Price*priceFloorFraction,
	)

	quote := models.PriceQuote{
		OriginalPrice: food.Price,
		FinalPrice:    round2(finalPrice),
		Discount:      best.Discount,
		AppliedRule:   &best.RuleName,
		DiscountType:  &best.Type,
	}

	s.Metrics.ObservePricingResolution(best.Type)
	log.Printf("🎯 Price for %s: %.2f -> %.2f (%s %.0f%%, user %s %s tier, weather %s, demand %s)",
		food.Name, quote.OriginalPrice, quote.FinalPrice, best.RuleName, best.Discount,
		user.ID, user.LoyaltyTier, weather.Condition, demandLevel)

	return quote
}

// pickBest selects the single highest-priority candidate. Candidates are
// appended in descending priority order, so the first entry wins.
func pickBest(candidates []discountCandidate) *discountCandidate {
	var best *discountCandidate
	for i := range candidates {
		if best == nil || candidates[i].Priority > best.Priority {
			best = &candidates[i]
		}
	}
	return best
}

// loyaltyCandidate prefers an active loyalty rule matching the user's stored
// tier; the classifier table is the fallback when no rule exists.
func (s *PricingService) loyaltyCandidate(rules []models.PricingRule, user *models.User) (float64, string) {
	for _, r := range rules {
		if r.Type != models.RuleTypeLoyalty || r.LoyaltyTier != user.LoyaltyTier {
			continue
		}
		if user.OrderCount >= r.MinOrders || user.TotalSpent >= r.MinSpent {
			return clampDiscount(r.LoyaltyDiscount, r.MaxDiscount), r.Name
		}
		return 0, ""
	}

	d := s.Loyalty.DiscountFor(user.LoyaltyTier, user.OrderCount, user.TotalSpent)
	return d, fmt.Sprintf("Loyalty %s discount", user.LoyaltyTier)
}

func (s *PricingService) newUserCandidate(rules []models.PricingRule) (float64, string) {
	for _, r := range rules {
		if r.Type == models.RuleTypeUser && r.UserType == "new" {
			return clampDiscount(r.NewUserDiscount, r.MaxDiscount), r.Name
		}
	}
	return defaultNewUserDiscount, "New user discount"
}

// weatherCandidate matches active weather rules on condition and category;
// the built-in condition×category table is the fallback.
func (s *PricingService) weatherCandidate(rules []models.PricingRule, condition, category string) (float64, string) {
	matched := false
	for _, r := range rules {
		if r.Type != models.RuleTypeWeather {
			continue
		}
		matched = true
		if r.WeatherCondition == condition && containsCategory(r.ApplicableCategories, category) {
			return clampDiscount(r.WeatherDiscount, r.MaxDiscount), r.Name
		}
	}
	if matched {
		return 0, ""
	}

	d := s.Weather.DiscountFor(condition, category)
	return d, fmt.Sprintf("%s weather discount", condition)
}

func (s *PricingService) demandCandidate(rules []models.PricingRule, level string) (float64, string) {
	matched := false
	for _, r := range rules {
		if r.Type != models.RuleTypeDemand {
			continue
		}
		matched = true
		if r.DemandLevel == level {
			return clampDiscount(r.DemandDiscount, r.MaxDiscount), r.Name
		}
	}
	if matched {
		return 0, ""
	}
	return s.Demand.DiscountFor(level), "Low demand discount"
}

func containsCategory(categories []string, category string) bool {
	for _, c := range categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

func clampDiscount(discount, max float64) float64 {
	if max > 0 && discount > max {
		return max
	}
	return discount
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ============================================================================
// RULE VALIDATION & SEEDING
// ============================================================================

var validRuleTypes = map[string]bool{
	models.RuleTypeDemand:  true,
	models.RuleTypeUser:    true,
	models.RuleTypeLoyalty: true,
	models.RuleTypeWeather: true,
}

// ValidateRule guards the admin write boundary. Reads never validate.
func (s *PricingService) ValidateRule(rule *models.PricingRule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return fmt.Errorf("rule name is required")
	}
	if !validRuleTypes[rule.Type] {
		return fmt.Errorf("invalid rule type %q", rule.Type)
	}
	if rule.Priority < 0 {
		return fmt.Errorf("priority must not be negative")
	}
	for _, d := range []struct {
		name  string
		value float64
	}{
		{"demandDiscount", rule.DemandDiscount},
		{"newUserDiscount", rule.NewUserDiscount},
		{"loyaltyDiscount", rule.LoyaltyDiscount},
		{"weatherDiscount", rule.WeatherDiscount},
		{"maxDiscount", rule.MaxDiscount},
	} {
		if d.value < 0 || d.value > 100 {
			return fmt.Errorf("%s must be between 0 and 100", d.name)
		}
	}
	return nil
}

// SeedDefaultRules creates the default rule set once, on an empty table.
func (s *PricingService) SeedDefaultRules(ctx context.Context) error {
	count, err := s.Rules.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing rules: %w", err)
	}
	if count > 0 {
		return nil
	}

	var defaults []models.PricingRule

	for _, tier := range s.Loyalty.Tiers() {
		defaults = append(defaults, models.PricingRule{
			Name:            fmt.Sprintf("Loyalty %s (%d+ orders or $%.0f+)", capitalize(tier.Name), tier.MinOrders, tier.MinSpent),
			Type:            models.RuleTypeLoyalty,
			Priority:        models.PriorityLoyalty,
			LoyaltyTier:     tier.Name,
			LoyaltyDiscount: tier.Discount,
			MinOrders:       tier.MinOrders,
			MinSpent:        tier.MinSpent,
		})
	}

	defaults = append(defaults,
		models.PricingRule{
			Name:            "New User Discount",
			Type:            models.RuleTypeUser,
			Priority:        models.PriorityNewUser,
			UserType:        "new",
			NewUserDiscount: defaultNewUserDiscount,
		},
		models.PricingRule{
			Name:                 "Cold Weather Soup Discount",
			Type:                 models.RuleTypeWeather,
			Priority:             models.PriorityWeather,
			WeatherCondition:     models.WeatherCold,
			WeatherDiscount:      15,
			ApplicableCategories: []string{models.CategorySoup, models.CategoryHotDrinks},
		},
		models.PricingRule{
			Name:                 "Hot Weather Cold Drinks Discount",
			Type:                 models.RuleTypeWeather,
			Priority:             models.PriorityWeather,
			WeatherCondition:     models.WeatherHot,
			WeatherDiscount:      10,
			ApplicableCategories: []string{models.CategoryColdDrinks, models.CategoryIceCream, models.CategorySalad},
		},
		models.PricingRule{
			Name:           "Low Demand Discount",
			Type:           models.RuleTypeDemand,
			Priority:       models.PriorityDemand,
			DemandLevel:    models.DemandLow,
			DemandDiscount: 15,
		},
	)

	for i := range defaults {
		defaults[i].ID = uuid.NewString()
		defaults[i].IsActive = true
		defaults[i].MaxDiscount = 50
		if err := s.Rules.Create(ctx, &defaults[i]); err != nil {
			return fmt.Errorf("failed to seed rule %q: %w", defaults[i].Name, err)
		}
	}

	log.Printf("🎯 Dynamic pricing initialized with %d default rules", len(defaults))
	return nil
}
