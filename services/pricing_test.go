package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"foodhub-api/models"
)

type pricingFixture struct {
	users   *fakeUserRepo
	rules   *fakeRuleRepo
	orders  *fakeOrderRepo
	demand  *fakeDemandStateRepo
	weather *fakeWeatherRepo
	svc     *PricingService
}

// newPricingFixture wires a resolver over in-memory stores. The weather
// provider points at a dead endpoint so uncached cities fall back to normal.
func newPricingFixture(users ...*models.User) *pricingFixture {
	f := &pricingFixture{
		users:   newFakeUserRepo(users...),
		rules:   &fakeRuleRepo{},
		orders:  &fakeOrderRepo{},
		demand:  &fakeDemandStateRepo{},
		weather: newFakeWeatherRepo(),
	}

	loyalty := NewLoyaltyService(f.users)

	weatherSvc := NewWeatherService(f.weather, nil)
	weatherSvc.BaseURL = "http://127.0.0.1:1"
	weatherSvc.Client = &http.Client{Timeout: 100 * time.Millisecond}

	demandSvc := NewDemandService(f.orders, f.demand, nil, nil)

	f.svc = NewPricingService(f.rules, f.users, loyalty, weatherSvc, demandSvc, nil)
	return f
}

func (f *pricingFixture) freshNormalDemand() {
	f.demand.state = &models.DemandLevelState{
		Level:          models.DemandNormal,
		OrderThreshold: 15,
		CurrentOrders:  10,
		LastUpdated:    time.Now(),
	}
}

func soupFor(price float64) *models.Food {
	return &models.Food{ID: "food-1", Name: "Tomato Soup", Category: models.CategorySoup, Price: price}
}

func TestLoyaltyOutranksNewUserDiscount(t *testing.T) {
	ctx := context.Background()
	f := newPricingFixture(&models.User{
		ID: "u1", OrderCount: 20, TotalSpent: 500, IsNewUser: true, LoyaltyTier: models.TierGold,
	})
	f.freshNormalDemand()
	if err := f.svc.SeedDefaultRules(ctx); err != nil {
		t.Fatalf("seed rules: %v", err)
	}

	quote := f.svc.ResolvePrice(ctx, soupFor(500), "u1", "")

	if quote.DiscountType == nil || *quote.DiscountType != "loyalty" {
		t.Fatalf("expected loyalty discount to win, got %+v", quote)
	}
	if quote.Discount != 10 {
		t.Fatalf("expected 10%% gold discount, got %.2f", quote.Discount)
	}
	if quote.FinalPrice != 450.00 {
		t.Fatalf("expected final price 450.00, got %.2f", quote.FinalPrice)
	}
}

func TestDiscountsNeverStack(t *testing.T) {
	ctx := context.Background()
	// New user during low demand: both candidates apply, only the
	// higher-priority new-user discount is taken.
	f := newPricingFixture(&models.User{
		ID: "u1", OrderCount: 0, TotalSpent: 0, IsNewUser: true, LoyaltyTier: models.TierBronze,
	})
	if err := f.svc.SeedDefaultRules(ctx); err != nil {
		t.Fatalf("seed rules: %v", err)
	}
	// No demand state and no orders: lazy refresh classifies low.

	quote := f.svc.ResolvePrice(ctx, soupFor(500), "u1", "")

	if quote.DiscountType == nil || *quote.DiscountType != "new_user" {
		t.Fatalf("expected new_user discount, got %+v", quote)
	}
	if quote.FinalPrice != 450.00 {
		t.Fatalf("discounts stacked: expected 450.00, got %.2f", quote.FinalPrice)
	}
}

func TestAnonymousUserPaysOriginalPrice(t *testing.T) {
	ctx := context.Background()
	f := newPricingFixture()
	f.freshNormalDemand()

	quote := f.svc.ResolvePrice(ctx, soupFor(500), "nobody", "")

	if quote.FinalPrice != 500.00 || quote.Discount != 0 {
		t.Fatalf("expected original price for unknown user, got %+v", quote)
	}
	if quote.AppliedRule != nil {
		t.Fatalf("expected nil applied rule, got %q", *quote.AppliedRule)
	}
}

func TestPriceFloorAtTenPercent(t *testing.T) {
	ctx := context.Background()
	f := newPricingFixture(&models.User{
		ID: "u1", OrderCount: 60, TotalSpent: 2000, LoyaltyTier: models.TierPlatinum,
	})
	f.freshNormalDemand()
	f.rules.rules = []models.PricingRule{{
		ID: "r1", Name: "Platinum Blowout", Type: models.RuleTypeLoyalty, IsActive: true,
		Priority: models.PriorityLoyalty, LoyaltyTier: models.TierPlatinum,
		LoyaltyDiscount: 95, MinOrders: 50, MinSpent: 1000, MaxDiscount: 100,
	}}

	quote := f.svc.ResolvePrice(ctx, soupFor(500), "u1", "")

	if quote.FinalPrice != 50.00 {
		t.Fatalf("expected 10%% floor at 50.00, got %.2f", quote.FinalPrice)
	}
}

func TestUnknownCityDefaultsToNormalWeather(t *testing.T) {
	ctx := context.Background()
	f := newPricingFixture(&models.User{
		ID: "u1", OrderCount: 0, TotalSpent: 0, LoyaltyTier: models.TierBronze,
	})
	f.freshNormalDemand()
	if err := f.svc.SeedDefaultRules(ctx); err != nil {
		t.Fatalf("seed rules: %v", err)
	}

	// Provider unreachable and city uncached: condition degrades to normal,
	// so the cold-weather soup rule cannot match and nothing else applies.
	quote := f.svc.ResolvePrice(ctx, soupFor(500), "u1", "atlantis")

	if quote.AppliedRule != nil {
		t.Fatalf("expected no discount for unknown city, got %q", *quote.AppliedRule)
	}
	if quote.FinalPrice != 500.00 {
		t.Fatalf("expected original price, got %.2f", quote.FinalPrice)
	}
}

func TestColdWeatherSoupDiscountFromCache(t *testing.T) {
	ctx := context.Background()
	f := newPricingFixture(&models.User{
		ID: "u1", OrderCount: 0, TotalSpent: 0, LoyaltyTier: models.TierBronze,
	})
	f.freshNormalDemand()
	if err := f.svc.SeedDefaultRules(ctx); err != nil {
		t.Fatalf("seed rules: %v", err)
	}
	f.weather.entries["oslo"] = &models.WeatherCacheEntry{
		City: "oslo", Temperature: 2, Condition: models.WeatherCold,
		LastUpdated: time.Now(), ExpiresAt: time.Now().Add(10 * time.Minute),
	}

	quote := f.svc.ResolvePrice(ctx, soupFor(100), "u1", "Oslo")

	if quote.DiscountType == nil || *quote.DiscountType != "weather" {
		t.Fatalf("expected weather discount, got %+v", quote)
	}
	if quote.FinalPrice != 85.00 {
		t.Fatalf("expected 15%% cold soup discount -> 85.00, got %.2f", quote.FinalPrice)
	}
}

func TestLowDemandDiscountFallsThrough(t *testing.T) {
	ctx := context.Background()
	f := newPricingFixture(&models.User{
		ID: "u1", OrderCount: 2, TotalSpent: 30, LoyaltyTier: models.TierBronze,
	})
	if err := f.svc.SeedDefaultRules(ctx); err != nil {
		t.Fatalf("seed rules: %v", err)
	}
	// No orders in the trailing hour: lazy refresh classifies low.

	quote := f.svc.ResolvePrice(ctx, soupFor(500), "u1", "")

	if quote.DiscountType == nil || *quote.DiscountType != "demand" {
		t.Fatalf("expected demand discount, got %+v", quote)
	}
	if quote.FinalPrice != 425.00 {
		t.Fatalf("expected 15%% low-demand discount -> 425.00, got %.2f", quote.FinalPrice)
	}
}

func TestValidateRuleBounds(t *testing.T) {
	f := newPricingFixture()

	cases := []struct {
		name    string
		rule    models.PricingRule
		wantErr bool
	}{
		{"valid demand rule", models.PricingRule{Name: "Low", Type: models.RuleTypeDemand, Priority: 1, DemandLevel: "low", DemandDiscount: 15}, false},
		{"missing name", models.PricingRule{Type: models.RuleTypeDemand, Priority: 1}, true},
		{"bad type", models.PricingRule{Name: "x", Type: "surge", Priority: 1}, true},
		{"discount above 100", models.PricingRule{Name: "x", Type: models.RuleTypeLoyalty, Priority: 4, LoyaltyDiscount: 120}, true},
		{"negative discount", models.PricingRule{Name: "x", Type: models.RuleTypeWeather, Priority: 2, WeatherDiscount: -5}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.svc.ValidateRule(&tc.rule)
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
