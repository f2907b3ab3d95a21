package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"foodhub-api/models"
)

// In-memory repository doubles shared across the service tests.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) ApplyOrder(_ context.Context, userID string, amount float64) (*models.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	u.OrderCount++
	u.TotalSpent += amount
	u.IsNewUser = false
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateTier(_ context.Context, userID, tier string) error {
	if u, ok := r.users[userID]; ok {
		u.LoyaltyTier = tier
	}
	return nil
}

type fakeRuleRepo struct {
	rules []models.PricingRule
}

func (r *fakeRuleRepo) GetActive(_ context.Context) ([]models.PricingRule, error) {
	var active []models.PricingRule
	for _, rule := range r.rules {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Priority > active[j].Priority })
	return active, nil
}

func (r *fakeRuleRepo) GetAll(_ context.Context) ([]models.PricingRule, error) {
	return append([]models.PricingRule(nil), r.rules...), nil
}

func (r *fakeRuleRepo) Create(_ context.Context, rule *models.PricingRule) error {
	r.rules = append(r.rules, *rule)
	return nil
}

func (r *fakeRuleRepo) Update(_ context.Context, id string, rule *models.PricingRule) (*models.PricingRule, error) {
	for i := range r.rules {
		if r.rules[i].ID == id {
			updated := *rule
			updated.ID = id
			r.rules[i] = updated
			return &updated, nil
		}
	}
	return nil, nil
}

func (r *fakeRuleRepo) Count(_ context.Context) (int, error) {
	return len(r.rules), nil
}

type fakeOrderRepo struct {
	orders []models.Order
}

func (r *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	r.orders = append(r.orders, *order)
	return nil
}

func (r *fakeOrderRepo) CountSince(_ context.Context, since time.Time) (int, error) {
	count := 0
	for _, o := range r.orders {
		if !o.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeOrderRepo) GetRecentWithFood(_ context.Context, foodID string, limit int) ([]models.Order, error) {
	var matched []models.Order
	for _, o := range r.orders {
		for _, item := range o.Items {
			if item.FoodID == foodID {
				matched = append(matched, o)
				break
			}
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type fakeDemandStateRepo struct {
	state *models.DemandLevelState
}

func (r *fakeDemandStateRepo) Get(_ context.Context) (*models.DemandLevelState, error) {
	if r.state == nil {
		return nil, nil
	}
	cp := *r.state
	return &cp, nil
}

func (r *fakeDemandStateRepo) Upsert(_ context.Context, state *models.DemandLevelState) error {
	cp := *state
	r.state = &cp
	return nil
}

type fakeWeatherRepo struct {
	entries map[string]*models.WeatherCacheEntry
}

func newFakeWeatherRepo() *fakeWeatherRepo {
	return &fakeWeatherRepo{entries: make(map[string]*models.WeatherCacheEntry)}
}

func (r *fakeWeatherRepo) GetLive(_ context.Context, city string) (*models.WeatherCacheEntry, error) {
	e, ok := r.entries[strings.ToLower(city)]
	if !ok || time.Now().After(e.ExpiresAt) {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *fakeWeatherRepo) Upsert(_ context.Context, entry *models.WeatherCacheEntry) error {
	cp := *entry
	r.entries[strings.ToLower(entry.City)] = &cp
	return nil
}

type fakeForecastRepo struct {
	byFood map[string][]models.ForecastPoint
}

func newFakeForecastRepo() *fakeForecastRepo {
	return &fakeForecastRepo{byFood: make(map[string][]models.ForecastPoint)}
}

func (r *fakeForecastRepo) GetByFood(_ context.Context, foodID string, hours int) ([]models.ForecastPoint, error) {
	points := append([]models.ForecastPoint(nil), r.byFood[foodID]...)
	if len(points) > hours {
		points = points[:hours]
	}
	return points, nil
}

func (r *fakeForecastRepo) GetAll(_ context.Context) ([]models.ForecastPoint, error) {
	var all []models.ForecastPoint
	for _, points := range r.byFood {
		all = append(all, points...)
	}
	return all, nil
}

func (r *fakeForecastRepo) ReplaceForFood(_ context.Context, foodID string, points []models.ForecastPoint) error {
	r.byFood[foodID] = append([]models.ForecastPoint(nil), points...)
	return nil
}

type fakeFoodRepo struct {
	foods []models.Food
}

func (r *fakeFoodRepo) GetByID(_ context.Context, id string) (*models.Food, error) {
	for i := range r.foods {
		if r.foods[i].ID == id {
			cp := r.foods[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeFoodRepo) GetAll(_ context.Context) ([]models.Food, error) {
	return append([]models.Food(nil), r.foods...), nil
}
