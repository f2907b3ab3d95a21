package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"foodhub-api/models"
)

type PricingRuleRepository struct {
	DB *sql.DB
}

func NewPricingRuleRepository(db *sql.DB) *PricingRuleRepository {
	return &PricingRuleRepository{DB: db}
}

const ruleColumns = `id, name, type, is_active, priority,
	demand_level, demand_discount,
	user_type, new_user_discount,
	loyalty_tier, loyalty_discount, min_orders, min_spent,
	weather_condition, weather_discount, applicable_categories,
	max_discount, min_price, created_at, updated_at`

func scanRule(scanner interface{ Scan(...interface{}) error }) (*models.PricingRule, error) {
	var r models.PricingRule
	var categories pq.StringArray
	err := scanner.Scan(
		&r.ID, &r.Name, &r.Type, &r.IsActive, &r.Priority,
		&r.DemandLevel, &r.DemandDiscount,
		&r.UserType, &r.NewUserDiscount,
		&r.LoyaltyTier, &r.LoyaltyDiscount, &r.MinOrders, &r.MinSpent,
		&r.WeatherCondition, &r.WeatherDiscount, &categories,
		&r.MaxDiscount, &r.MinPrice, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.ApplicableCategories = []string(categories)
	return &r, nil
}

func (repo *PricingRuleRepository) queryRules(ctx context.Context, query string, args ...interface{}) ([]models.PricingRule, error) {
	rows, err := repo.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pricing rules: %w", err)
	}
	defer rows.Close()

	var rules []models.PricingRule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pricing rule: %w", err)
		}
		rules = append(rules, *r)
	}
	return rules, rows.Err()
}

func (repo *PricingRuleRepository) GetActive(ctx context.Context) ([]models.PricingRule, error) {
	return repo.queryRules(ctx, `
		SELECT `+ruleColumns+`
		FROM pricing_rules
		WHERE is_active = TRUE
		ORDER BY priority DESC, created_at ASC
	`)
}

func (repo *PricingRuleRepository) GetAll(ctx context.Context) ([]models.PricingRule, error) {
	return repo.queryRules(ctx, `
		SELECT `+ruleColumns+`
		FROM pricing_rules
		ORDER BY priority DESC, created_at ASC
	`)
}

func (repo *PricingRuleRepository) Create(ctx context.Context, rule *models.PricingRule) error {
	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	_, err := repo.DB.ExecContext(ctx, `
		INSERT INTO pricing_rules (
			id, name, type, is_active, priority,
			demand_level, demand_discount,
			user_type, new_user_discount,
			loyalty_tier, loyalty_discount, min_orders, min_spent,
			weather_condition, weather_discount, applicable_categories,
			max_discount, min_price, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`,
		rule.ID, rule.Name, rule.Type, rule.IsActive, rule.Priority,
		rule.DemandLevel, rule.DemandDiscount,
		rule.UserType, rule.NewUserDiscount,
		rule.LoyaltyTier, rule.LoyaltyDiscount, rule.MinOrders, rule.MinSpent,
		rule.WeatherCondition, rule.WeatherDiscount, pq.Array(rule.ApplicableCategories),
		rule.MaxDiscount, rule.MinPrice, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pricing rule: %w", err)
	}
	return nil
}

func (repo *PricingRuleRepository) Update(ctx context.Context, id string, rule *models.PricingRule) (*models.PricingRule, error) {
	row := repo.DB.QueryRowContext(ctx, `
		UPDATE pricing_rules SET
			name = $2, type = $3, is_active = $4, priority = $5,
			demand_level = $6, demand_discount = $7,
			user_type = $8, new_user_discount = $9,
			loyalty_tier = $10, loyalty_discount = $11, min_orders = $12, min_spent = $13,
			weather_condition = $14, weather_discount = $15, applicable_categories = $16,
			max_discount = $17, min_price = $18, updated_at = NOW()
		WHERE id = $1
		RETURNING `+ruleColumns+`
	`,
		id, rule.Name, rule.Type, rule.IsActive, rule.Priority,
		rule.DemandLevel, rule.DemandDiscount,
		rule.UserType, rule.NewUserDiscount,
		rule.LoyaltyTier, rule.LoyaltyDiscount, rule.MinOrders, rule.MinSpent,
		rule.WeatherCondition, rule.WeatherDiscount, pq.Array(rule.ApplicableCategories),
		rule.MaxDiscount, rule.MinPrice,
	)

	updated, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update pricing rule: %w", err)
	}
	return updated, nil
}

func (repo *PricingRuleRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := repo.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM pricing_rules`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pricing rules: %w", err)
	}
	return count, nil
}
