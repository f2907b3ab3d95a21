package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"foodhub-api/models"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (repo *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := repo.DB.QueryRowContext(ctx, `
		SELECT id, name, email, city, order_count, total_spent, is_new_user, loyalty_tier, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.City, &u.OrderCount, &u.TotalSpent, &u.IsNewUser, &u.LoyaltyTier, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return &u, nil
}

// ApplyOrder is a read-modify-write without locking; a lost update between two
// concurrent completions is an accepted race for loyalty counters.
func (repo *UserRepository) ApplyOrder(ctx context.Context, userID string, amount float64) (*models.User, error) {
	var u models.User
	err := repo.DB.QueryRowContext(ctx, `
		UPDATE users SET
			order_count = order_count + 1,
			total_spent = total_spent + $2,
			is_new_user = FALSE
		WHERE id = $1
		RETURNING id, name, email, city, order_count, total_spent, is_new_user, loyalty_tier, created_at
	`, userID, amount).Scan(&u.ID, &u.Name, &u.Email, &u.City, &u.OrderCount, &u.TotalSpent, &u.IsNewUser, &u.LoyaltyTier, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply order to user %s: %w", userID, err)
	}
	return &u, nil
}

func (repo *UserRepository) UpdateTier(ctx context.Context, userID, tier string) error {
	_, err := repo.DB.ExecContext(ctx, `UPDATE users SET loyalty_tier = $2 WHERE id = $1`, userID, tier)
	if err != nil {
		return fmt.Errorf("failed to update loyalty tier for user %s: %w", userID, err)
	}
	return nil
}
