package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"foodhub-api/models"
)

type FoodRepository struct {
	DB *sql.DB
}

func NewFoodRepository(db *sql.DB) *FoodRepository {
	return &FoodRepository{DB: db}
}

func (repo *FoodRepository) GetByID(ctx context.Context, id string) (*models.Food, error) {
	var f models.Food
	err := repo.DB.QueryRowContext(ctx, `
		SELECT id, name, category, description, price, average_rating, total_ratings, created_at
		FROM foods
		WHERE id = $1
	`, id).Scan(&f.ID, &f.Name, &f.Category, &f.Description, &f.Price, &f.AverageRating, &f.TotalRatings, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load food %s: %w", id, err)
	}
	return &f, nil
}

func (repo *FoodRepository) GetAll(ctx context.Context) ([]models.Food, error) {
	rows, err := repo.DB.QueryContext(ctx, `
		SELECT id, name, category, description, price, average_rating, total_ratings, created_at
		FROM foods
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	var foods []models.Food
	for rows.Next() {
		var f models.Food
		if err := rows.Scan(&f.ID, &f.Name, &f.Category, &f.Description, &f.Price, &f.AverageRating, &f.TotalRatings, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}
