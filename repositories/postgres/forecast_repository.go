package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"foodhub-api/models"
)

type ForecastRepository struct {
	DB *sql.DB
}

func NewForecastRepository(db *sql.DB) *ForecastRepository {
	return &ForecastRepository{DB: db}
}

const forecastColumns = `id, food_id, forecast_hour, point_forecast, lower_bound, upper_bound,
	confidence, weather_factor, demand_level, generated_at`

func (repo *ForecastRepository) scanPoints(rows *sql.Rows) ([]models.ForecastPoint, error) {
	defer rows.Close()

	var points []models.ForecastPoint
	for rows.Next() {
		var p models.ForecastPoint
		err := rows.Scan(&p.ID, &p.FoodID, &p.ForecastHour, &p.PointForecast, &p.LowerBound,
			&p.UpperBound, &p.Confidence, &p.WeatherFactor, &p.DemandLevel, &p.GeneratedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan forecast point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (repo *ForecastRepository) GetByFood(ctx context.Context, foodID string, hours int) ([]models.ForecastPoint, error) {
	rows, err := repo.DB.QueryContext(ctx, `
		SELECT `+forecastColumns+`
		FROM forecasts
		WHERE food_id = $1
		ORDER BY forecast_hour ASC
		LIMIT $2
	`, foodID, hours)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecasts for food %s: %w", foodID, err)
	}
	return repo.scanPoints(rows)
}

func (repo *ForecastRepository) GetAll(ctx context.Context) ([]models.ForecastPoint, error) {
	rows, err := repo.DB.QueryContext(ctx, `
		SELECT `+forecastColumns+`
		FROM forecasts
		ORDER BY food_id, forecast_hour ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecasts: %w", err)
	}
	return repo.scanPoints(rows)
}

// ReplaceForFood implements the total-replace regeneration contract: the old
// point set for the item is discarded, never merged.
func (repo *ForecastRepository) ReplaceForFood(ctx context.Context, foodID string, points []models.ForecastPoint) error {
	tx, err := repo.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin forecast replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM forecasts WHERE food_id = $1`, foodID); err != nil {
		return fmt.Errorf("failed to clear forecasts for food %s: %w", foodID, err)
	}

	for _, p := range points {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO forecasts (
				id, food_id, forecast_hour, point_forecast, lower_bound, upper_bound,
				confidence, weather_factor, demand_level, generated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, p.ID, p.FoodID, p.ForecastHour, p.PointForecast, p.LowerBound, p.UpperBound,
			p.Confidence, p.WeatherFactor, p.DemandLevel, p.GeneratedAt)
		if err != nil {
			return fmt.Errorf("failed to insert forecast point: %w", err)
		}
	}

	return tx.Commit()
}
