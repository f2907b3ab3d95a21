package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"foodhub-api/models"
)

// WeatherRepository caches one live weather entry per lower-cased city.
type WeatherRepository struct {
	DB *sql.DB
}

func NewWeatherRepository(db *sql.DB) *WeatherRepository {
	return &WeatherRepository{DB: db}
}

func (repo *WeatherRepository) GetLive(ctx context.Context, city string) (*models.WeatherCacheEntry, error) {
	var e models.WeatherCacheEntry
	err := repo.DB.QueryRowContext(ctx, `
		SELECT city, temperature, condition, last_updated, expires_at
		FROM weather_cache
		WHERE city = $1 AND expires_at > NOW()
	`, strings.ToLower(city)).Scan(&e.City, &e.Temperature, &e.Condition, &e.LastUpdated, &e.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cached weather for %s: %w", city, err)
	}
	return &e, nil
}

func (repo *WeatherRepository) Upsert(ctx context.Context, entry *models.WeatherCacheEntry) error {
	_, err := repo.DB.ExecContext(ctx, `
		INSERT INTO weather_cache (city, temperature, condition, last_updated, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (city) DO UPDATE SET
			temperature = EXCLUDED.temperature,
			condition = EXCLUDED.condition,
			last_updated = EXCLUDED.last_updated,
			expires_at = EXCLUDED.expires_at
	`, strings.ToLower(entry.City), entry.Temperature, entry.Condition, entry.LastUpdated, entry.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to cache weather for %s: %w", entry.City, err)
	}
	return nil
}
