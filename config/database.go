package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			city VARCHAR(255) DEFAULT '',
			order_count INTEGER DEFAULT 0,
			total_spent NUMERIC(12,2) DEFAULT 0,
			is_new_user BOOLEAN DEFAULT TRUE,
			loyalty_tier VARCHAR(50) DEFAULT 'bronze',
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS foods (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(100) NOT NULL,
			description TEXT DEFAULT '',
			price NUMERIC(10,2) NOT NULL,
			average_rating NUMERIC(3,1) DEFAULT 0,
			total_ratings INTEGER DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID REFERENCES users(id),
			amount NUMERIC(12,2) NOT NULL,
			status VARCHAR(50) DEFAULT 'placed',
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,

		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id UUID REFERENCES orders(id) ON DELETE CASCADE,
			food_id UUID REFERENCES foods(id),
			quantity INTEGER NOT NULL,
			price NUMERIC(10,2) DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_food_id ON order_items(food_id)`,

		`CREATE TABLE IF NOT EXISTS pricing_rules (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			type VARCHAR(50) NOT NULL,
			is_active BOOLEAN DEFAULT TRUE,
			priority INTEGER NOT NULL,
			demand_level VARCHAR(50) DEFAULT '',
			demand_discount NUMERIC(5,2) DEFAULT 0,
			user_type VARCHAR(50) DEFAULT '',
			new_user_discount NUMERIC(5,2) DEFAULT 0,
			loyalty_tier VARCHAR(50) DEFAULT '',
			loyalty_discount NUMERIC(5,2) DEFAULT 0,
			min_orders INTEGER DEFAULT 0,
			min_spent NUMERIC(12,2) DEFAULT 0,
			weather_condition VARCHAR(50) DEFAULT '',
			weather_discount NUMERIC(5,2) DEFAULT 0,
			applicable_categories TEXT[] DEFAULT '{}',
			max_discount NUMERIC(5,2) DEFAULT 50,
			min_price NUMERIC(10,2) DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		// Singleton: the CHECK pins the table to one row, overwritten in place.
		`CREATE TABLE IF NOT EXISTS demand_level (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			level VARCHAR(50) NOT NULL,
			order_threshold INTEGER NOT NULL,
			current_orders INTEGER DEFAULT 0,
			last_updated TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS weather_cache (
			city VARCHAR(255) PRIMARY KEY,
			temperature NUMERIC(5,1) NOT NULL,
			condition VARCHAR(50) NOT NULL,
			last_updated TIMESTAMPTZ DEFAULT NOW(),
			expires_at TIMESTAMPTZ NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS forecasts (
			id UUID PRIMARY KEY,
			food_id UUID REFERENCES foods(id) ON DELETE CASCADE,
			forecast_hour INTEGER NOT NULL,
			point_forecast NUMERIC(10,2) NOT NULL,
			lower_bound NUMERIC(10,2) NOT NULL,
			upper_bound NUMERIC(10,2) NOT NULL,
			confidence NUMERIC(4,2) NOT NULL,
			weather_factor NUMERIC(4,2) DEFAULT 1.0,
			demand_level VARCHAR(50) NOT NULL,
			generated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_forecasts_food_hour ON forecasts(food_id, forecast_hour)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
