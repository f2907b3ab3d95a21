package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"foodhub-api/models"
)

// DemandStateRepository manages the single system-wide demand level record.
type DemandStateRepository struct {
	DB *sql.DB
}

func NewDemandStateRepository(db *sql.DB) *DemandStateRepository {
	return &DemandStateRepository{DB: db}
}

func (repo *DemandStateRepository) Get(ctx context.Context) (*models.DemandLevelState, error) {
	var s models.DemandLevelState
	err := repo.DB.QueryRowContext(ctx, `
		SELECT level, order_threshold, current_orders, last_updated
		FROM demand_level
		WHERE id = 1
	`).Scan(&s.Level, &s.OrderThreshold, &s.CurrentOrders, &s.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load demand level: %w", err)
	}
	return &s, nil
}

func (repo *DemandStateRepository) Upsert(ctx context.Context, state *models.DemandLevelState) error {
	_, err := repo.DB.ExecContext(ctx, `
		INSERT INTO demand_level (id, level, order_threshold, current_orders, last_updated)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			level = EXCLUDED.level,
			order_threshold = EXCLUDED.order_threshold,
			current_orders = EXCLUDED.current_orders,
			last_updated = EXCLUDED.last_updated
	`, state.Level, state.OrderThreshold, state.CurrentOrders, state.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert demand level: %w", err)
	}
	return nil
}
