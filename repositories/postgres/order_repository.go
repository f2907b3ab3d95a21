package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"foodhub-api/models"
)

type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (repo *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	tx, err := repo.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin order insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, order.ID, order.UserID, order.Amount, order.Status, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, food_id, quantity, price)
			VALUES ($1, $2, $3, $4)
		`, order.ID, item.FoodID, item.Quantity, item.Price)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (repo *OrderRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := repo.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders WHERE created_at >= $1
	`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent orders: %w", err)
	}
	return count, nil
}

func (repo *OrderRepository) GetRecentWithFood(ctx context.Context, foodID string, limit int) ([]models.Order, error) {
	// The limit caps orders, not joined rows, hence the subquery.
	rows, err := repo.DB.QueryContext(ctx, `
		SELECT o.id, o.user_id, o.amount, o.status, o.created_at, i.food_id, i.quantity, i.price
		FROM (
			SELECT id, user_id, amount, status, created_at
			FROM orders
			WHERE id IN (SELECT DISTINCT order_id FROM order_items WHERE food_id = $1)
			ORDER BY created_at DESC
			LIMIT $2
		) o
		JOIN order_items i ON i.order_id = o.id
		ORDER BY o.created_at DESC
	`, foodID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders for food %s: %w", foodID, err)
	}
	defer rows.Close()

	var orders []models.Order
	byID := make(map[string]int)
	for rows.Next() {
		var (
			o    models.Order
			item models.OrderItem
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.Amount, &o.Status, &o.CreatedAt, &item.FoodID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		idx, seen := byID[o.ID]
		if !seen {
			orders = append(orders, o)
			idx = len(orders) - 1
			byID[o.ID] = idx
		}
		orders[idx].Items = append(orders[idx].Items, item)
	}
	return orders, rows.Err()
}
