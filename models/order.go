package models

import "time"

// ============================================================================
// ORDERS
// ============================================================================
// Order CRUD proper belongs to the ordering service; the pricing and forecast
// engines only need order creation times and line items, so this model stays
// minimal.

type OrderItem struct {
	FoodID   string  `json:"foodId" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Price    float64 `json:"price"`
}

type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Amount    float64     `json:"amount"`
	Status    string      `json:"status"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"createdAt"`
}

type PlaceOrderRequest struct {
	UserID string      `json:"userId" binding:"required"`
	Amount float64     `json:"amount" binding:"required,gt=0"`
	Items  []OrderItem `json:"items" binding:"required,min=1,dive"`
}
