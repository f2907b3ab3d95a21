package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"foodhub-api/models"
	"foodhub-api/repositories"
	"foodhub-api/services"
)

// OrderHandler is the minimal order intake the pricing engine needs: each
// placed order feeds loyalty counters and the demand tracker. Full order
// lifecycle management lives with the ordering service.
type OrderHandler struct {
	Orders  repositories.OrderRepository
	Loyalty *services.LoyaltyService
	Demand  *services.DemandService
}

func NewOrderHandler(orders repositories.OrderRepository, loyalty *services.LoyaltyService, demand *services.DemandService) *OrderHandler {
	return &OrderHandler{Orders: orders, Loyalty: loyalty, Demand: demand}
}

// PlaceOrder records an order and updates the user's loyalty snapshot.
// POST /orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	order := models.Order{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Amount:    req.Amount,
		Status:    "placed",
		Items:     req.Items,
		CreatedAt: time.Now(),
	}

	if err := h.Orders.Create(c.Request.Context(), &order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error placing order"})
		return
	}

	if err := h.Loyalty.ApplyCompletedOrder(c.Request.Context(), req.UserID, req.Amount); err != nil {
		// The order stands; loyalty counters catch up on the next one.
		log.Printf("⚠️ Loyalty update failed for user %s: %v", req.UserID, err)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": order})
}
