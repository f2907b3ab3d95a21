package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodhub-api/models"
	"foodhub-api/repositories"
	"foodhub-api/services"
)

type PricingHandler struct {
	Pricing *services.PricingService
	Foods   repositories.FoodRepository
}

func NewPricingHandler(pricing *services.PricingService, foods repositories.FoodRepository) *PricingHandler {
	return &PricingHandler{Pricing: pricing, Foods: foods}
}

// GetPrice resolves the dynamic price for one item.
// GET /pricing?foodId=&userId=&city=
func (h *PricingHandler) GetPrice(c *gin.Context) {
	foodID := c.Query("foodId")
	if foodID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "foodId is required"})
		return
	}

	food, err := h.Foods.GetByID(c.Request.Context(), foodID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error loading food item"})
		return
	}
	if food == nil {
		// Unknown item is a typed empty result, not an error.
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Food item not found", "data": models.PriceQuote{}})
		return
	}

	quote := h.Pricing.ResolvePrice(c.Request.Context(), food, c.Query("userId"), c.Query("city"))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": quote})
}
