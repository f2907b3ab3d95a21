package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodhub-api/models"
	"foodhub-api/repositories"
	"foodhub-api/services"
)

type FoodHandler struct {
	Foods   repositories.FoodRepository
	Pricing *services.PricingService
}

func NewFoodHandler(foods repositories.FoodRepository, pricing *services.PricingService) *FoodHandler {
	return &FoodHandler{Foods: foods, Pricing: pricing}
}

// ListFoods returns the catalogue. When userId and city are supplied, each
// item carries the caller's resolved dynamic price.
// GET /foods?userId=&city=
func (h *FoodHandler) ListFoods(c *gin.Context) {
	foods, err := h.Foods.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error loading foods"})
		return
	}

	userID := c.Query("userId")
	city := c.Query("city")

	priced := make([]models.PricedFood, 0, len(foods))
	for i := range foods {
		entry := models.PricedFood{Food: foods[i]}
		if userID != "" {
			quote := h.Pricing.ResolvePrice(c.Request.Context(), &foods[i], userID, city)
			entry.Pricing = &quote
		}
		priced = append(priced, entry)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": priced})
}

// GetFood returns one catalogue item, with pricing when userId is supplied.
// GET /foods/:id?userId=&city=
func (h *FoodHandler) GetFood(c *gin.Context) {
	food, err := h.Foods.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error loading food"})
		return
	}
	if food == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Food item not found"})
		return
	}

	entry := models.PricedFood{Food: *food}
	if userID := c.Query("userId"); userID != "" {
		quote := h.Pricing.ResolvePrice(c.Request.Context(), food, userID, c.Query("city"))
		entry.Pricing = &quote
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
}
