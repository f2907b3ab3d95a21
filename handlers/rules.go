package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"foodhub-api/models"
	"foodhub-api/repositories"
	"foodhub-api/services"
)

// RulesHandler exposes pricing rule CRUD to admins. Validation happens here,
// at the write boundary, never at read time.
type RulesHandler struct {
	Rules   repositories.PricingRuleRepository
	Pricing *services.PricingService
}

func NewRulesHandler(rules repositories.PricingRuleRepository, pricing *services.PricingService) *RulesHandler {
	return &RulesHandler{Rules: rules, Pricing: pricing}
}

// ListRules returns every rule sorted by priority, highest first.
// GET /pricing/rules
func (h *RulesHandler) ListRules(c *gin.Context) {
	rules, err := h.Rules.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error loading pricing rules"})
		return
	}
	if rules == nil {
		rules = []models.PricingRule{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rules})
}

// CreateRule adds a new rule.
// POST /pricing/rules
func (h *RulesHandler) CreateRule(c *gin.Context) {
	var rule models.PricingRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := h.Pricing.ValidateRule(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	rule.ID = uuid.NewString()
	rule.IsActive = true
	if err := h.Rules.Create(c.Request.Context(), &rule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error creating pricing rule"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": rule})
}

// UpdateRule overwrites an existing rule.
// PUT /pricing/rules/:ruleId
func (h *RulesHandler) UpdateRule(c *gin.Context) {
	var rule models.PricingRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := h.Pricing.ValidateRule(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	updated, err := h.Rules.Update(c.Request.Context(), c.Param("ruleId"), &rule)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating pricing rule"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Pricing rule not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}
