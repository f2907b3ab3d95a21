package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodhub-api/models"
	"foodhub-api/services"
)

type ForecastHandler struct {
	Forecast *services.ForecastService
	Ops      *OpsHandler
}

func NewForecastHandler(forecast *services.ForecastService, ops *OpsHandler) *ForecastHandler {
	return &ForecastHandler{Forecast: forecast, Ops: ops}
}

// Summary returns the per-item forecast overview.
// GET /forecast/summary
func (h *ForecastHandler) Summary(c *gin.Context) {
	summary, err := h.Forecast.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching forecast summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

// ByFood returns the hourly forecast for one item. Unknown items yield an
// empty set, not an error.
// GET /forecast/food/:id?hours=24
func (h *ForecastHandler) ByFood(c *gin.Context) {
	hours, err := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "hours must be a number"})
		return
	}

	points := h.Forecast.ForecastFor(c.Request.Context(), c.Param("id"), hours)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": points})
}

// Historical returns the hourly demand buckets for one item.
// GET /forecast/historical/:id
func (h *ForecastHandler) Historical(c *gin.Context) {
	points, err := h.Forecast.HourlyDemand(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching historical data"})
		return
	}
	if points == nil {
		points = []models.HistoricalDemandPoint{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": points})
}

// Alerts scans all stored forecasts for alert conditions.
// GET /forecast/alerts
func (h *ForecastHandler) Alerts(c *gin.Context) {
	alerts, err := h.Forecast.Alerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching alerts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": alerts})
}

// Config returns the static forecaster configuration.
// GET /forecast/config
func (h *ForecastHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.Forecast.Config()})
}

// Generate regenerates forecasts for all items (admin only).
// POST /forecast/generate
func (h *ForecastHandler) Generate(c *gin.Context) {
	count, err := h.Forecast.GenerateAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error generating forecasts"})
		return
	}

	if h.Ops != nil {
		if alerts, err := h.Forecast.Alerts(c.Request.Context()); err == nil {
			h.Ops.BroadcastAlerts(alerts)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Forecasts regenerated",
		"count":   count,
	})
}
