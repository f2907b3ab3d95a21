package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"foodhub-api/models"
)

// OpsHandler streams live demand-level changes and forecast alerts to
// connected admin dashboards.
type OpsHandler struct {
	M *melody.Melody
}

func NewOpsHandler() *OpsHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive matters behind cloud load balancers
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		log.Printf("✅ Ops client connected: %s", s.Request.RemoteAddr)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		log.Printf("🔌 Ops client disconnected: %s", s.Request.RemoteAddr)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ Ops WebSocket error: %v", err)
	})

	return &OpsHandler{M: m}
}

// HandleWS upgrades the request to a WebSocket session.
func (h *OpsHandler) HandleWS(c *gin.Context) {
	if err := h.M.HandleRequest(c.Writer, c.Request); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

func (h *OpsHandler) broadcast(event string, payload interface{}) {
	msg, err := json.Marshal(gin.H{"type": event, "data": payload})
	if err != nil {
		log.Printf("⚠️ Failed to encode ops event %s: %v", event, err)
		return
	}
	if err := h.M.Broadcast(msg); err != nil {
		log.Printf("⚠️ Error broadcasting %s: %v", event, err)
	}
}

// BroadcastDemandLevel pushes a demand level change to all ops clients.
func (h *OpsHandler) BroadcastDemandLevel(level string, currentOrders int) {
	h.broadcast("demand_level", gin.H{
		"level":         level,
		"currentOrders": currentOrders,
	})
}

// BroadcastAlerts pushes the latest forecast alert set to all ops clients.
func (h *OpsHandler) BroadcastAlerts(alerts []models.ForecastAlert) {
	if len(alerts) == 0 {
		return
	}
	h.broadcast("forecast_alerts", alerts)
}
