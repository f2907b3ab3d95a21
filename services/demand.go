package services

import (
	"context"
	"log"
	"time"

	"foodhub-api/models"
	"foodhub-api/observability"
	"foodhub-api/repositories"
)

// ============================================================================
// DEMAND SERVICE
// Classifies system-wide order velocity into low/normal/high from the
// trailing hour of orders. One canonical state record exists; it is
// overwritten in place.
// ============================================================================

const (
	demandLowThreshold  = 5
	demandHighThreshold = 15
	demandStaleAfter    = time.Hour
	demandTickInterval  = 5 * time.Minute
)

// Discount by demand level. High demand gets no surcharge, only low demand
// earns a discount.
var demandDiscounts = map[string]float64{
	models.DemandLow:    15,
	models.DemandNormal: 0,
	models.DemandHigh:   0,
}

// OpsBroadcaster pushes live state changes to connected dashboards.
type OpsBroadcaster interface {
	BroadcastDemandLevel(level string, currentOrders int)
}

type DemandService struct {
	Orders  repositories.OrderRepository
	State   repositories.DemandStateRepository
	Ops     OpsBroadcaster
	Metrics *observability.Metrics

	LowThreshold  int
	HighThreshold int
	Interval      time.Duration
	StaleAfter    time.Duration
}

func NewDemandService(orders repositories.OrderRepository, state repositories.DemandStateRepository, ops OpsBroadcaster, metrics *observability.Metrics) *DemandService {
	return &DemandService{
		Orders:        orders,
		State:         state,
		Ops:           ops,
		Metrics:       metrics,
		LowThreshold:  demandLowThreshold,
		HighThreshold: demandHighThreshold,
		Interval:      demandTickInterval,
		StaleAfter:    demandStaleAfter,
	}
}

// Refresh recounts the trailing hour of orders and overwrites the state
// record. Concurrent refreshes are idempotent, just redundant work.
func (s *DemandService) Refresh(ctx context.Context) (string, error) {
	orderCount, err := s.Orders.CountSince(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		return models.DemandNormal, err
	}

	level := models.DemandNormal
	threshold := s.HighThreshold
	switch {
	case orderCount < s.LowThreshold:
		level = models.DemandLow
		threshold = s.LowThreshold
	case orderCount > s.HighThreshold:
		level = models.DemandHigh
	}

	previous, _ := s.State.Get(ctx)

	state := &models.DemandLevelState{
		Level:          level,
		OrderThreshold: threshold,
		CurrentOrders:  orderCount,
		LastUpdated:    time.Now(),
	}
	if err := s.State.Upsert(ctx, state); err != nil {
		return models.DemandNormal, err
	}

	s.Metrics.ObserveDemandRefresh()
	log.Printf("📊 Demand level: %s (%d orders in last hour, thresholds low<%d high>%d)",
		level, orderCount, s.LowThreshold, s.HighThreshold)

	if s.Ops != nil && (previous == nil || previous.Level != level) {
		s.Ops.BroadcastDemandLevel(level, orderCount)
	}
	return level, nil
}

// CurrentLevel returns the stored level, lazily refreshing when the record is
// missing or older than an hour. Errors degrade to "normal".
func (s *DemandService) CurrentLevel(ctx context.Context) string {
	state, err := s.State.Get(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to read demand level, defaulting to normal: %v", err)
		return models.DemandNormal
	}

	if state != nil && time.Since(state.LastUpdated) <= s.StaleAfter {
		return state.Level
	}

	level, err := s.Refresh(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to refresh demand level, defaulting to normal: %v", err)
		return models.DemandNormal
	}
	return level
}

// DiscountFor maps a demand level to its discount percentage.
func (s *DemandService) DiscountFor(level string) float64 {
	return demandDiscounts[level]
}

// CurrentState exposes the raw singleton for the ops dashboard.
func (s *DemandService) CurrentState(ctx context.Context) (*models.DemandLevelState, error) {
	return s.State.Get(ctx)
}

// Start runs the periodic recomputation until the context is cancelled. Run
// it in a goroutine; cancelling the context is the shutdown path.
func (s *DemandService) Start(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil {
		log.Printf("⚠️ Initial demand refresh failed: %v", err)
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	log.Printf("📊 Demand tracking started (every %s)", s.Interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("📊 Demand tracking stopped")
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				log.Printf("⚠️ Scheduled demand refresh failed: %v", err)
			}
		}
	}
}
