package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	pricingResolutions *prometheus.CounterVec
	weatherCacheHits   prometheus.Counter
	weatherCacheMisses prometheus.Counter
	weatherFallbacks   prometheus.Counter
	demandRefreshes    prometheus.Counter
	forecastRuns       prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		pricingResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pricing_resolutions_total",
			Help: "Total price resolutions by applied discount type (none when no rule matched).",
		}, []string{"discount_type"}),
		weatherCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weather_cache_hits_total",
			Help: "Total weather lookups served from the cache.",
		}),
		weatherCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weather_cache_misses_total",
			Help: "Total weather lookups that went to the provider.",
		}),
		weatherFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weather_provider_fallbacks_total",
			Help: "Total weather provider failures substituted with the neutral default.",
		}),
		demandRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "demand_level_refreshes_total",
			Help: "Total demand level recomputations (scheduled and lazy).",
		}),
		forecastRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forecast_runs_total",
			Help: "Total per-item forecast generations.",
		}),
	}

	prometheus.MustRegister(
		m.pricingResolutions,
		m.weatherCacheHits,
		m.weatherCacheMisses,
		m.weatherFallbacks,
		m.demandRefreshes,
		m.forecastRuns,
	)

	return m
}

// Handler serves the Prometheus scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// All observers are nil-safe so services can run without metrics in tests.

func (m *Metrics) ObservePricingResolution(discountType string) {
	if m == nil {
		return
	}
	m.pricingResolutions.WithLabelValues(discountType).Inc()
}

func (m *Metrics) ObserveWeatherCacheHit() {
	if m == nil {
		return
	}
	m.weatherCacheHits.Inc()
}

func (m *Metrics) ObserveWeatherCacheMiss() {
	if m == nil {
		return
	}
	m.weatherCacheMisses.Inc()
}

func (m *Metrics) ObserveWeatherFallback() {
	if m == nil {
		return
	}
	m.weatherFallbacks.Inc()
}

func (m *Metrics) ObserveDemandRefresh() {
	if m == nil {
		return
	}
	m.demandRefreshes.Inc()
}

func (m *Metrics) ObserveForecastRun() {
	if m == nil {
		return
	}
	m.forecastRuns.Inc()
}
