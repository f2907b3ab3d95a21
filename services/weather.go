package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"foodhub-api/models"
	"foodhub-api/observability"
	"foodhub-api/repositories"
)

// ============================================================================
// WEATHER SERVICE
// Cached per-city weather classification used for category-targeted discounts.
// Pricing must degrade gracefully: provider failures yield a neutral default,
// never an error.
// ============================================================================

const (
	weatherCacheTTL       = 30 * time.Minute
	defaultTemperature    = 20.0
	defaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"
)

// Weather condition × food category discount table. Seeded rules override
// these at resolution time; the table is the fallback.
var weatherCategoryDiscounts = map[string]map[string]float64{
	models.WeatherCold: {
		models.CategorySoup:      15,
		models.CategoryHotDrinks: 15,
		models.CategoryDessert:   10,
	},
	models.WeatherHot: {
		models.CategoryColdDrinks: 10,
		models.CategoryIceCream:   15,
		models.CategorySalad:      10,
	},
}

type WeatherService struct {
	Cache   repositories.WeatherRepository
	Metrics *observability.Metrics

	APIKey  string
	BaseURL string
	Client  *http.Client
	TTL     time.Duration
}

func NewWeatherService(cache repositories.WeatherRepository, metrics *observability.Metrics) *WeatherService {
	return &WeatherService{
		Cache:   cache,
		Metrics: metrics,
		APIKey:  strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY")),
		BaseURL: defaultWeatherBaseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		TTL:     weatherCacheTTL,
	}
}

// Current returns the weather classification for a city. Cached entries are
// served while live; otherwise the provider is fetched and the result cached.
// Any failure falls back to {20°C, normal}.
func (s *WeatherService) Current(ctx context.Context, city string) models.WeatherInfo {
	fallback := models.WeatherInfo{City: city, Temperature: defaultTemperature, Condition: models.WeatherNormal}
	if city == "" {
		return fallback
	}

	cached, err := s.Cache.GetLive(ctx, city)
	if err != nil {
		log.Printf("⚠️ Weather cache read failed for %s: %v", city, err)
	}
	if cached != nil {
		s.Metrics.ObserveWeatherCacheHit()
		return models.WeatherInfo{City: city, Temperature: cached.Temperature, Condition: cached.Condition}
	}
	s.Metrics.ObserveWeatherCacheMiss()

	info, err := s.fetchFromProvider(ctx, city)
	if err != nil {
		s.Metrics.ObserveWeatherFallback()
		log.Printf("🌤️ Weather provider failed for %s, using default: %v", city, err)
		return fallback
	}

	now := time.Now()
	entry := &models.WeatherCacheEntry{
		City:        strings.ToLower(city),
		Temperature: info.Temperature,
		Condition:   info.Condition,
		LastUpdated: now,
		ExpiresAt:   now.Add(s.TTL),
	}
	if err := s.Cache.Upsert(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to cache weather for %s: %v", city, err)
	}

	return info
}

func (s *WeatherService) fetchFromProvider(ctx context.Context, city string) (models.WeatherInfo, error) {
	endpoint := fmt.Sprintf("%s?q=%s&appid=%s&units=metric", s.BaseURL, url.QueryEscape(city), s.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.WeatherInfo{}, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return models.WeatherInfo{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.WeatherInfo{}, fmt.Errorf("weather API error: %d", resp.StatusCode)
	}

	var payload struct {
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.WeatherInfo{}, fmt.Errorf("failed to decode weather response: %w", err)
	}

	info := models.WeatherInfo{
		City:        city,
		Temperature: payload.Main.Temp,
		Condition:   ClassifyTemperature(payload.Main.Temp),
	}
	log.Printf("🌤️ Weather for %s: %.1f°C (%s)", city, info.Temperature, info.Condition)
	return info, nil
}

// ClassifyTemperature buckets a temperature into the coarse condition used by
// weather rules.
func ClassifyTemperature(temp float64) string {
	if temp < 10 {
		return models.WeatherCold
	}
	if temp > 30 {
		return models.WeatherHot
	}
	return models.WeatherNormal
}

// DiscountFor returns the built-in discount for a condition/category pair.
func (s *WeatherService) DiscountFor(condition, category string) float64 {
	return weatherCategoryDiscounts[condition][category]
}
