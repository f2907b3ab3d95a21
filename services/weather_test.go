package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"foodhub-api/models"
)

func TestClassifyTemperature(t *testing.T) {
	cases := []struct {
		temp float64
		want string
	}{
		{-5, models.WeatherCold},
		{9.9, models.WeatherCold},
		{10, models.WeatherNormal},
		{20, models.WeatherNormal},
		{30, models.WeatherNormal},
		{30.1, models.WeatherHot},
		{42, models.WeatherHot},
	}
	for _, tc := range cases {
		if got := ClassifyTemperature(tc.temp); got != tc.want {
			t.Fatalf("ClassifyTemperature(%.1f) = %q, want %q", tc.temp, got, tc.want)
		}
	}
}

func TestCurrentFetchesAndCaches(t *testing.T) {
	ctx := context.Background()
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"main":{"temp":4.5},"weather":[{"main":"Snow"}]}`))
	}))
	defer srv.Close()

	cache := newFakeWeatherRepo()
	svc := NewWeatherService(cache, nil)
	svc.BaseURL = srv.URL

	info := svc.Current(ctx, "Oslo")
	if info.Condition != models.WeatherCold || info.Temperature != 4.5 {
		t.Fatalf("unexpected classification: %+v", info)
	}

	// Second lookup is served from cache, the provider is not hit again.
	info = svc.Current(ctx, "Oslo")
	if info.Condition != models.WeatherCold {
		t.Fatalf("unexpected cached classification: %+v", info)
	}
	if n := atomic.LoadInt64(&calls); n != 1 {
		t.Fatalf("expected 1 provider call, got %d", n)
	}

	entry := cache.entries["oslo"]
	if entry == nil {
		t.Fatalf("expected lowercase cache entry for oslo")
	}
	if ttl := time.Until(entry.ExpiresAt); ttl < 25*time.Minute || ttl > 31*time.Minute {
		t.Fatalf("unexpected cache TTL: %v", ttl)
	}
}

func TestCurrentExpiredEntryRefetches(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main":{"temp":35},"weather":[{"main":"Clear"}]}`))
	}))
	defer srv.Close()

	cache := newFakeWeatherRepo()
	cache.entries["oslo"] = &models.WeatherCacheEntry{
		City: "oslo", Temperature: 4, Condition: models.WeatherCold,
		LastUpdated: time.Now().Add(-2 * time.Hour),
		ExpiresAt:   time.Now().Add(-90 * time.Minute),
	}
	svc := NewWeatherService(cache, nil)
	svc.BaseURL = srv.URL

	info := svc.Current(ctx, "Oslo")
	if info.Condition != models.WeatherHot {
		t.Fatalf("expired entry was served: %+v", info)
	}
}

func TestCurrentProviderFailureFallsBack(t *testing.T) {
	ctx := context.Background()

	svc := NewWeatherService(newFakeWeatherRepo(), nil)
	svc.BaseURL = "http://127.0.0.1:1"
	svc.Client = &http.Client{Timeout: 100 * time.Millisecond}

	info := svc.Current(ctx, "Oslo")
	if info.Temperature != 20 || info.Condition != models.WeatherNormal {
		t.Fatalf("expected {20, normal} fallback, got %+v", info)
	}
}

func TestCurrentProviderErrorStatusFallsBack(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "city not found", http.StatusNotFound)
	}))
	defer srv.Close()

	cache := newFakeWeatherRepo()
	svc := NewWeatherService(cache, nil)
	svc.BaseURL = srv.URL

	info := svc.Current(ctx, "Atlantis")
	if info.Temperature != 20 || info.Condition != models.WeatherNormal {
		t.Fatalf("expected {20, normal} fallback, got %+v", info)
	}
	// Failures are never cached.
	if len(cache.entries) != 0 {
		t.Fatalf("fallback result was cached: %+v", cache.entries)
	}
}

func TestCurrentEmptyCity(t *testing.T) {
	svc := NewWeatherService(newFakeWeatherRepo(), nil)
	info := svc.Current(context.Background(), "")
	if info.Temperature != 20 || info.Condition != models.WeatherNormal {
		t.Fatalf("expected neutral default for empty city, got %+v", info)
	}
}

func TestWeatherDiscountTable(t *testing.T) {
	svc := NewWeatherService(newFakeWeatherRepo(), nil)

	cases := []struct {
		condition string
		category  string
		want      float64
	}{
		{models.WeatherCold, models.CategorySoup, 15},
		{models.WeatherCold, models.CategoryHotDrinks, 15},
		{models.WeatherCold, models.CategoryDessert, 10},
		{models.WeatherCold, models.CategoryIceCream, 0},
		{models.WeatherHot, models.CategoryColdDrinks, 10},
		{models.WeatherHot, models.CategoryIceCream, 15},
		{models.WeatherHot, models.CategorySalad, 10},
		{models.WeatherHot, models.CategorySoup, 0},
		{models.WeatherNormal, models.CategorySoup, 0},
	}
	for _, tc := range cases {
		if got := svc.DiscountFor(tc.condition, tc.category); got != tc.want {
			t.Fatalf("DiscountFor(%s, %s) = %.1f, want %.1f", tc.condition, tc.category, got, tc.want)
		}
	}
}
