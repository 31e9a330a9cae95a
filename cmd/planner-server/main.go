// Command planner-server wires the itinerary planning engine's
// components together and exposes a single demo HTTP endpoint for
// exercising it end-to-end. Request routing, auth, and admin dashboards
// are out of scope; this is the thinnest possible wiring, not a routed
// API.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/exotic-travel-booking/itinerary-engine/internal/cache"
	"github.com/exotic-travel-booking/itinerary-engine/internal/catalog"
	"github.com/exotic-travel-booking/itinerary-engine/internal/config"
	"github.com/exotic-travel-booking/itinerary-engine/internal/llm/providers"
	"github.com/exotic-travel-booking/itinerary-engine/internal/llmplanner"
	"github.com/exotic-travel-booking/itinerary-engine/internal/metrics"
	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
	"github.com/exotic-travel-booking/itinerary-engine/internal/planner"
	"github.com/exotic-travel-booking/itinerary-engine/pkg/database"
	"github.com/exotic-travel-booking/itinerary-engine/pkg/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownTracing, err := observability.InitTracing("itinerary-engine", cfg.Environment)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer shutdownTracing()

	pool, err := database.NewPoolFromDSN(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime)
	if err != nil {
		log.Fatalf("failed to open catalog database: %v", err)
	}
	defer pool.Close()

	var catalogCache *cache.CatalogCache
	redisCache, err := cache.NewCacheFromAddr(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("catalog cache unavailable, continuing without it: %v", err)
	} else {
		defer redisCache.Close()
		catalogCache = cache.NewCatalogCache(redisCache)
	}

	gateway := catalog.NewPostgresGateway(pool, catalogCache)

	provider, err := providers.NewOpenAIProvider(&providers.LLMConfig{
		Provider: cfg.Oracle.Provider,
		APIKey:   cfg.Oracle.APIKey,
		BaseURL:  cfg.Oracle.BaseURL,
		Model:    cfg.Oracle.Model,
		Timeout:  cfg.Oracle.Timeout,
	})
	if err != nil {
		log.Fatalf("failed to build oracle provider: %v", err)
	}
	defer provider.Close()

	bounded := providers.NewBounded(provider, cfg.Oracle.RatePerSec, cfg.Oracle.Burst)
	adapter := llmplanner.NewAdapter(bounded, cfg.Oracle.Model)

	collector := metrics.NewCollector()
	facade := planner.New(gateway, adapter, collector)

	mux := http.NewServeMux()
	mux.Handle("/plan", planHandler(facade, cfg.OuterDeadline))
	mux.Handle("/healthz", healthHandler(pool))
	mux.Handle("/metrics/snapshot", snapshotHandler(collector))

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.OuterDeadline + 15*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("planner-server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down planner-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// planRequest is the JSON wire shape accepted by /plan. Unset optional
// fields are left nil so the Similarity Engine knows to impute them.
type planRequest struct {
	UserID             string   `json:"user_id"`
	DestinationCityID  int      `json:"destination_city_id"`
	StartCityID        *int     `json:"start_city_id,omitempty"`
	GuestCount         *int     `json:"guest_count,omitempty"`
	DurationDays       *int     `json:"duration_days,omitempty"`
	TargetBudget       *float64 `json:"target_budget,omitempty"`

	LikedHotels            []string `json:"liked_hotels,omitempty"`
	DislikedHotels         []string `json:"disliked_hotels,omitempty"`
	LikedRestaurants       []string `json:"liked_restaurants,omitempty"`
	DislikedRestaurants    []string `json:"disliked_restaurants,omitempty"`
	LikedActivities        []string `json:"liked_activities,omitempty"`
	DislikedActivities     []string `json:"disliked_activities,omitempty"`
	LikedTransportModes    []string `json:"liked_transport_modes,omitempty"`
	DislikedTransportModes []string `json:"disliked_transport_modes,omitempty"`
}

func (r planRequest) toTourRequest() *models.TourRequest {
	return &models.TourRequest{
		UserID:             r.UserID,
		DestinationCityID:  r.DestinationCityID,
		StartCityID:        r.StartCityID,
		GuestCount:         r.GuestCount,
		DurationDays:       r.DurationDays,
		TargetBudget:       r.TargetBudget,
		RawPreferences: models.RawPreferences{
			LikedHotels:            r.LikedHotels,
			DislikedHotels:         r.DislikedHotels,
			LikedRestaurants:       r.LikedRestaurants,
			DislikedRestaurants:    r.DislikedRestaurants,
			LikedActivities:        r.LikedActivities,
			DislikedActivities:     r.DislikedActivities,
			LikedTransportModes:    r.LikedTransportModes,
			DislikedTransportModes: r.DislikedTransportModes,
		},
	}
}

func planHandler(facade *planner.Facade, outerDeadline time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req planRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), outerDeadline)
		defer cancel()

		tour, err := facade.Plan(ctx, req.toTourRequest())
		if err != nil {
			http.Error(w, "planning engine unavailable: "+err.Error(), http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if encErr := json.NewEncoder(w).Encode(tour); encErr != nil {
			log.Printf("failed to encode tour response: %v", encErr)
		}
	}
}

func healthHandler(pool *database.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.HealthCheck(ctx); err != nil {
			http.Error(w, "unhealthy: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func snapshotHandler(collector *metrics.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(collector.Snapshot()); err != nil {
			log.Printf("failed to encode metrics snapshot: %v", err)
		}
	}
}
