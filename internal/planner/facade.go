// Package planner implements the Planner Facade (C8): the single
// orchestration entry point for a planning call, wiring together the
// Catalog Gateway, Preference Resolver, Similarity Engine, Candidate
// Selector, LLM Planner Adapter, and Schedule Post-Processor in the
// order fixed by §4.8.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/exotic-travel-booking/itinerary-engine/internal/catalog"
	"github.com/exotic-travel-booking/itinerary-engine/internal/llmplanner"
	"github.com/exotic-travel-booking/itinerary-engine/internal/metrics"
	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
	"github.com/exotic-travel-booking/itinerary-engine/internal/postprocess"
	"github.com/exotic-travel-booking/itinerary-engine/internal/preferences"
	"github.com/exotic-travel-booking/itinerary-engine/internal/selector"
	"github.com/exotic-travel-booking/itinerary-engine/internal/similarity"
)

// candidatePoolLimit bounds how many places of each variant are pulled
// from the catalog before the Candidate Selector narrows them down.
const candidatePoolLimit = 50

// neighborPoolSize is how many historical tours feed the Similarity
// Engine's imputation and ranking (§4.4).
const neighborPoolSize = 5

// regressionSampleLimit bounds how many catalog-wide historical tours
// feed the budget regression fallback and the last-resort seed fallback
// (§4.4: "over the full catalog of historical tours").
const regressionSampleLimit = 500

// Facade is the Planner Facade (C8).
type Facade struct {
	gateway  catalog.Gateway
	adapter  *llmplanner.Adapter
	collector *metrics.Collector
	tracer   trace.Tracer
}

// New builds a Planner Facade around the given Catalog Gateway and LLM
// Planner Adapter. collector may be nil (metrics become no-ops).
func New(gateway catalog.Gateway, adapter *llmplanner.Adapter, collector *metrics.Collector) *Facade {
	return &Facade{
		gateway:   gateway,
		adapter:   adapter,
		collector: collector,
		tracer:    otel.Tracer("planner.facade"),
	}
}

// Plan runs one planning call end-to-end per §4.8's eight steps and
// returns the assembled Tour. Any error from the step-1 reads
// (destination name, tour count, start city other than not-found) and
// any ErrCatalogUnavailable is returned as an error; other failures in
// C3 or C5 degrade into an error-flavored Tour.
func (f *Facade) Plan(ctx context.Context, req *models.TourRequest) (*models.Tour, error) {
	started := time.Now()
	ctx, span := f.tracer.Start(ctx, "planner.plan")
	defer span.End()
	span.SetAttributes(attribute.Int("planner.destination_city_id", req.DestinationCityID))

	tour, err := f.plan(ctx, req)

	f.recordOutcome(started, err)
	return tour, err
}

func (f *Facade) plan(ctx context.Context, req *models.TourRequest) (*models.Tour, error) {
	// Step 1 & 3: resolve destination name, start city name, and tour
	// count concurrently — all are independent Catalog Gateway reads
	// (§5 suspension points).
	var destinationName, startCityName string
	var tourCount int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		name, err := f.gateway.CityName(gctx, req.DestinationCityID)
		if err != nil {
			return fmt.Errorf("%w: resolving destination name", err)
		}
		destinationName = name
		return nil
	})
	g.Go(func() error {
		count, err := f.gateway.TourCountForUser(gctx, req.UserID)
		if err != nil {
			return fmt.Errorf("%w: resolving tour count", err)
		}
		tourCount = count
		return nil
	})
	if req.StartCityID != nil {
		g.Go(func() error {
			name, err := f.gateway.CityName(gctx, *req.StartCityID)
			if err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					return nil
				}
				return fmt.Errorf("%w: resolving start city name", err)
			}
			startCityName = name
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, catalog.ErrCatalogUnavailable) {
			return nil, err
		}
		return nil, err
	}

	// Step 2: normalize preferences via C3.
	prefs, err := preferences.Resolve(ctx, f.gateway, req.RawPreferences)
	if err != nil {
		if errors.Is(err, catalog.ErrCatalogUnavailable) {
			return nil, err
		}
		return f.fallbackTour(ctx, req, destinationName, startCityName, prefs, err), nil
	}

	// Step 3 & 4: existing-user vs cold-start branch (§4.4 selection
	// policy). Fetch every historical option for the destination once,
	// regardless of user, and split it into the caller's own options
	// (existing-user branch) and everyone else's (cold-start neighbor
	// pool) — Score already excludes same-user pairs, so the split only
	// matters for which ranking the seed option comes from.
	destOptions, err := f.gateway.TourOptionsForDestination(ctx, req.DestinationCityID, "")
	if err != nil {
		if errors.Is(err, catalog.ErrCatalogUnavailable) {
			return nil, err
		}
		destOptions = nil
	}
	var ownOptions []*models.HistoricalTourOption
	for _, opt := range destOptions {
		if req.UserID != "" && opt.UserID == req.UserID {
			ownOptions = append(ownOptions, opt)
		}
	}

	neighbors := similarity.TopK(req, destOptions, neighborPoolSize)
	imputed := similarity.Impute(req, neighbors)

	if imputed.TargetBudget == nil {
		durationDays := 1
		if imputed.DurationDays != nil {
			durationDays = *imputed.DurationDays
		}
		guestCount := 1
		if imputed.GuestCount != nil {
			guestCount = *imputed.GuestCount
		}
		// §4.4: the regression fallback fits over the full catalog of
		// historical tours, not just this destination's.
		catalogWide, err := f.gateway.AnyTourOptions(ctx, regressionSampleLimit)
		if err != nil && errors.Is(err, catalog.ErrCatalogUnavailable) {
			return nil, err
		}
		estimated := similarity.EstimateBudget(catalogWide, durationDays, guestCount)
		imputed.TargetBudget = &estimated
	}

	var catalogWideOptions []*models.HistoricalTourOption
	if len(ownOptions) == 0 && len(neighbors) == 0 && len(destOptions) == 0 {
		catalogWideOptions, err = f.gateway.AnyTourOptions(ctx, regressionSampleLimit)
		if err != nil && errors.Is(err, catalog.ErrCatalogUnavailable) {
			return nil, err
		}
	}
	seed, _ := similarity.SelectSeed(imputed, tourCount, ownOptions, neighbors, destOptions, catalogWideOptions)
	if seed != nil {
		prefs = similarity.SeedPreferences(seed, prefs)
	}

	// Step 5: request candidate pools via C5.
	var hotels, restaurants, activities []*models.Place
	g2, gctx2 := errgroup.WithContext(ctx)
	g2.Go(func() error {
		places, err := f.gateway.PlacesByCity(gctx2, imputed.DestinationCityID, models.VariantHotel, candidatePoolLimit)
		hotels = places
		return wrapCatalogErr(err)
	})
	g2.Go(func() error {
		places, err := f.gateway.PlacesByCity(gctx2, imputed.DestinationCityID, models.VariantRestaurant, candidatePoolLimit)
		restaurants = places
		return wrapCatalogErr(err)
	})
	g2.Go(func() error {
		places, err := f.gateway.PlacesByCity(gctx2, imputed.DestinationCityID, models.VariantActivity, candidatePoolLimit)
		activities = places
		return wrapCatalogErr(err)
	})
	if err := g2.Wait(); err != nil {
		if errors.Is(err, catalog.ErrCatalogUnavailable) {
			return nil, err
		}
		return f.fallbackTour(ctx, imputed, destinationName, startCityName, prefs, err), nil
	}

	pools := selector.Select(imputed, prefs, hotels, restaurants, activities)

	// Step 6: build and run the LLM call via C6. The adapter itself never
	// errors — a failed or malformed oracle call degrades to its own
	// internal fallback draft.
	draft := f.adapter.Plan(ctx, destinationName, imputed, prefs, pools)
	if f.collector != nil {
		f.collector.RecordOracleOutcome(draft.ErrorNote != "", draft.ErrorNote != "")
	}

	// Step 7: post-process via C7.
	days, breakdown, total, withinBudget := postprocess.Process(ctx, f.gateway, draft.ToDaySchedules(), prefs, *imputed.TargetBudget, f.collector)

	// Step 8: assemble the final Tour.
	tour := assembleTour(imputed, destinationName, startCityName, days, breakdown, total, withinBudget)
	if draft.ErrorNote != "" {
		tour.Error = draft.ErrorNote
	}
	return tour, nil
}

func wrapCatalogErr(err error) error {
	if err == nil {
		return nil
	}
	return err
}

// fallbackTour builds an error-flavored Tour using C6's deterministic
// fallback schedule directly, for non-fatal failures in C3 or C5 (§7).
func (f *Facade) fallbackTour(ctx context.Context, req *models.TourRequest, destinationName, startCityName string, prefs models.Preferences, cause error) *models.Tour {
	log.Printf("planner: non-fatal error, using fallback schedule: %v", cause)

	durationDays := 1
	if req.DurationDays != nil {
		durationDays = *req.DurationDays
	}
	guestCount := 1
	if req.GuestCount != nil {
		guestCount = *req.GuestCount
	}
	budget := 0.0
	if req.TargetBudget != nil {
		budget = *req.TargetBudget
	}

	draft := llmplanner.ErrorFallback(destinationName, guestCount, durationDays, budget, prefs, cause)
	days, breakdown, total, withinBudget := postprocess.Process(ctx, f.gateway, draft.ToDaySchedules(), prefs, budget, f.collector)

	tour := assembleTour(req, destinationName, startCityName, days, breakdown, total, withinBudget)
	tour.Error = draft.ErrorNote
	return tour
}

func assembleTour(req *models.TourRequest, destinationName, startCityName string, days []models.DaySchedule, breakdown models.CostBreakdown, total float64, withinBudget bool) *models.Tour {
	durationDays := 1
	if req.DurationDays != nil {
		durationDays = *req.DurationDays
	}
	guestCount := 1
	if req.GuestCount != nil {
		guestCount = *req.GuestCount
	}
	budget := 0.0
	if req.TargetBudget != nil {
		budget = *req.TargetBudget
	}

	costPerPerson := 0.0
	if guestCount > 0 {
		costPerPerson = total / float64(guestCount)
	}
	budgetUtilizedPct := 0.0
	if budget > 0 {
		budgetUtilizedPct = total / budget * 100
	}

	return &models.Tour{
		TourID:             uuid.NewString(),
		UserID:             req.UserID,
		StartCity:          startCityName,
		DestinationCity:    destinationName,
		DurationDays:       durationDays,
		GuestCount:         guestCount,
		Budget:             budget,
		TotalEstimatedCost: total,
		WithinBudget:       withinBudget,
		CostBreakdown:      breakdown,
		Days:               days,
		CostPerPerson:      costPerPerson,
		BudgetUtilizedPct:  budgetUtilizedPct,
	}
}

func (f *Facade) recordOutcome(started time.Time, err error) {
	if f.collector == nil {
		return
	}
	f.collector.RecordPlanningCall(time.Since(started), err != nil)
}
