package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/exotic-travel-booking/itinerary-engine/internal/cache"
	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
	"github.com/exotic-travel-booking/itinerary-engine/pkg/database"
)

// postgresGateway is the Postgres-backed Gateway implementation, adapted
// from the booking backend's destination repository: cache-first reads
// that fall through to the database and populate the cache afterward.
type postgresGateway struct {
	db     *database.Pool
	cache  *cache.CatalogCache
	tracer trace.Tracer
}

// NewPostgresGateway creates a Gateway backed by db, optionally read
// through catalogCache (pass nil to disable caching).
func NewPostgresGateway(db *database.Pool, catalogCache *cache.CatalogCache) Gateway {
	return &postgresGateway{
		db:     db,
		cache:  catalogCache,
		tracer: otel.Tracer("catalog.postgres"),
	}
}

func (g *postgresGateway) CityName(ctx context.Context, cityID int) (string, error) {
	ctx, span := g.tracer.Start(ctx, "catalog.city_name")
	defer span.End()
	span.SetAttributes(attribute.Int("catalog.city_id", cityID))

	idStr := strconv.Itoa(cityID)

	if g.cache != nil {
		if name, err := g.cache.GetCityName(ctx, idStr); err == nil {
			return name, nil
		}
	}

	var name string
	err := g.db.QueryRowContext(ctx, `SELECT name FROM cities WHERE id = $1`, cityID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	if g.cache != nil {
		if cacheErr := g.cache.CacheCityName(ctx, idStr, name); cacheErr != nil {
			fmt.Printf("failed to cache city name %d: %v\n", cityID, cacheErr)
		}
	}

	return name, nil
}

func (g *postgresGateway) PlacesByCity(ctx context.Context, cityID int, variant models.PlaceVariant, limit int) ([]*models.Place, error) {
	ctx, span := g.tracer.Start(ctx, "catalog.places_by_city")
	defer span.End()
	span.SetAttributes(
		attribute.Int("catalog.city_id", cityID),
		attribute.String("catalog.variant", string(variant)),
		attribute.Int("catalog.limit", limit),
	)

	query := `
		SELECT id, name, rating, lat, lon, description,
		       price_per_night, price_avg, cuisine_type,
		       price, duration_hr, type,
		       avg_price_per_km, min_price, max_capacity, mode_tag
		FROM places
		WHERE city_id = $1 AND variant = $2
		ORDER BY rating DESC
		LIMIT $3`

	rows, err := g.db.QueryContext(ctx, query, cityID, string(variant), limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var places []*models.Place
	for rows.Next() {
		place := &models.Place{CityID: cityID, Variant: variant}
		var lat, lon sql.NullFloat64
		var description sql.NullString
		var pricePerNight, priceAvg, price, durationHr, avgPricePerKm, minPrice sql.NullFloat64
		var cuisineType, activityType, modeTag sql.NullString
		var maxCapacity sql.NullInt64

		if err := rows.Scan(
			&place.ID, &place.Name, &place.Rating, &lat, &lon, &description,
			&pricePerNight, &priceAvg, &cuisineType,
			&price, &durationHr, &activityType,
			&avgPricePerKm, &minPrice, &maxCapacity, &modeTag,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("%w: failed to scan place: %v", ErrCatalogUnavailable, err)
		}

		if lat.Valid && lon.Valid {
			latVal, lonVal := lat.Float64, lon.Float64
			place.Lat, place.Lon = &latVal, &lonVal
		}
		place.Description = description.String

		switch variant {
		case models.VariantHotel:
			place.Hotel = &models.HotelDetails{PricePerNight: pricePerNight.Float64}
		case models.VariantRestaurant:
			place.Restaurant = &models.RestaurantDetails{PriceAvg: priceAvg.Float64, CuisineType: cuisineType.String}
		case models.VariantActivity:
			place.Activity = &models.ActivityDetails{Price: price.Float64, DurationHr: durationHr.Float64, Type: activityType.String}
		case models.VariantTransport:
			place.Transport = &models.TransportDetails{
				AvgPricePerKm: avgPricePerKm.Float64,
				MinPrice:      minPrice.Float64,
				MaxCapacity:   int(maxCapacity.Int64),
				ModeTag:       modeTag.String,
			}
		}

		places = append(places, place)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	return places, nil
}

func (g *postgresGateway) PlaceCoords(ctx context.Context, variant models.PlaceVariant, placeID string) (float64, float64, bool, error) {
	ctx, span := g.tracer.Start(ctx, "catalog.place_coords")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.variant", string(variant)), attribute.String("catalog.place_id", placeID))

	if g.cache != nil {
		if coords, err := g.cache.GetPlaceCoords(ctx, string(variant), placeID); err == nil {
			return coords.Lat, coords.Lon, true, nil
		}
	}

	var lat, lon sql.NullFloat64
	err := g.db.QueryRowContext(ctx,
		`SELECT lat, lon FROM places WHERE id = $1 AND variant = $2`, placeID, string(variant),
	).Scan(&lat, &lon)
	if err == sql.ErrNoRows {
		return 0, 0, false, nil
	}
	if err != nil {
		span.RecordError(err)
		return 0, 0, false, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if !lat.Valid || !lon.Valid {
		return 0, 0, false, nil
	}

	if g.cache != nil {
		if cacheErr := g.cache.CachePlaceCoords(ctx, string(variant), placeID, cache.Coords{Lat: lat.Float64, Lon: lon.Float64}); cacheErr != nil {
			fmt.Printf("failed to cache coords for %s %s: %v\n", variant, placeID, cacheErr)
		}
	}

	return lat.Float64, lon.Float64, true, nil
}

func (g *postgresGateway) TransportModeOf(ctx context.Context, transportID string) (string, error) {
	ctx, span := g.tracer.Start(ctx, "catalog.transport_mode_of")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.transport_id", transportID))

	if g.cache != nil {
		if mode, err := g.cache.GetTransportMode(ctx, transportID); err == nil {
			return mode, nil
		}
	}

	var mode string
	err := g.db.QueryRowContext(ctx,
		`SELECT mode_tag FROM places WHERE id = $1 AND variant = $2`, transportID, string(models.VariantTransport),
	).Scan(&mode)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	if g.cache != nil {
		if cacheErr := g.cache.CacheTransportMode(ctx, transportID, mode); cacheErr != nil {
			fmt.Printf("failed to cache transport mode for %s: %v\n", transportID, cacheErr)
		}
	}

	return mode, nil
}

func (g *postgresGateway) TourOptionsForDestination(ctx context.Context, destinationCityID int, excludeUserID string) ([]*models.HistoricalTourOption, error) {
	ctx, span := g.tracer.Start(ctx, "catalog.tour_options_for_destination")
	defer span.End()
	span.SetAttributes(attribute.Int("catalog.destination_city_id", destinationCityID))

	query := `
		SELECT user_id, destination_city_id, guest_count, duration_days, target_budget, rating,
		       hotel_ids, activity_ids, restaurant_ids, transport_ids
		FROM tour_history
		WHERE destination_city_id = $1`
	args := []interface{}{destinationCityID}

	if excludeUserID != "" {
		query += " AND user_id != $2"
		args = append(args, excludeUserID)
	}

	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var options []*models.HistoricalTourOption
	for rows.Next() {
		opt := &models.HistoricalTourOption{}
		if err := rows.Scan(
			&opt.UserID, &opt.DestinationCityID, &opt.GuestCount, &opt.DurationDays, &opt.TargetBudget, &opt.Rating,
			pq.Array(&opt.HotelIDs), pq.Array(&opt.ActivityIDs), pq.Array(&opt.RestaurantIDs), pq.Array(&opt.TransportIDs),
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("%w: failed to scan tour option: %v", ErrCatalogUnavailable, err)
		}
		options = append(options, opt)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	return options, nil
}

func (g *postgresGateway) AnyTourOptions(ctx context.Context, limit int) ([]*models.HistoricalTourOption, error) {
	ctx, span := g.tracer.Start(ctx, "catalog.any_tour_options")
	defer span.End()
	span.SetAttributes(attribute.Int("catalog.limit", limit))

	query := `
		SELECT user_id, destination_city_id, guest_count, duration_days, target_budget, rating,
		       hotel_ids, activity_ids, restaurant_ids, transport_ids
		FROM tour_history
		ORDER BY id DESC
		LIMIT $1`

	rows, err := g.db.QueryContext(ctx, query, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var options []*models.HistoricalTourOption
	for rows.Next() {
		opt := &models.HistoricalTourOption{}
		if err := rows.Scan(
			&opt.UserID, &opt.DestinationCityID, &opt.GuestCount, &opt.DurationDays, &opt.TargetBudget, &opt.Rating,
			pq.Array(&opt.HotelIDs), pq.Array(&opt.ActivityIDs), pq.Array(&opt.RestaurantIDs), pq.Array(&opt.TransportIDs),
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("%w: failed to scan tour option: %v", ErrCatalogUnavailable, err)
		}
		options = append(options, opt)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	return options, nil
}

func (g *postgresGateway) TourCountForUser(ctx context.Context, userID string) (int, error) {
	ctx, span := g.tracer.Start(ctx, "catalog.tour_count_for_user")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.user_id", userID))

	var count int
	err := g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tour_history WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	return count, nil
}
