package postprocess

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/exotic-travel-booking/itinerary-engine/internal/catalog"
	"github.com/exotic-travel-booking/itinerary-engine/internal/geo"
	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

// parseHHMM parses a 24h HH:MM string into minutes since midnight.
func parseHHMM(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func formatHHMM(minutes int) string {
	minutes = ((minutes % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func placeVariantForType(t models.ScheduleItemType) (models.PlaceVariant, bool) {
	switch t {
	case models.ItemHotel:
		return models.VariantHotel, true
	case models.ItemMeal:
		return models.VariantRestaurant, true
	case models.ItemActivity:
		return models.VariantActivity, true
	default:
		return "", false
	}
}

func coordsFor(ctx context.Context, gw catalog.Gateway, item models.ScheduleItem) (lat, lon float64, ok bool) {
	if item.PlaceID == "" {
		return 0, 0, false
	}
	variant, known := placeVariantForType(item.Type)
	if !known {
		return 0, 0, false
	}
	lat, lon, ok, err := gw.PlaceCoords(ctx, variant, item.PlaceID)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, ok
}

// enrichGeo applies Step C (§4.7): for every transfer between two
// non-transfer items, compute distance/time/cost from real coordinates
// when both endpoints have them, else fall back to a mode-based default
// distance. A transfer missing one or both neighbors (a fallback day's
// lone placeholder) still gets priced off the default distance — it's
// never left stale, including after Step A changes its mode.
func enrichGeo(ctx context.Context, gw catalog.Gateway, items []models.ScheduleItem) {
	for i := range items {
		if items[i].Type != models.ItemTransfer {
			continue
		}

		var prev, next *models.ScheduleItem
		if i > 0 {
			prev = &items[i-1]
		}
		if i+1 < len(items) {
			next = &items[i+1]
		}

		transfer := &items[i]
		startMin, hasStart := parseHHMM(transfer.StartTime)
		rushHour := hasStart && geo.IsRushHour(startMin/60)

		var distanceKm float64
		var prevOK, nextOK bool
		var prevLat, prevLon, nextLat, nextLon float64
		if prev != nil {
			prevLat, prevLon, prevOK = coordsFor(ctx, gw, *prev)
		}
		if next != nil {
			nextLat, nextLon, nextOK = coordsFor(ctx, gw, *next)
		}

		if prevOK && nextOK {
			distanceKm = geo.Haversine(prevLat, prevLon, nextLat, nextLon)
		} else {
			distanceKm = geo.DefaultDistanceKm(transfer.TransportMode)
		}

		travelTime := geo.TravelTimeMin(distanceKm, transfer.TransportMode, rushHour)
		cost := geo.TransportCost(distanceKm, transfer.TransportMode)

		transfer.DistanceKm = &distanceKm
		transfer.TravelTimeMin = &travelTime
		transfer.Cost = cost

		if hasStart {
			transfer.EndTime = formatHHMM(startMin + int(travelTime))
		}
	}
}
