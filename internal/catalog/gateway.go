// Package catalog implements the Catalog Gateway (C1): read-only access to
// the travel catalog (cities, places, transport modes, tour history). All
// write paths belong to an external admin surface and are out of scope
// here.
package catalog

import (
	"context"
	"errors"

	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

// ErrNotFound is returned when a city, place, or transport identifier has
// no matching catalog row.
var ErrNotFound = errors.New("catalog: not found")

// ErrCatalogUnavailable wraps any backing-store failure. Callers in the
// Planner Facade treat this as fatal for the call (spec §7).
var ErrCatalogUnavailable = errors.New("catalog: unavailable")

// Gateway is the read-only contract the engine needs from the travel
// catalog (spec §4.1). Implementations must be side-effect-free and
// idempotent.
type Gateway interface {
	// CityName resolves a city's display name. Returns ErrNotFound if
	// the city does not exist.
	CityName(ctx context.Context, cityID int) (string, error)

	// PlacesByCity returns up to limit places of the given variant in a
	// city, ordered by rating descending.
	PlacesByCity(ctx context.Context, cityID int, variant models.PlaceVariant, limit int) ([]*models.Place, error)

	// PlaceCoords returns a place's coordinates. ok is false if
	// coordinates are not recorded for this place (callers
	// fall back to mode-based default distances, not an error).
	PlaceCoords(ctx context.Context, variant models.PlaceVariant, placeID string) (lat, lon float64, ok bool, err error)

	// TransportModeOf resolves a transport entity's canonical mode tag.
	// Returns ErrNotFound if the transport id does not exist.
	TransportModeOf(ctx context.Context, transportID string) (string, error)

	// TourOptionsForDestination returns prior planned tours for a
	// destination, optionally excluding one user's own history (used
	// when building neighbor pools for someone other than themself).
	TourOptionsForDestination(ctx context.Context, destinationCityID int, excludeUserID string) ([]*models.HistoricalTourOption, error)

	// TourCountForUser returns how many historical tours a user has,
	// used by the Planner Facade to pick the existing-user vs
	// cold-start branch.
	TourCountForUser(ctx context.Context, userID string) (int, error)

	// AnyTourOptions returns up to limit historical tours regardless of
	// destination, used as the last-resort seed fallback (§4.4: "fall
	// back to any option catalog-wide") and as the sample for the
	// budget regression fallback (§4.4, §9).
	AnyTourOptions(ctx context.Context, limit int) ([]*models.HistoricalTourOption, error)
}
