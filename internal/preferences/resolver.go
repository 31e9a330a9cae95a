// Package preferences implements the Preference Resolver (C3): it
// normalizes raw request preferences into the typed Preferences record C4
// through C7 operate on, resolving opaque transport identifiers to
// canonical mode tags via the Catalog Gateway.
package preferences

import (
	"context"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/exotic-travel-booking/itinerary-engine/internal/catalog"
	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

var canonicalModes = map[string]struct{}{
	"walk": {}, "bike": {}, "scooter": {}, "taxi": {}, "bus": {}, "metro": {}, "car": {},
}

var transportIDShape = regexp.MustCompile(`^[Tt]\d+$`)

var tracer = otel.Tracer("preferences.resolver")

// Resolve normalizes raw preference sets into a Preferences record (§4.3).
// The resolver is pure apart from its Gateway dependency (used only for
// transport-identifier lookups).
func Resolve(ctx context.Context, gw catalog.Gateway, raw models.RawPreferences) (models.Preferences, error) {
	ctx, span := tracer.Start(ctx, "preferences.resolve")
	defer span.End()

	prefs := models.Preferences{
		Hotels:      disjoint(models.NewIDSet(raw.LikedHotels), models.NewIDSet(raw.DislikedHotels)),
		Restaurants: disjoint(models.NewIDSet(raw.LikedRestaurants), models.NewIDSet(raw.DislikedRestaurants)),
		Activities:  disjoint(models.NewIDSet(raw.LikedActivities), models.NewIDSet(raw.DislikedActivities)),
	}

	likedModes, err := resolveModes(ctx, gw, raw.LikedTransportModes)
	if err != nil {
		return models.Preferences{}, err
	}
	dislikedModes, err := resolveModes(ctx, gw, raw.DislikedTransportModes)
	if err != nil {
		return models.Preferences{}, err
	}
	prefs.Transports = disjoint(likedModes, dislikedModes)

	span.SetAttributes(
		attribute.Int("preferences.liked_transport_modes", len(prefs.Transports.Liked)),
		attribute.Int("preferences.disliked_transport_modes", len(prefs.Transports.Disliked)),
	)

	return prefs, nil
}

// disjoint enforces liked ∩ disliked = ∅, with liked winning on conflict
// (spec §4.3 invariant; PreferenceConflict is non-fatal per §7).
func disjoint(liked, disliked models.IDSet) models.CategoryPreference {
	cleaned := make(models.IDSet, len(disliked))
	for id := range disliked {
		if liked.Has(id) {
			continue
		}
		cleaned[id] = struct{}{}
	}
	return models.CategoryPreference{Liked: liked, Disliked: cleaned}
}

// resolveModes maps each raw transport entry to a canonical mode tag.
func resolveModes(ctx context.Context, gw catalog.Gateway, entries []string) (models.IDSet, error) {
	modes := make(models.IDSet, len(entries))
	for _, entry := range entries {
		mode, err := resolveMode(ctx, gw, entry)
		if err != nil {
			return nil, err
		}
		modes[mode] = struct{}{}
	}
	return modes, nil
}

// resolveMode applies the detection rule from §4.3: an entry matching a
// known mode tag is kept as-is; a walking variant maps to "walk"; a
// transport-identifier-shaped entry ("T" + digits) is resolved via the
// gateway; anything else falls back to "taxi".
func resolveMode(ctx context.Context, gw catalog.Gateway, entry string) (string, error) {
	if entry == "" {
		return "taxi", nil
	}

	lower := strings.ToLower(strings.TrimSpace(entry))

	if _, ok := canonicalModes[lower]; ok {
		return lower, nil
	}

	if strings.Contains(lower, "walk") || strings.Contains(lower, "foot") {
		return "walk", nil
	}

	if transportIDShape.MatchString(entry) {
		mode, err := gw.TransportModeOf(ctx, entry)
		if err != nil {
			if err == catalog.ErrNotFound {
				return "taxi", nil
			}
			return "", err
		}
		return mode, nil
	}

	return "taxi", nil
}
