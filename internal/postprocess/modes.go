package postprocess

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/exotic-travel-booking/itinerary-engine/internal/catalog"
	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

var tracer = otel.Tracer("postprocess.schedule")

var transportIDShape = regexp.MustCompile(`^[Tt]\d+$`)

// modeDisplayNames are the "mode display names" glossary row: used only to
// synthesize a transfer's place_name.
var modeDisplayNames = map[string]string{
	"walk":    "walking",
	"bike":    "bicycle",
	"scooter": "motorbike",
	"taxi":    "taxi",
	"bus":     "bus",
	"metro":   "metro",
}

func displayName(mode string) string {
	if name, ok := modeDisplayNames[mode]; ok {
		return name
	}
	if mode == "" {
		return "transfer"
	}
	return strings.ToUpper(mode[:1]) + mode[1:]
}

var canonicalModes = map[string]struct{}{
	"walk": {}, "bike": {}, "scooter": {}, "taxi": {}, "bus": {}, "metro": {}, "car": {},
}

func isCanonical(mode string) bool {
	_, ok := canonicalModes[mode]
	return ok
}

// enforceTransportModes applies Step A (§4.7) to every transfer item in
// order, rotating across the liked-modes list for variety. The liked set
// is sorted before rotation: IDSet.Slice() returns members in map order,
// and §4.7's "rotated deterministically" requires the same rotation on
// every call for the same preferences.
func enforceTransportModes(ctx context.Context, gw catalog.Gateway, items []models.ScheduleItem, prefs models.Preferences) {
	liked := prefs.Transports.Liked.Slice()
	sort.Strings(liked)
	rotation := 0

	for i := range items {
		item := &items[i]
		if item.Type != models.ItemTransfer {
			continue
		}

		switch {
		case len(liked) > 0:
			item.TransportMode = liked[rotation%len(liked)]
			rotation++
		case prefs.Transports.Disliked.Has(item.TransportMode):
			item.TransportMode = fallbackForDisliked(prefs)
		case transportIDShape.MatchString(item.TransportMode):
			if resolved, err := gw.TransportModeOf(ctx, item.TransportMode); err == nil {
				item.TransportMode = resolved
			} else {
				item.TransportMode = "taxi"
			}
		case item.TransportMode == "" || !isCanonical(item.TransportMode):
			item.TransportMode = "taxi"
		}
	}
}

// fallbackForDisliked implements rule 2's nested fallback: taxi unless
// taxi itself is disliked and nothing is liked, in which case bus.
func fallbackForDisliked(prefs models.Preferences) string {
	if prefs.Transports.Disliked.Has("taxi") {
		return "bus"
	}
	return "taxi"
}

// fillPlaceNames applies Step B: any transfer lacking a place_name gets
// one synthesized from its transport mode's display label.
func fillPlaceNames(items []models.ScheduleItem) {
	for i := range items {
		item := &items[i]
		if item.Type == models.ItemTransfer && item.PlaceName == "" {
			item.PlaceName = displayName(item.TransportMode)
		}
	}
}
