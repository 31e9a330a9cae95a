package llmplanner

import (
	"errors"
	"fmt"
	"sort"

	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

// errEmptyChoices and errMalformedResponse are the two OracleError causes
// (§7) that ErrorFallback can report on a Tour's error note when the
// oracle call itself succeeded but its payload was unusable.
var (
	errEmptyChoices      = errors.New("oracle returned no choices")
	errMalformedResponse = errors.New("failed to parse oracle response")
)

// preferredMode picks the fallback transfer mode per §4.6: the first
// liked mode (in sorted order, so the pick is deterministic regardless of
// IDSet's map-backed iteration) if any; else bus if taxi is disliked;
// else taxi.
func preferredMode(prefs models.Preferences) string {
	if liked := prefs.Transports.Liked.Slice(); len(liked) > 0 {
		sort.Strings(liked)
		return liked[0]
	}
	if prefs.Transports.Disliked.Has("taxi") {
		return "bus"
	}
	return "taxi"
}

// Fallback builds the deterministic duration_days-long skeleton named in
// §4.6: one transfer placeholder per day using the preferred mode.
// distance_km and travel_time_min are left nil so C7's geo enrichment
// step fills them from the chosen mode's default distance.
func Fallback(destination string, guests, durationDays int, targetBudget float64, prefs models.Preferences) *Draft {
	mode := preferredMode(prefs)

	days := make([]DayDraft, durationDays)
	for d := 0; d < durationDays; d++ {
		days[d] = DayDraft{Day: d + 1, Activities: buildFallbackDay(mode)}
	}

	return &Draft{
		Destination:  destination,
		Guests:       guests,
		DurationDays: durationDays,
		WithinBudget: true,
		TotalCost:    0,
		Days:         days,
	}
}

// ErrorFallback is the same shape as Fallback plus an embedded error
// note, used when the oracle call fails or returns an unusable payload
// (§4.6 contract), and by the Planner Facade for non-fatal C3/C5 failures.
func ErrorFallback(destination string, guests, durationDays int, targetBudget float64, prefs models.Preferences, cause error) *Draft {
	draft := Fallback(destination, guests, durationDays, targetBudget, prefs)
	draft.ErrorNote = fmt.Sprintf("using fallback schedule: %v", cause)
	return draft
}

// buildFallbackDay builds the single transfer placeholder named in §4.6:
// one "transfer" activity to the day's first stop, carrying the
// preferred mode. distance_km, travel_time_min, and cost are left unset;
// C7 fills them (it prices a neighborless transfer off the mode's
// default distance rather than skipping it).
func buildFallbackDay(mode string) []ActivityDraft {
	return []ActivityDraft{
		{
			StartTime:     "09:00",
			EndTime:       "09:30",
			Type:          string(models.ItemTransfer),
			PlaceName:     fmt.Sprintf("%s to first stop", mode),
			Description:   fmt.Sprintf("fallback transfer to the day's first stop by %s", mode),
			TransportMode: mode,
		},
	}
}
