package llmplanner

import (
	"fmt"
	"strings"

	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
	"github.com/exotic-travel-booking/itinerary-engine/internal/selector"
)

// systemPrompt is the fixed instruction set (rules i-viii of §4.6). The
// oracle is asked to emit JSON only; the adapter still defends against a
// non-conforming response via Parse's fallback path.
const systemPrompt = `You are a travel itinerary planner. Given a destination, a budget, candidate places, and traveler preferences, produce a day-by-day schedule.

Rules:
(i) stay within the total budget
(ii) never use a disliked transport mode
(iii) always use liked transport modes when any are present
(iv) insert exactly one transfer item between every pair of consecutive non-transfer items
(v) leave distance_km and travel_time_min null for transfer items
(vi) times are 24h HH:MM, items in a day must not overlap
(vii) breakfast, lunch, and dinner fall in the canonical meal windows
(viii) respond with JSON only, matching this shape: {"destination": string, "guests": int, "duration_days": int, "within_budget": bool, "total_cost": number, "cost_breakdown": {"hotels": number, "activities": number, "meals": number, "transport_estimate": number}, "days": [{"day": int, "activities": [{"start_time": string, "end_time": string, "type": "activity"|"meal"|"hotel"|"transfer", "place_id": string, "place_name": string, "description": string, "transport_mode": string, "cost": number}]}]}`

// BuildPrompt composes the user-turn prompt: the resolved request, the
// three candidate pools, and the caller's preferences (§4.6).
func BuildPrompt(destination string, req *models.TourRequest, prefs models.Preferences, pools selector.Pools) string {
	var b strings.Builder

	durationDays := 1
	if req.DurationDays != nil {
		durationDays = *req.DurationDays
	}
	guests := 1
	if req.GuestCount != nil {
		guests = *req.GuestCount
	}
	budget := 0.0
	if req.TargetBudget != nil {
		budget = *req.TargetBudget
	}

	fmt.Fprintf(&b, "Destination: %s\nGuests: %d\nDuration: %d days\nTarget budget: %.2f\n\n", destination, guests, durationDays, budget)

	writePlaces(&b, "Hotels", pools.Hotels)
	writePlaces(&b, "Restaurants", pools.Restaurants)
	writePlaces(&b, "Activities", pools.Activities)

	fmt.Fprintf(&b, "\nPreferences:\n")
	writePreference(&b, "Hotels", prefs.Hotels)
	writePreference(&b, "Restaurants", prefs.Restaurants)
	writePreference(&b, "Activities", prefs.Activities)
	writePreference(&b, "Transport modes", prefs.Transports)

	return b.String()
}

func writePlaces(b *strings.Builder, label string, places []*models.Place) {
	fmt.Fprintf(b, "%s:\n", label)
	for _, p := range places {
		lat, lon := 0.0, 0.0
		if p.HasCoords() {
			lat, lon = *p.Lat, *p.Lon
		}
		fmt.Fprintf(b, "- id=%s name=%q price=%.2f rating=%.1f description=%q lat=%.5f lon=%.5f\n", p.ID, p.Name, p.NominalPrice(), p.Rating, p.Description, lat, lon)
	}
}

func writePreference(b *strings.Builder, label string, pref models.CategoryPreference) {
	fmt.Fprintf(b, "- %s liked=%v disliked=%v\n", label, pref.Liked.Slice(), pref.Disliked.Slice())
}

// SystemPrompt exposes the fixed instruction set for callers that need to
// send it as a separate system-role message (e.g. the OpenAI provider).
func SystemPrompt() string {
	return systemPrompt
}
