// Package llmplanner implements the LLM Planner Adapter (C6): it builds
// the oracle prompt from a resolved request, candidate pools, and
// preferences, parses the oracle's JSON draft, and synthesizes a
// deterministic fallback draft when the oracle fails or returns garbage.
package llmplanner

import "github.com/exotic-travel-booking/itinerary-engine/internal/models"

// CostBreakdownDraft mirrors models.CostBreakdown in the oracle's raw JSON
// response shape, kept separate so a malformed oracle payload never
// corrupts the domain type directly.
type CostBreakdownDraft struct {
	Hotels            float64 `json:"hotels"`
	Activities        float64 `json:"activities"`
	Meals             float64 `json:"meals"`
	TransportEstimate float64 `json:"transport_estimate"`
}

// ActivityDraft is one raw ScheduleItem as emitted by the oracle, before
// C7 enriches and validates it.
type ActivityDraft struct {
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Type          string   `json:"type"`
	PlaceID       string   `json:"place_id,omitempty"`
	PlaceName     string   `json:"place_name"`
	Description   string   `json:"description,omitempty"`
	TransportMode string   `json:"transport_mode,omitempty"`
	DistanceKm    *float64 `json:"distance_km,omitempty"`
	TravelTimeMin *float64 `json:"travel_time_min,omitempty"`
	Cost          float64  `json:"cost,omitempty"`
}

// DayDraft is one day's raw activities as emitted by the oracle.
type DayDraft struct {
	Day        int             `json:"day,omitempty"`
	Activities []ActivityDraft `json:"activities"`
}

// Draft is the `{destination, guests, duration_days, within_budget,
// total_cost, cost_breakdown, days[].activities[]}` shape named in §4.6.
// C7 treats every numeric/boolean field here as untrusted scratch input;
// only Days survives into the final Tour, and even that is rewritten.
type Draft struct {
	Destination   string              `json:"destination"`
	Guests        int                 `json:"guests"`
	DurationDays  int                 `json:"duration_days"`
	WithinBudget  bool                `json:"within_budget"`
	TotalCost     float64             `json:"total_cost"`
	CostBreakdown CostBreakdownDraft  `json:"cost_breakdown"`
	Days          []DayDraft          `json:"days"`
	ErrorNote     string              `json:"-"`
}

func (d *Draft) toScheduleItem(a ActivityDraft) models.ScheduleItem {
	return models.ScheduleItem{
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Type:          models.ScheduleItemType(a.Type),
		PlaceID:       a.PlaceID,
		PlaceName:     a.PlaceName,
		Description:   a.Description,
		TransportMode: a.TransportMode,
		DistanceKm:    a.DistanceKm,
		TravelTimeMin: a.TravelTimeMin,
		Cost:          a.Cost,
	}
}

// ToDaySchedules converts the oracle/fallback draft into the engine's own
// DaySchedule shape for C7 to enrich. Day numbers are assigned
// positionally (1-indexed) regardless of what the oracle echoed back.
func (d *Draft) ToDaySchedules() []models.DaySchedule {
	out := make([]models.DaySchedule, len(d.Days))
	for i, day := range d.Days {
		items := make([]models.ScheduleItem, len(day.Activities))
		for j, a := range day.Activities {
			items[j] = d.toScheduleItem(a)
		}
		out[i] = models.DaySchedule{Day: i + 1, Activities: items}
	}
	return out
}
