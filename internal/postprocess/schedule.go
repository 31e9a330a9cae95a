// Package postprocess implements the Schedule Post-Processor (C7): the
// correctness floor that turns an LLM (or fallback) draft into a
// validated, geo-enriched schedule the Planner Facade can trust.
package postprocess

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/exotic-travel-booking/itinerary-engine/internal/catalog"
	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

// Process runs Steps A-E of §4.7 over draftDays and returns the
// validated schedule plus the summed cost breakdown and total.
func Process(ctx context.Context, gw catalog.Gateway, draftDays []models.DaySchedule, prefs models.Preferences, targetBudget float64, repairs RepairCounter) ([]models.DaySchedule, models.CostBreakdown, float64, bool) {
	ctx, span := tracer.Start(ctx, "postprocess.process")
	defer span.End()
	span.SetAttributes(attribute.Int("postprocess.days", len(draftDays)))

	out := make([]models.DaySchedule, len(draftDays))
	var breakdown models.CostBreakdown
	var total float64

	for i, day := range draftDays {
		items := make([]models.ScheduleItem, len(day.Activities))
		copy(items, day.Activities)

		enforceTransportModes(ctx, gw, items, prefs)
		fillPlaceNames(items)
		enrichGeo(ctx, gw, items)
		items = sweepInvariants(day.Day, items, repairs)

		for _, item := range items {
			total += item.Cost
			switch item.Type {
			case models.ItemHotel:
				breakdown.Hotels += item.Cost
			case models.ItemActivity:
				breakdown.Activities += item.Cost
			case models.ItemMeal:
				breakdown.Meals += item.Cost
			case models.ItemTransfer:
				breakdown.TransportEstimate += item.Cost
			}
		}

		out[i] = models.DaySchedule{Day: day.Day, Activities: items}
	}

	withinBudget := total <= targetBudget
	span.SetAttributes(attribute.Float64("postprocess.total_cost", total), attribute.Bool("postprocess.within_budget", withinBudget))

	return out, breakdown, total, withinBudget
}
