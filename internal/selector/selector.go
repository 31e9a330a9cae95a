// Package selector implements the Candidate Selector (C5): greedy,
// budget-constrained candidate pools for hotels, restaurants, and
// activities, built from the places already fetched from the Catalog
// Gateway for the destination.
package selector

import (
	"sort"

	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

// Canonical per-day slot counts and category budget weights (§4.5, §4.6,
// glossary "daily budget envelope").
const (
	activitySlotsPerDay   = 4
	restaurantSlotsPerDay = 2
	hotelSlotsTotal       = 1

	activityWeight   = 0.4
	restaurantWeight = 0.3
	hotelWeight      = 0.3
)

// Pools holds the three candidate place pools for one planning call.
type Pools struct {
	Hotels      []*models.Place
	Restaurants []*models.Place
	Activities  []*models.Place
}

// Select builds the three candidate pools. hotels/restaurants/activities
// are the destination's full catalog places for each variant, expected
// already ordered by rating descending (the Catalog Gateway's
// places_by_city contract). req must be fully imputed (duration_days and
// target_budget non-nil).
func Select(req *models.TourRequest, prefs models.Preferences, hotels, restaurants, activities []*models.Place) Pools {
	durationDays := 1
	if req.DurationDays != nil && *req.DurationDays > 0 {
		durationDays = *req.DurationDays
	}
	targetBudget := 0.0
	if req.TargetBudget != nil {
		targetBudget = *req.TargetBudget
	}
	dailyBudget := targetBudget / float64(durationDays)

	uniqueActivities := minInt(activitySlotsPerDay*durationDays, len(activities))
	uniqueRestaurants := minInt(restaurantSlotsPerDay*durationDays, len(restaurants))
	uniqueHotels := minInt(hotelSlotsTotal, len(hotels))

	return Pools{
		Hotels:      selectCategory(hotels, prefs.Hotels, dailyBudget*hotelWeight, uniqueHotels, placeCost),
		Restaurants: selectCategory(restaurants, prefs.Restaurants, dailyBudget*restaurantWeight, uniqueRestaurants, placeCost),
		Activities:  selectCategory(activities, prefs.Activities, dailyBudget*activityWeight, uniqueActivities, placeCost),
	}
}

func placeCost(p *models.Place) float64 {
	return p.NominalPrice()
}

// selectCategory runs the four-step greedy algorithm from §4.5 for one
// category's catalog pool.
func selectCategory(pool []*models.Place, pref models.CategoryPreference, budgetCap float64, quota int, cost func(*models.Place) float64) []*models.Place {
	available := excludeDisliked(pool, pref.Disliked)

	// Step 1: prefer the liked subset; fall back to the full
	// rating-ordered pool if nothing liked is available.
	candidates := filterLiked(available, pref.Liked)
	if len(candidates) == 0 {
		candidates = available
	}

	// Step 2: candidates are already rating-ordered (inherited from the
	// catalog pool's order), so no re-sort is needed here.

	// Step 3: greedily add while staying under budgetCap, always
	// admitting at least one item.
	selected := make([]*models.Place, 0, quota)
	seen := make(map[string]struct{}, quota)
	running := 0.0

	for _, p := range candidates {
		if len(selected) >= quota {
			break
		}
		c := cost(p)
		if len(selected) > 0 && running+c > budgetCap {
			continue
		}
		selected = append(selected, p)
		seen[p.ID] = struct{}{}
		running += c
	}

	// Step 4: if quota isn't met, fill from the remaining pool ordered
	// by ascending cost.
	if len(selected) < quota {
		remaining := make([]*models.Place, 0, len(available))
		for _, p := range available {
			if _, already := seen[p.ID]; already {
				continue
			}
			remaining = append(remaining, p)
		}
		sort.SliceStable(remaining, func(i, j int) bool {
			return cost(remaining[i]) < cost(remaining[j])
		})

		for _, p := range remaining {
			if len(selected) >= quota {
				break
			}
			selected = append(selected, p)
			running += cost(p)
		}
	}

	return selected
}

func filterLiked(pool []*models.Place, liked models.IDSet) []*models.Place {
	if len(liked) == 0 {
		return nil
	}
	out := make([]*models.Place, 0, len(liked))
	for _, p := range pool {
		if liked.Has(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func excludeDisliked(pool []*models.Place, disliked models.IDSet) []*models.Place {
	if len(disliked) == 0 {
		return pool
	}
	out := make([]*models.Place, 0, len(pool))
	for _, p := range pool {
		if disliked.Has(p.ID) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
