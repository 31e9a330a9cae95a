package similarity

import "github.com/exotic-travel-booking/itinerary-engine/internal/models"

// SelectSeed implements the §4.4 selection policy that decides which mode
// feeds C6: rank the user's own past options by the budget/rating blend
// when they have more than one historical tour (existing-user branch), or
// rank the cold-start neighbor pool the same way otherwise. Falls back to
// any option for the destination, then to any option catalog-wide, before
// giving up and letting the caller proceed with the raw request.
func SelectSeed(req *models.TourRequest, tourCount int, ownOptions []*models.HistoricalTourOption, neighbors []ScoredNeighbor, destOptions, catalogWide []*models.HistoricalTourOption) (*models.HistoricalTourOption, []ScoredNeighbor) {
	if tourCount > 1 && len(ownOptions) > 0 {
		ranked := RankByBudgetAndRating(req, ownOptions)
		return ranked[0].Option, nil
	}

	if len(neighbors) > 0 {
		options := make([]*models.HistoricalTourOption, len(neighbors))
		for i, n := range neighbors {
			options[i] = n.Option
		}
		ranked := RankByBudgetAndRating(req, options)
		return ranked[0].Option, neighbors
	}

	if len(destOptions) > 0 {
		ranked := RankByBudgetAndRating(req, destOptions)
		return ranked[0].Option, nil
	}

	if len(catalogWide) > 0 {
		ranked := RankByBudgetAndRating(req, catalogWide)
		return ranked[0].Option, nil
	}

	return nil, nil
}

// SeedPreferences fills any category whose liked set is still empty with
// the seed option's own ids for that category (§4.4's "seed
// recommendations" — a cold-start user with no stated likes inherits the
// most-similar option's picks as a starting recommendation). Disliked
// sets and categories that already have a liked id are left untouched.
func SeedPreferences(seed *models.HistoricalTourOption, prefs models.Preferences) models.Preferences {
	if seed == nil {
		return prefs
	}

	seedIfEmpty := func(cp models.CategoryPreference, ids []string) models.CategoryPreference {
		if len(cp.Liked) > 0 {
			return cp
		}
		liked := models.NewIDSet(ids)
		for id := range cp.Disliked {
			delete(liked, id)
		}
		return models.CategoryPreference{Liked: liked, Disliked: cp.Disliked}
	}

	prefs.Hotels = seedIfEmpty(prefs.Hotels, seed.HotelIDs)
	prefs.Restaurants = seedIfEmpty(prefs.Restaurants, seed.RestaurantIDs)
	prefs.Activities = seedIfEmpty(prefs.Activities, seed.ActivityIDs)
	return prefs
}
