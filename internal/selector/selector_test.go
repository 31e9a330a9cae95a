package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

func activityPlace(id string, rating, price float64) *models.Place {
	return models.NewActivityPlace(id, "Activity "+id, 1, rating, nil, nil, price, 2, "sightseeing", "")
}

func TestSelect_AlwaysAdmitsAtLeastOneItemPerCategory(t *testing.T) {
	durationDays := 1
	budget := 1.0 // tiny budget, smaller than any single activity's cost
	req := &models.TourRequest{DurationDays: &durationDays, TargetBudget: &budget}

	activities := []*models.Place{
		activityPlace("a1", 9, 50),
		activityPlace("a2", 8, 40),
	}

	pools := Select(req, models.Preferences{}, nil, nil, activities)

	assert.GreaterOrEqual(t, len(pools.Activities), 1)
}

func TestSelect_PrefersLikedSubset(t *testing.T) {
	durationDays := 2
	budget := 400.0
	req := &models.TourRequest{DurationDays: &durationDays, TargetBudget: &budget}

	activities := []*models.Place{
		activityPlace("a1", 9, 20),
		activityPlace("a2", 8, 20),
		activityPlace("a3", 7, 20),
	}
	prefs := models.Preferences{
		Activities: models.CategoryPreference{Liked: models.NewIDSet([]string{"a3"})},
	}

	pools := Select(req, prefs, nil, nil, activities)

	assert.Contains(t, placeIDs(pools.Activities), "a3")
}

func TestSelect_ExcludesDislikedThroughout(t *testing.T) {
	durationDays := 1
	budget := 400.0
	req := &models.TourRequest{DurationDays: &durationDays, TargetBudget: &budget}

	activities := []*models.Place{
		activityPlace("a1", 9, 20),
		activityPlace("a2", 8, 20),
	}
	prefs := models.Preferences{
		Activities: models.CategoryPreference{Disliked: models.NewIDSet([]string{"a1"})},
	}

	pools := Select(req, prefs, nil, nil, activities)

	assert.NotContains(t, placeIDs(pools.Activities), "a1")
}

func TestSelect_FillsFromRemainingWhenQuotaUnmet(t *testing.T) {
	durationDays := 3 // wants up to 12 unique activities
	budget := 30.0    // activity cap is 30/3 * 0.4 = 4, so the greedy pass stops after a1
	req := &models.TourRequest{DurationDays: &durationDays, TargetBudget: &budget}

	activities := []*models.Place{
		activityPlace("a1", 9, 10),
		activityPlace("a2", 8, 10),
	}

	pools := Select(req, models.Preferences{}, nil, nil, activities)

	// only 2 activities exist in the catalog, so the quota is 2; a2 comes
	// from the ascending-cost fill after the greedy pass
	assert.Len(t, pools.Activities, 2)
}

func placeIDs(places []*models.Place) []string {
	ids := make([]string, len(places))
	for i, p := range places {
		ids[i] = p.ID
	}
	return ids
}
