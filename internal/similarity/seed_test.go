package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

func TestSelectSeed_ExistingUserRanksOwnOptions(t *testing.T) {
	req := &models.TourRequest{TargetBudget: floatPtr(300), GuestCount: intPtr(2), DurationDays: intPtr(2)}
	own := []*models.HistoricalTourOption{
		{TargetBudget: 1000, GuestCount: 2, DurationDays: 2, Rating: 2, HotelIDs: []string{"h-far"}},
		{TargetBudget: 300, GuestCount: 2, DurationDays: 2, Rating: 9, HotelIDs: []string{"h-close"}},
	}

	seed, neighbors := SelectSeed(req, 3, own, nil, nil, nil)

	assert.NotNil(t, seed)
	assert.Equal(t, []string{"h-close"}, seed.HotelIDs)
	assert.Nil(t, neighbors)
}

func TestSelectSeed_ColdStartUsesNeighborPool(t *testing.T) {
	req := &models.TourRequest{TargetBudget: floatPtr(300), GuestCount: intPtr(2), DurationDays: intPtr(2)}
	neighbors := []ScoredNeighbor{
		{Option: &models.HistoricalTourOption{TargetBudget: 300, GuestCount: 2, DurationDays: 2, Rating: 9, HotelIDs: []string{"h1"}}},
	}

	seed, returnedNeighbors := SelectSeed(req, 0, nil, neighbors, nil, nil)

	assert.NotNil(t, seed)
	assert.Equal(t, []string{"h1"}, seed.HotelIDs)
	assert.Equal(t, neighbors, returnedNeighbors)
}

func TestSelectSeed_FallsBackToAnyDestinationOption(t *testing.T) {
	req := &models.TourRequest{TargetBudget: floatPtr(300), GuestCount: intPtr(2), DurationDays: intPtr(2)}
	destOptions := []*models.HistoricalTourOption{{TargetBudget: 300, GuestCount: 2, DurationDays: 2, Rating: 7, HotelIDs: []string{"h-dest"}}}

	seed, neighbors := SelectSeed(req, 0, nil, nil, destOptions, nil)

	assert.NotNil(t, seed)
	assert.Equal(t, []string{"h-dest"}, seed.HotelIDs)
	assert.Nil(t, neighbors)
}

func TestSelectSeed_FallsBackToCatalogWide(t *testing.T) {
	req := &models.TourRequest{TargetBudget: floatPtr(300), GuestCount: intPtr(2), DurationDays: intPtr(2)}
	catalogWide := []*models.HistoricalTourOption{{TargetBudget: 300, GuestCount: 2, DurationDays: 2, Rating: 5, HotelIDs: []string{"h-any"}}}

	seed, neighbors := SelectSeed(req, 0, nil, nil, nil, catalogWide)

	assert.NotNil(t, seed)
	assert.Equal(t, []string{"h-any"}, seed.HotelIDs)
	assert.Nil(t, neighbors)
}

func TestSelectSeed_NoOptionsAnywhereReturnsNil(t *testing.T) {
	req := &models.TourRequest{TargetBudget: floatPtr(300), GuestCount: intPtr(2), DurationDays: intPtr(2)}

	seed, neighbors := SelectSeed(req, 0, nil, nil, nil, nil)

	assert.Nil(t, seed)
	assert.Nil(t, neighbors)
}

func TestSeedPreferences_FillsOnlyEmptyLikedCategories(t *testing.T) {
	seed := &models.HistoricalTourOption{
		HotelIDs:      []string{"h1", "h2"},
		RestaurantIDs: []string{"r1"},
		ActivityIDs:   []string{"a1"},
	}
	prefs := models.Preferences{
		Hotels:      models.CategoryPreference{Liked: models.NewIDSet([]string{"h-existing"})},
		Restaurants: models.CategoryPreference{},
	}

	out := SeedPreferences(seed, prefs)

	assert.True(t, out.Hotels.Liked.Has("h-existing"))
	assert.False(t, out.Hotels.Liked.Has("h1"))
	assert.True(t, out.Restaurants.Liked.Has("r1"))
	assert.True(t, out.Activities.Liked.Has("a1"))
}

func TestSeedPreferences_ExcludesDislikedSeedIDs(t *testing.T) {
	seed := &models.HistoricalTourOption{HotelIDs: []string{"h1", "h2"}}
	prefs := models.Preferences{
		Hotels: models.CategoryPreference{Disliked: models.NewIDSet([]string{"h1"})},
	}

	out := SeedPreferences(seed, prefs)

	assert.False(t, out.Hotels.Liked.Has("h1"))
	assert.True(t, out.Hotels.Liked.Has("h2"))
}

func TestSeedPreferences_NilSeedIsNoOp(t *testing.T) {
	prefs := models.Preferences{Hotels: models.CategoryPreference{Liked: models.NewIDSet([]string{"h-existing"})}}
	out := SeedPreferences(nil, prefs)
	assert.Equal(t, prefs, out)
}
