package postprocess

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CityName(ctx context.Context, cityID int) (string, error) {
	args := m.Called(ctx, cityID)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) PlacesByCity(ctx context.Context, cityID int, variant models.PlaceVariant, limit int) ([]*models.Place, error) {
	args := m.Called(ctx, cityID, variant, limit)
	if v := args.Get(0); v != nil {
		return v.([]*models.Place), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) PlaceCoords(ctx context.Context, variant models.PlaceVariant, placeID string) (float64, float64, bool, error) {
	args := m.Called(ctx, variant, placeID)
	return args.Get(0).(float64), args.Get(1).(float64), args.Bool(2), args.Error(3)
}

func (m *mockGateway) TransportModeOf(ctx context.Context, transportID string) (string, error) {
	args := m.Called(ctx, transportID)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) TourOptionsForDestination(ctx context.Context, destinationCityID int, excludeUserID string) ([]*models.HistoricalTourOption, error) {
	args := m.Called(ctx, destinationCityID, excludeUserID)
	return nil, args.Error(1)
}

func (m *mockGateway) TourCountForUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockGateway) AnyTourOptions(ctx context.Context, limit int) ([]*models.HistoricalTourOption, error) {
	args := m.Called(ctx, limit)
	return nil, args.Error(1)
}

func TestEnforceTransportModes_LikedRotatesAcrossTransfers(t *testing.T) {
	prefs := models.Preferences{
		Transports: models.CategoryPreference{Liked: models.NewIDSet([]string{"metro", "bus"})},
	}
	items := []models.ScheduleItem{
		{Type: models.ItemTransfer, TransportMode: "T1"},
		{Type: models.ItemTransfer, TransportMode: "T2"},
		{Type: models.ItemTransfer, TransportMode: "T3"},
	}
	gw := new(mockGateway)

	enforceTransportModes(context.Background(), gw, items, prefs)

	assert.Contains(t, []string{"metro", "bus"}, items[0].TransportMode)
	assert.Contains(t, []string{"metro", "bus"}, items[1].TransportMode)
	assert.NotEqual(t, items[0].TransportMode, items[1].TransportMode)
}

func TestEnforceTransportModes_DislikedFallsBackToTaxi(t *testing.T) {
	prefs := models.Preferences{
		Transports: models.CategoryPreference{Disliked: models.NewIDSet([]string{"scooter"})},
	}
	items := []models.ScheduleItem{{Type: models.ItemTransfer, TransportMode: "scooter"}}
	gw := new(mockGateway)

	enforceTransportModes(context.Background(), gw, items, prefs)

	assert.Equal(t, "taxi", items[0].TransportMode)
}

func TestEnforceTransportModes_ResolvesTransportID(t *testing.T) {
	prefs := models.Preferences{}
	items := []models.ScheduleItem{{Type: models.ItemTransfer, TransportMode: "T42"}}
	gw := new(mockGateway)
	gw.On("TransportModeOf", mock.Anything, "T42").Return("bike", nil)

	enforceTransportModes(context.Background(), gw, items, prefs)

	assert.Equal(t, "bike", items[0].TransportMode)
	gw.AssertExpectations(t)
}

func TestFillPlaceNames_SynthesizesFromMode(t *testing.T) {
	items := []models.ScheduleItem{{Type: models.ItemTransfer, TransportMode: "metro"}}
	fillPlaceNames(items)
	assert.Equal(t, "metro", items[0].PlaceName)
}

func TestEnrichGeo_UsesDefaultDistanceWhenCoordsMissing(t *testing.T) {
	items := []models.ScheduleItem{
		{Type: models.ItemActivity, PlaceID: "a1", StartTime: "09:00", EndTime: "10:00"},
		{Type: models.ItemTransfer, TransportMode: "walk", StartTime: "10:00", EndTime: "10:00"},
		{Type: models.ItemActivity, PlaceID: "a2", StartTime: "10:30", EndTime: "11:30"},
	}
	gw := new(mockGateway)
	gw.On("PlaceCoords", mock.Anything, models.VariantActivity, "a1").Return(0.0, 0.0, false, nil)
	gw.On("PlaceCoords", mock.Anything, models.VariantActivity, "a2").Return(0.0, 0.0, false, nil)

	enrichGeo(context.Background(), gw, items)

	transfer := items[1]
	assert.NotNil(t, transfer.DistanceKm)
	assert.InDelta(t, 1.0, *transfer.DistanceKm, 1e-6) // walk default distance
	assert.NotNil(t, transfer.TravelTimeMin)
}

func TestSweepInvariants_DropsOverlappingLaterItem(t *testing.T) {
	items := []models.ScheduleItem{
		{Type: models.ItemActivity, StartTime: "09:00", EndTime: "10:30"},
		{Type: models.ItemActivity, StartTime: "10:00", EndTime: "11:00"},
	}
	swept := sweepInvariants(1, items, nil)
	assert.Len(t, swept, 1)
	assert.Equal(t, "09:00", swept[0].StartTime)
}

func TestProcess_SumsTotalsAndSetsWithinBudget(t *testing.T) {
	gw := new(mockGateway)
	gw.On("PlaceCoords", mock.Anything, mock.Anything, mock.Anything).Return(0.0, 0.0, false, nil)

	days := []models.DaySchedule{
		{Day: 1, Activities: []models.ScheduleItem{
			{Type: models.ItemHotel, PlaceID: "h1", StartTime: "11:00", EndTime: "12:00", Cost: 50},
			// taxi at the 5 km default: $6, 25 min, so it ends at 12:25
			{Type: models.ItemTransfer, TransportMode: "taxi", StartTime: "12:00", EndTime: "12:00"},
			{Type: models.ItemMeal, PlaceID: "r1", StartTime: "12:30", EndTime: "13:00", Cost: 20},
		}},
	}

	schedule, breakdown, total, withinBudget := Process(context.Background(), gw, days, models.Preferences{}, 1000, nil)

	assert.Len(t, schedule, 1)
	assert.Equal(t, 50.0, breakdown.Hotels)
	assert.Equal(t, 20.0, breakdown.Meals)
	assert.True(t, total > 70)
	assert.True(t, withinBudget)
}
