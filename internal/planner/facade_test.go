package planner

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/exotic-travel-booking/itinerary-engine/internal/llm/providers"
	"github.com/exotic-travel-booking/itinerary-engine/internal/llmplanner"
	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

// mockGateway is a minimal mock of catalog.Gateway for facade tests. Every
// scenario here is cold start: no historical tour options, so the
// existing-user branch in plan() never fires.
type mockGateway struct {
	mock.Mock
	transportModes map[string]string
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
	return 0, 0, false, nil
}

func (m *mockGateway) TransportModeOf(ctx context.Context, transportID string) (string, error) {
	if mode, ok := m.transportModes[transportID]; ok {
		return mode, nil
	}
	return "", assert.AnError
}

func (m *mockGateway) TourOptionsForDestination(ctx context.Context, destinationCityID int, excludeUserID string) ([]*models.HistoricalTourOption, error) {
	return nil, nil
}

func (m *mockGateway) TourCountForUser(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

func (m *mockGateway) AnyTourOptions(ctx context.Context, limit int) ([]*models.HistoricalTourOption, error) {
	return nil, nil
}

// mockProvider is a minimal mock of providers.LLMProvider for facade tests.
type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) GenerateResponse(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*providers.GenerateResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProvider) GetModels(ctx context.Context) ([]string, error) { return nil, nil }
func (m *mockProvider) GetName() string                                 { return "mock" }
func (m *mockProvider) Close() error                                     { return nil }

// erroringProvider simulates an oracle that is entirely unreachable
// (§8's S5), forcing the adapter's error fallback draft on every call.
type erroringProvider struct{}

func (erroringProvider) GenerateResponse(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	return nil, assert.AnError
}
func (erroringProvider) GetModels(ctx context.Context) ([]string, error) { return nil, nil }
func (erroringProvider) GetName() string                                 { return "erroring" }
func (erroringProvider) Close() error                                     { return nil }

func samplePlaces(variant models.PlaceVariant, n int, price float64) []*models.Place {
	places := make([]*models.Place, n)
	for i := 0; i < n; i++ {
		switch variant {
		case models.VariantHotel:
			places[i] = models.NewHotelPlace("h"+string(rune('0'+i)), "Hotel", 1, 4.5, nil, nil, price, "")
		case models.VariantRestaurant:
			places[i] = models.NewRestaurantPlace("r"+string(rune('0'+i)), "Restaurant", 1, 4.5, nil, nil, price, "local", "")
		case models.VariantActivity:
			places[i] = models.NewActivityPlace("a"+string(rune('0'+i)), "Activity", 1, 4.5, nil, nil, price, 1.0, "sightseeing", "")
		}
	}
	return places
}

// newCatalogMock wires a mockGateway with enough destination places for
// the Candidate Selector to fill a multi-day plan, plus the city-name
// and T0042 transport-id lookups the scenarios below depend on.
func newCatalogMock() *mockGateway {
	gw := &mockGateway{transportModes: map[string]string{"T0042": "scooter"}}
	gw.On("CityName", mock.Anything, 1).Return("Metropolis", nil)
	gw.On("PlacesByCity", mock.Anything, 1, models.VariantHotel, candidatePoolLimit).Return(samplePlaces(models.VariantHotel, 3, 50.0), nil)
	gw.On("PlacesByCity", mock.Anything, 1, models.VariantRestaurant, candidatePoolLimit).Return(samplePlaces(models.VariantRestaurant, 6, 10.0), nil)
	gw.On("PlacesByCity", mock.Anything, 1, models.VariantActivity, candidatePoolLimit).Return(samplePlaces(models.VariantActivity, 12, 5.0), nil)
	return gw
}

// oracleDraftResponse builds a successful oracle response whose transfers
// all carry the given raw mode, simulating an LLM-authored schedule that
// Step A (enforceTransportModes) must still repair per preference rules.
func oracleDraftResponse(guests, durationDays int, rawMode string) *providers.GenerateResponse {
	draft := llmplanner.Fallback("Metropolis", guests, durationDays, 0, models.Preferences{})
	for d := range draft.Days {
		for i := range draft.Days[d].Activities {
			if draft.Days[d].Activities[i].Type == string(models.ItemTransfer) {
				draft.Days[d].Activities[i].TransportMode = rawMode
			}
		}
	}
	raw, err := json.Marshal(draft)
	if err != nil {
		panic(err)
	}
	return &providers.GenerateResponse{
		Choices: []providers.Choice{{Message: providers.Message{Content: string(raw)}}},
	}
}

func transferModes(tour *models.Tour) []string {
	var modes []string
	for _, day := range tour.Days {
		for _, item := range day.Activities {
			if item.Type == models.ItemTransfer {
				modes = append(modes, item.TransportMode)
			}
		}
	}
	return modes
}

func TestPlan_S1_PureColdStartStaysWithinBudget(t *testing.T) {
	gw := newCatalogMock()
	mp := new(mockProvider)
	mp.On("GenerateResponse", mock.Anything, mock.Anything).Return(oracleDraftResponse(2, 2, "car"), nil)
	adapter := llmplanner.NewAdapter(mp, "gpt-test")
	facade := New(gw, adapter, nil)

	guests, days := 2, 2
	budget := 400.0
	req := &models.TourRequest{DestinationCityID: 1, GuestCount: &guests, DurationDays: &days, TargetBudget: &budget}

	tour, err := facade.Plan(context.Background(), req)

	assert.NoError(t, err)
	assert.Len(t, tour.Days, 2)
	assert.True(t, tour.TotalEstimatedCost <= 400.0)
	assert.True(t, tour.WithinBudget)
}

func TestPlan_S2_LikedTransportModeEnforced(t *testing.T) {
	gw := newCatalogMock()
	mp := new(mockProvider)
	mp.On("GenerateResponse", mock.Anything, mock.Anything).Return(oracleDraftResponse(2, 2, "car"), nil)
	adapter := llmplanner.NewAdapter(mp, "gpt-test")
	facade := New(gw, adapter, nil)

	guests, days := 2, 2
	budget := 400.0
	req := &models.TourRequest{
		DestinationCityID: 1, GuestCount: &guests, DurationDays: &days, TargetBudget: &budget,
		RawPreferences: models.RawPreferences{LikedTransportModes: []string{"bike"}},
	}

	tour, err := facade.Plan(context.Background(), req)

	assert.NoError(t, err)
	for _, mode := range transferModes(tour) {
		assert.Equal(t, "bike", mode)
	}
}

func TestPlan_S3_DislikedTransportModeNeverUsed(t *testing.T) {
	gw := newCatalogMock()
	mp := new(mockProvider)
	mp.On("GenerateResponse", mock.Anything, mock.Anything).Return(oracleDraftResponse(2, 2, "taxi"), nil)
	adapter := llmplanner.NewAdapter(mp, "gpt-test")
	facade := New(gw, adapter, nil)

	guests, days := 2, 2
	budget := 400.0
	req := &models.TourRequest{
		DestinationCityID: 1, GuestCount: &guests, DurationDays: &days, TargetBudget: &budget,
		RawPreferences: models.RawPreferences{DislikedTransportModes: []string{"taxi"}},
	}

	tour, err := facade.Plan(context.Background(), req)

	assert.NoError(t, err)
	for _, mode := range transferModes(tour) {
		assert.NotEqual(t, "taxi", mode)
	}
}

func TestPlan_S4_TransportIDResolvedToScooter(t *testing.T) {
	gw := newCatalogMock()
	mp := new(mockProvider)
	mp.On("GenerateResponse", mock.Anything, mock.Anything).Return(oracleDraftResponse(2, 1, "car"), nil)
	adapter := llmplanner.NewAdapter(mp, "gpt-test")
	facade := New(gw, adapter, nil)

	guests, days := 2, 1
	budget := 400.0
	req := &models.TourRequest{
		DestinationCityID: 1, GuestCount: &guests, DurationDays: &days, TargetBudget: &budget,
		RawPreferences: models.RawPreferences{LikedTransportModes: []string{"T0042"}},
	}

	tour, err := facade.Plan(context.Background(), req)

	assert.NoError(t, err)
	for _, mode := range transferModes(tour) {
		assert.Equal(t, "scooter", mode)
	}
}

func TestPlan_S5_OracleFailureFallsBackWithErrorNote(t *testing.T) {
	gw := newCatalogMock()
	adapter := llmplanner.NewAdapter(erroringProvider{}, "gpt-test")
	facade := New(gw, adapter, nil)

	guests, days := 1, 3
	budget := 300.0
	req := &models.TourRequest{DestinationCityID: 1, GuestCount: &guests, DurationDays: &days, TargetBudget: &budget}

	tour, err := facade.Plan(context.Background(), req)

	assert.NoError(t, err)
	assert.Len(t, tour.Days, 3)
	assert.NotEmpty(t, tour.Error)
	for _, day := range tour.Days {
		transfers := 0
		for _, item := range day.Activities {
			if item.Type == models.ItemTransfer {
				transfers++
			}
		}
		assert.Equal(t, 1, transfers, "fallback day must carry exactly one transfer placeholder per §4.6")
	}
}

func TestPlan_S6_BudgetOverflowReportsNotWithinBudget(t *testing.T) {
	gw := newCatalogMock()
	mp := new(mockProvider)
	// Each day carries its taxi transfer ($6 at the 5 km default) plus a
	// $30 lunch, so three days cost 3 × 36 = $108, over the $50 budget.
	draft := llmplanner.Fallback("Metropolis", 2, 3, 0, models.Preferences{})
	for d := range draft.Days {
		draft.Days[d].Activities = append(draft.Days[d].Activities, llmplanner.ActivityDraft{
			StartTime: "12:00", EndTime: "14:00", Type: string(models.ItemMeal),
			PlaceID: "r0", PlaceName: "Restaurant", Cost: 30,
		})
	}
	raw, err := json.Marshal(draft)
	if err != nil {
		t.Fatal(err)
	}
	mp.On("GenerateResponse", mock.Anything, mock.Anything).Return(&providers.GenerateResponse{
		Choices: []providers.Choice{{Message: providers.Message{Content: string(raw)}}},
	}, nil)
	adapter := llmplanner.NewAdapter(mp, "gpt-test")
	facade := New(gw, adapter, nil)

	guests, days := 2, 3
	budget := 50.0
	req := &models.TourRequest{DestinationCityID: 1, GuestCount: &guests, DurationDays: &days, TargetBudget: &budget}

	tour, err := facade.Plan(context.Background(), req)

	assert.NoError(t, err)
	assert.False(t, tour.WithinBudget)
	assert.True(t, tour.TotalEstimatedCost > 0)
	breakdown := tour.CostBreakdown
	assert.True(t, breakdown.Hotels+breakdown.Activities+breakdown.Meals+breakdown.TransportEstimate > 0)
}
