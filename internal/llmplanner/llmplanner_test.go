package llmplanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/exotic-travel-booking/itinerary-engine/internal/llm/providers"
	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
	"github.com/exotic-travel-booking/itinerary-engine/internal/selector"
)

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

func (m *mockProvider) GetModels(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *mockProvider) GetName() string { return "mock" }
func (m *mockProvider) Close() error     { return nil }

func TestStripCodeFences_RemovesJSONFence(t *testing.T) {
	raw := "```json\n{\"destination\":\"Hanoi\"}\n```"
	assert.Equal(t, `{"destination":"Hanoi"}`, stripCodeFences(raw))
}

func TestStripCodeFences_PassesThroughPlainJSON(t *testing.T) {
	raw := `{"destination":"Hanoi"}`
	assert.Equal(t, raw, stripCodeFences(raw))
}

func TestParse_ValidDraftSucceeds(t *testing.T) {
	raw := `{"destination":"Hanoi","guests":2,"duration_days":1,"days":[{"day":1,"activities":[]}]}`
	draft, ok := Parse(raw)
	assert.True(t, ok)
	assert.Equal(t, "Hanoi", draft.Destination)
}

func TestParse_GarbageFailsGracefully(t *testing.T) {
	_, ok := Parse("not json at all")
	assert.False(t, ok)
}

func TestFallback_PrefersFirstLikedMode(t *testing.T) {
	prefs := models.Preferences{
		Transports: models.CategoryPreference{Liked: models.NewIDSet([]string{"metro"})},
	}
	draft := Fallback("Hanoi", 2, 2, 500, prefs)

	assert.Len(t, draft.Days, 2)
	foundMetro := false
	for _, a := range draft.Days[0].Activities {
		if a.Type == models.ItemTransfer {
			assert.Equal(t, "metro", a.TransportMode)
			foundMetro = true
		}
	}
	assert.True(t, foundMetro)
}

func TestFallback_FallsBackToBusWhenTaxiDisliked(t *testing.T) {
	prefs := models.Preferences{
		Transports: models.CategoryPreference{Disliked: models.NewIDSet([]string{"taxi"})},
	}
	draft := Fallback("Hanoi", 1, 1, 100, prefs)

	mode := preferredMode(prefs)
	assert.Equal(t, "bus", mode)
	assert.NotEmpty(t, draft.Days)
}

func TestFallback_DefaultsToTaxi(t *testing.T) {
	mode := preferredMode(models.Preferences{})
	assert.Equal(t, "taxi", mode)
}

func TestAdapter_Plan_FallsBackOnOracleError(t *testing.T) {
	mp := new(mockProvider)
	mp.On("GenerateResponse", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	adapter := NewAdapter(mp, "gpt-test")
	durationDays, guests := 2, 1
	req := &models.TourRequest{DurationDays: &durationDays, GuestCount: &guests}

	draft := adapter.Plan(context.Background(), "Hanoi", req, models.Preferences{}, selector.Pools{})

	assert.Len(t, draft.Days, 2)
	assert.NotEmpty(t, draft.ErrorNote)
	mp.AssertExpectations(t)
}

func TestAdapter_Plan_ParsesOracleJSON(t *testing.T) {
	mp := new(mockProvider)
	mp.On("GenerateResponse", mock.Anything, mock.Anything).Return(&providers.GenerateResponse{
		Choices: []providers.Choice{
			{Message: providers.Message{Content: `{"destination":"Hanoi","guests":1,"duration_days":1,"days":[{"day":1,"activities":[]}]}`}},
		},
	}, nil)

	adapter := NewAdapter(mp, "gpt-test")
	durationDays, guests := 1, 1
	req := &models.TourRequest{DurationDays: &durationDays, GuestCount: &guests}

	draft := adapter.Plan(context.Background(), "Hanoi", req, models.Preferences{}, selector.Pools{})

	assert.Equal(t, "Hanoi", draft.Destination)
	assert.Empty(t, draft.ErrorNote)
}
