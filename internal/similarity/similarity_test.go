package similarity

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"

	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestScore_DifferentDestinationIsNegInf(t *testing.T) {
	req := &models.TourRequest{DestinationCityID: 1, UserID: "u1"}
	opt := &models.HistoricalTourOption{DestinationCityID: 2, UserID: "u2"}

	assert.True(t, math.IsInf(Score(req, opt), -1))
}

func TestScore_SameUserIsNegInf(t *testing.T) {
	req := &models.TourRequest{DestinationCityID: 1, UserID: "u1"}
	opt := &models.HistoricalTourOption{DestinationCityID: 1, UserID: "u1"}

	assert.True(t, math.IsInf(Score(req, opt), -1))
}

func TestScore_AsymmetricJaccardFavorsSmallQuerySet(t *testing.T) {
	req := &models.TourRequest{
		DestinationCityID: 1, UserID: "u1",
		GuestCount: intPtr(2), DurationDays: intPtr(2), TargetBudget: floatPtr(400),
		HotelIDs: []string{"h1"},
	}
	// neighbor has a much larger hotel history that still contains h1
	opt := &models.HistoricalTourOption{
		DestinationCityID: 1, UserID: "u2",
		GuestCount: 2, DurationDays: 2, TargetBudget: 400,
		HotelIDs: []string{"h1", "h2", "h3", "h4", "h5"},
	}

	score := Score(req, opt)
	// jaccard term should be 1.0 (|A∩B|/|A| = 1/1), not 1/5
	assert.InDelta(t, 1.0, score, 1e-6)
}

func TestTopK_ExcludesUndefinedAndLimitsCount(t *testing.T) {
	req := &models.TourRequest{DestinationCityID: 1, UserID: "u1", GuestCount: intPtr(2), DurationDays: intPtr(2), TargetBudget: floatPtr(400)}

	options := []*models.HistoricalTourOption{
		{DestinationCityID: 2, UserID: "u2"}, // wrong destination, excluded
		{DestinationCityID: 1, UserID: "u1"}, // same user, excluded
		{DestinationCityID: 1, UserID: "u3", GuestCount: 2, DurationDays: 2, TargetBudget: 400},
		{DestinationCityID: 1, UserID: "u4", GuestCount: 2, DurationDays: 2, TargetBudget: 450},
	}

	top := TopK(req, options, 1)
	assert.Len(t, top, 1)
}

func TestImpute_FillsMissingNumericsFromNeighborMeans(t *testing.T) {
	req := &models.TourRequest{DestinationCityID: 1, UserID: "u1"}
	neighbors := []ScoredNeighbor{
		{Option: &models.HistoricalTourOption{GuestCount: 2, DurationDays: 4, TargetBudget: 400}},
		{Option: &models.HistoricalTourOption{GuestCount: 4, DurationDays: 6, TargetBudget: 600}},
	}

	imputed := Impute(req, neighbors)

	assert.Equal(t, 3, *imputed.GuestCount)
	assert.Equal(t, 5, *imputed.DurationDays)
	assert.InDelta(t, 500, *imputed.TargetBudget, 1e-6)
}

func TestImpute_TopThreeFrequentIDs(t *testing.T) {
	req := &models.TourRequest{DestinationCityID: 1, UserID: "u1"}
	neighbors := []ScoredNeighbor{
		{Option: &models.HistoricalTourOption{HotelIDs: []string{"h1", "h2"}}},
		{Option: &models.HistoricalTourOption{HotelIDs: []string{"h1", "h3"}}},
		{Option: &models.HistoricalTourOption{HotelIDs: []string{"h1", "h4"}}},
	}

	imputed := Impute(req, neighbors)

	assert.Contains(t, imputed.HotelIDs, "h1")
	assert.LessOrEqual(t, len(imputed.HotelIDs), 3)
}

func TestEstimateBudget_LinearRelationship(t *testing.T) {
	// target_budget = 100*duration_days + 50*guest_count exactly
	options := []*models.HistoricalTourOption{
		{DurationDays: 2, GuestCount: 2, TargetBudget: 300},
		{DurationDays: 3, GuestCount: 2, TargetBudget: 400},
		{DurationDays: 2, GuestCount: 4, TargetBudget: 400},
		{DurationDays: 4, GuestCount: 3, TargetBudget: 550},
	}

	estimate := EstimateBudget(options, 3, 3)
	assert.InDelta(t, 450, estimate, 5)
}

func TestEstimateBudget_EmptyOptionsReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, EstimateBudget(nil, 3, 2))
}

func TestRankByBudgetAndRating_ComparesScoredSlices(t *testing.T) {
	req := &models.TourRequest{GuestCount: intPtr(2), DurationDays: intPtr(2), TargetBudget: floatPtr(400)}
	options := []*models.HistoricalTourOption{
		{UserID: "a", GuestCount: 2, DurationDays: 2, TargetBudget: 400, Rating: 9},
		{UserID: "b", GuestCount: 2, DurationDays: 2, TargetBudget: 40, Rating: 9},
	}

	ranked := RankByBudgetAndRating(req, options)
	gotOrder := []string{ranked[0].Option.UserID, ranked[1].Option.UserID}
	wantOrder := []string{"a", "b"}

	if diff := cmp.Diff(wantOrder, gotOrder); diff != "" {
		t.Errorf("expected closer-budget neighbor to rank first (-want +got):\n%s", diff)
	}

	// budget_similarity for the exact-budget match should be ~1.0.
	if diff := cmp.Diff(1.0, budgetSimilarity(200, 200), cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("budgetSimilarity mismatch (-want +got):\n%s", diff)
	}
}
