package similarity

import (
	"sort"

	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

// Impute fills missing numeric and categorical fields on req from
// neighbors (§4.4). It returns a new TourRequest; the original is left
// untouched. When neighbors is empty, absent numeric fields default to
// reasonable non-zero minimums (1 guest, 1 day) rather than zero, and
// target_budget is left for the regression estimate in EstimateBudget.
func Impute(req *models.TourRequest, neighbors []ScoredNeighbor) *models.TourRequest {
	imputed := *req

	if len(neighbors) == 0 {
		if imputed.GuestCount == nil {
			v := 1
			imputed.GuestCount = &v
		}
		if imputed.DurationDays == nil {
			v := 1
			imputed.DurationDays = &v
		}
		return &imputed
	}

	if imputed.GuestCount == nil {
		v := meanInt(collectGuestCounts(neighbors))
		imputed.GuestCount = &v
	}
	if imputed.DurationDays == nil {
		v := meanInt(collectDurations(neighbors))
		imputed.DurationDays = &v
	}
	if imputed.TargetBudget == nil {
		v := meanFloat(collectBudgets(neighbors))
		imputed.TargetBudget = &v
	}
	if imputed.StartCityID == nil {
		v := modeDestination(neighbors)
		imputed.StartCityID = &v
	}

	if len(imputed.HotelIDs) == 0 {
		imputed.HotelIDs = topFrequent(collectIDs(neighbors, func(o *models.HistoricalTourOption) []string { return o.HotelIDs }), 3)
	}
	if len(imputed.ActivityIDs) == 0 {
		imputed.ActivityIDs = topFrequent(collectIDs(neighbors, func(o *models.HistoricalTourOption) []string { return o.ActivityIDs }), 3)
	}
	if len(imputed.RestaurantIDs) == 0 {
		imputed.RestaurantIDs = topFrequent(collectIDs(neighbors, func(o *models.HistoricalTourOption) []string { return o.RestaurantIDs }), 3)
	}
	if len(imputed.TransportIDs) == 0 {
		imputed.TransportIDs = topFrequent(collectIDs(neighbors, func(o *models.HistoricalTourOption) []string { return o.TransportIDs }), 3)
	}

	return &imputed
}

func collectGuestCounts(neighbors []ScoredNeighbor) []int {
	out := make([]int, len(neighbors))
	for i, n := range neighbors {
		out[i] = n.Option.GuestCount
	}
	return out
}

func collectDurations(neighbors []ScoredNeighbor) []int {
	out := make([]int, len(neighbors))
	for i, n := range neighbors {
		out[i] = n.Option.DurationDays
	}
	return out
}

func collectBudgets(neighbors []ScoredNeighbor) []float64 {
	out := make([]float64, len(neighbors))
	for i, n := range neighbors {
		out[i] = n.Option.TargetBudget
	}
	return out
}

func collectIDs(neighbors []ScoredNeighbor, field func(*models.HistoricalTourOption) []string) []string {
	var out []string
	for _, n := range neighbors {
		out = append(out, field(n.Option)...)
	}
	return out
}

func meanInt(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return sum / len(values)
}

func meanFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// modeDestination returns the most frequent destination city id among
// neighbor options, used as the mode-imputed start city when absent.
func modeDestination(neighbors []ScoredNeighbor) int {
	counts := make(map[int]int)
	for _, n := range neighbors {
		counts[n.Option.DestinationCityID]++
	}
	best, bestCount := 0, -1
	for id, count := range counts {
		if count > bestCount {
			best, bestCount = id, count
		}
	}
	return best
}

// topFrequent returns the n most frequently occurring ids, ties broken by
// first occurrence order.
func topFrequent(ids []string, n int) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, id := range ids {
		if _, seen := counts[id]; !seen {
			order = append(order, id)
		}
		counts[id]++
	}

	sortedOrder := make([]string, len(order))
	copy(sortedOrder, order)
	sort.SliceStable(sortedOrder, func(i, j int) bool {
		return counts[sortedOrder[i]] > counts[sortedOrder[j]]
	})

	if len(sortedOrder) > n {
		sortedOrder = sortedOrder[:n]
	}
	return sortedOrder
}
