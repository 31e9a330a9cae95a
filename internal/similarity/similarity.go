// Package similarity implements the Similarity Engine (C4): pairwise
// user-tour similarity, top-K neighbor retrieval, and field imputation for
// cold-start planning requests.
package similarity

import (
	"math"
	"sort"

	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

// epsilon avoids division by zero in the budget term.
const epsilon = 1e-6

// NegInf marks an undefined similarity (different destination, or same
// user — spec §4.4).
const NegInf = math.Inf(-1)

// perPersonDayBudget is `n = target_budget / (guest_count * duration_days)`.
func perPersonDayBudget(targetBudget float64, guestCount, durationDays int) float64 {
	denom := float64(guestCount * durationDays)
	if denom <= 0 {
		return 0
	}
	return targetBudget / denom
}

// budgetTerm is `|n_self - n_other| / (n_self + n_other + eps)`.
func budgetTerm(nSelf, nOther float64) float64 {
	return math.Abs(nSelf-nOther) / (nSelf + nOther + epsilon)
}

// jaccardAsymmetric is the *asymmetric* Jaccard fraction: the share of the
// query user's own items the neighbor also has. This is intentional per
// spec §9 and must never be symmetrized.
func jaccardAsymmetric(query, other models.IDSet) float64 {
	if len(query) == 0 {
		return 0
	}
	shared := 0
	for id := range query {
		if other.Has(id) {
			shared++
		}
	}
	return float64(shared) / float64(len(query))
}

// requestNumerics pulls the three imputable numeric fields off a request,
// defaulting absent ones to zero for scoring purposes (a request missing
// these fields is expected to have already gone through Impute before
// Score is meaningful for ranking).
func requestNumerics(req *models.TourRequest) (guestCount, durationDays int, targetBudget float64) {
	if req.GuestCount != nil {
		guestCount = *req.GuestCount
	}
	if req.DurationDays != nil {
		durationDays = *req.DurationDays
	}
	if req.TargetBudget != nil {
		targetBudget = *req.TargetBudget
	}
	return
}

// Score computes the similarity between a planning request and a
// historical option (§4.4). Returns NegInf when similarity is undefined:
// different destination, or the same user.
func Score(req *models.TourRequest, option *models.HistoricalTourOption) float64 {
	if req.DestinationCityID != option.DestinationCityID {
		return NegInf
	}
	if req.UserID != "" && req.UserID == option.UserID {
		return NegInf
	}

	guestCount, durationDays, targetBudget := requestNumerics(req)
	nSelf := perPersonDayBudget(targetBudget, guestCount, durationDays)
	nOther := perPersonDayBudget(option.TargetBudget, option.GuestCount, option.DurationDays)

	score := budgetTerm(nSelf, nOther)
	score += jaccardAsymmetric(models.NewIDSet(req.HotelIDs), models.NewIDSet(option.HotelIDs))
	score += jaccardAsymmetric(models.NewIDSet(req.ActivityIDs), models.NewIDSet(option.ActivityIDs))
	score += jaccardAsymmetric(models.NewIDSet(req.RestaurantIDs), models.NewIDSet(option.RestaurantIDs))
	score += jaccardAsymmetric(models.NewIDSet(req.TransportIDs), models.NewIDSet(option.TransportIDs))

	return score
}

// ScoredNeighbor pairs a historical option with its similarity score.
type ScoredNeighbor struct {
	Option *models.HistoricalTourOption
	Score  float64
}

// TopK returns the K highest-scoring historical options for the
// destination (§4.4's top_k), excluding options whose score is NegInf.
func TopK(req *models.TourRequest, options []*models.HistoricalTourOption, k int) []ScoredNeighbor {
	neighbors := make([]ScoredNeighbor, 0, len(options))
	for _, opt := range options {
		score := Score(req, opt)
		if math.IsInf(score, -1) {
			continue
		}
		neighbors = append(neighbors, ScoredNeighbor{Option: opt, Score: score})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Score > neighbors[j].Score
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// budgetSimilarity converts the budget_term distance into a bounded
// similarity score for the 0.5/0.5 ranking blend used when selecting a
// seed option (§4.4). budget_term already lies in roughly [0, 1), so
// similarity is its complement.
func budgetSimilarity(nSelf, nOther float64) float64 {
	sim := 1 - budgetTerm(nSelf, nOther)
	if sim < 0 {
		sim = 0
	}
	return sim
}

// RankByBudgetAndRating scores each option by the 0.5*budget_similarity +
// 0.5*(rating/10) blend (§4.4) and returns them sorted best-first.
func RankByBudgetAndRating(req *models.TourRequest, options []*models.HistoricalTourOption) []ScoredNeighbor {
	guestCount, durationDays, targetBudget := requestNumerics(req)
	nSelf := perPersonDayBudget(targetBudget, guestCount, durationDays)

	ranked := make([]ScoredNeighbor, 0, len(options))
	for _, opt := range options {
		nOther := perPersonDayBudget(opt.TargetBudget, opt.GuestCount, opt.DurationDays)
		blend := 0.5*budgetSimilarity(nSelf, nOther) + 0.5*(opt.Rating/10)
		ranked = append(ranked, ScoredNeighbor{Option: opt, Score: blend})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
