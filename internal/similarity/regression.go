package similarity

import "github.com/exotic-travel-booking/itinerary-engine/internal/models"

// EstimateBudget fits target_budget ~ b0 + b1*duration_days +
// b2*guest_count by ordinary least squares over the given historical
// options and evaluates it at (durationDays, guestCount). Used when
// target_budget is still missing after mean imputation has nothing to
// average over, or as the regression fallback named in §4.4.
//
// The fit is a closed-form 3x3 normal-equations solve — there are only
// three parameters, so this needs no general linear-algebra dependency.
func EstimateBudget(options []*models.HistoricalTourOption, durationDays, guestCount int) float64 {
	n := float64(len(options))
	if n == 0 {
		return 0
	}

	var sumX1, sumX2, sumY float64
	var sumX1X1, sumX1X2, sumX2X2 float64
	var sumX1Y, sumX2Y float64

	for _, opt := range options {
		x1 := float64(opt.DurationDays)
		x2 := float64(opt.GuestCount)
		y := opt.TargetBudget

		sumX1 += x1
		sumX2 += x2
		sumY += y
		sumX1X1 += x1 * x1
		sumX1X2 += x1 * x2
		sumX2X2 += x2 * x2
		sumX1Y += x1 * y
		sumX2Y += x2 * y
	}

	// Normal equations matrix for [b0, b1, b2]^T:
	//   [ n      sumX1    sumX2  ] [b0]   [sumY  ]
	//   [ sumX1  sumX1X1  sumX1X2] [b1] = [sumX1Y]
	//   [ sumX2  sumX1X2  sumX2X2] [b2]   [sumX2Y]
	a := [3][3]float64{
		{n, sumX1, sumX2},
		{sumX1, sumX1X1, sumX1X2},
		{sumX2, sumX1X2, sumX2X2},
	}
	b := [3]float64{sumY, sumX1Y, sumX2Y}

	coeffs, ok := solve3x3(a, b)
	if !ok {
		// Degenerate system (e.g. all options identical) — fall back to
		// the sample mean, which is the best constant predictor.
		return sumY / n
	}

	return coeffs[0] + coeffs[1]*float64(durationDays) + coeffs[2]*float64(guestCount)
}

// solve3x3 solves Ax = b via Gaussian elimination with partial pivoting.
// Returns ok=false if A is singular (within tolerance).
func solve3x3(a [3][3]float64, b [3]float64) ([3]float64, bool) {
	const tol = 1e-9

	// Augmented matrix.
	m := [3][4]float64{
		{a[0][0], a[0][1], a[0][2], b[0]},
		{a[1][0], a[1][1], a[1][2], b[1]},
		{a[2][0], a[2][1], a[2][2], b[2]},
	}

	for col := 0; col < 3; col++ {
		pivot := col
		for row := col + 1; row < 3; row++ {
			if abs(m[row][col]) > abs(m[pivot][col]) {
				pivot = row
			}
		}
		m[col], m[pivot] = m[pivot], m[col]

		if abs(m[col][col]) < tol {
			return [3]float64{}, false
		}

		for row := 0; row < 3; row++ {
			if row == col {
				continue
			}
			factor := m[row][col] / m[col][col]
			for k := col; k < 4; k++ {
				m[row][k] -= factor * m[col][k]
			}
		}
	}

	var x [3]float64
	for i := 0; i < 3; i++ {
		x[i] = m[i][3] / m[i][i]
	}
	return x, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
