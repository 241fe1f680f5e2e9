package forecast

import "math"

// smapeEpsilon keeps the denominator away from zero for flat-zero series.
const smapeEpsilon = 1e-9

// disqualifiedError is the score assigned to a model that failed to fit,
// effectively removing it from contention without aborting the tournament.
const disqualifiedError = 100.0

// SMAPE computes the symmetric mean absolute percentage error:
// 100 * mean(2*|pred-actual| / (|actual|+|pred|+eps)).
func SMAPE(actual, pred []float64) float64 {
	if len(actual) == 0 || len(actual) != len(pred) {
		return disqualifiedError
	}
	var sum float64
	for i := range actual {
		num := 2 * math.Abs(pred[i]-actual[i])
		den := math.Abs(actual[i]) + math.Abs(pred[i]) + smapeEpsilon
		sum += num / den
	}
	return 100 * sum / float64(len(actual))
}
