package metrics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrLengthMismatch    = errors.New("true and actual series must have the same length")
	// ErrNoComparablePairs marks a joint whose columns share no present value.
	ErrNoComparablePairs = errors.New("no pair of values present in both series")
)

// residuals returns truth-actual for every index where both values are present.
func residuals(truth, actual []float64) ([]float64, error) {
	if len(truth) != len(actual) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(truth), len(actual))
	}
	d := make([]float64, 0, len(truth))
	for i := range truth {
		if math.IsNaN(truth[i]) || math.IsNaN(actual[i]) {
			continue
		}
		d = append(d, truth[i]-actual[i])
	}
	return d, nil
}

// IntegratedAverageError is the mean absolute difference between two
// equal-length series. Indices where either value is NaN are left out of the
// mean; with nothing left to compare the result is NaN. A length mismatch is
// the only error.
func IntegratedAverageError(truth, actual []float64) (float64, error) {
	d, err := residuals(truth, actual)
	if err != nil || len(d) == 0 {
		return math.NaN(), err
	}
	return floats.Norm(d, 1) / float64(len(d)), nil
}

// MSE is the mean squared difference.
func MSE(truth, actual []float64) (float64, error) {
	d, err := residuals(truth, actual)
	if err != nil || len(d) == 0 {
		return math.NaN(), err
	}
	return floats.Dot(d, d) / float64(len(d)), nil
}

func RMSE(truth, actual []float64) (float64, error) {
	m, err := MSE(truth, actual)
	if err != nil {
		return math.NaN(), err
	}
	return math.Sqrt(m), nil
}

// MaxAbsError is the largest absolute difference.
func MaxAbsError(truth, actual []float64) (float64, error) {
	d, err := residuals(truth, actual)
	if err != nil || len(d) == 0 {
		return math.NaN(), err
	}
	return floats.Norm(d, math.Inf(1)), nil
}
