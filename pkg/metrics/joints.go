package metrics

import (
	"fmt"
	"math"

	"jointtrial/pkg/data"
)

// Column name patterns for the per-joint trajectories; %d is the joint index.
const (
	ActualPattern    = "q_%d"
	DesiredPattern   = "q_des_%d"
	CommandedPattern = "q_cmd_%d"
)

// JointError is the integrated average error of one joint, along with the RMSE
// and largest absolute error over the same samples. Err is set when the joint
// could not be scored, in which case every value is NaN.
type JointError struct {
	Joint     int
	Reference string
	Observed  string
	Value     float64
	RMSE      float64
	MaxAbs    float64
	Err       error
}

// JointErrors scores joints 0..joints-1 by comparing the reference column
// fmt.Sprintf(refPattern, i) against fmt.Sprintf(obsPattern, i). A missing or
// non-numeric column, or one with no values to compare, marks that joint as
// skipped without failing the others.
func JointErrors(ds *data.Dataset, joints int, refPattern, obsPattern string) ([]JointError, error) {
	out := make([]JointError, 0, joints)
	for i := 0; i < joints; i++ {
		je := JointError{
			Joint:     i,
			Reference: fmt.Sprintf(refPattern, i),
			Observed:  fmt.Sprintf(obsPattern, i),
			Value:     math.NaN(),
			RMSE:      math.NaN(),
			MaxAbs:    math.NaN(),
		}
		ref, err := ds.Floats(je.Reference)
		if err != nil {
			je.Err = err
			out = append(out, je)
			continue
		}
		obs, err := ds.Floats(je.Observed)
		if err != nil {
			je.Err = err
			out = append(out, je)
			continue
		}
		v, err := IntegratedAverageError(ref, obs)
		if err != nil {
			return nil, fmt.Errorf("joint %d: %w", i, err)
		}
		if math.IsNaN(v) {
			je.Err = ErrNoComparablePairs
			out = append(out, je)
			continue
		}
		je.Value = v
		// lengths already matched
		je.RMSE, _ = RMSE(ref, obs)
		je.MaxAbs, _ = MaxAbsError(ref, obs)
		out = append(out, je)
	}
	return out, nil
}

// Mean averages the scored joints. It returns NaN if none were scored.
func Mean(errs []JointError) float64 {
	sum, n := 0.0, 0
	for _, e := range errs {
		if e.Err != nil {
			continue
		}
		sum += e.Value
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
