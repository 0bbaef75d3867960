// Package stat computes binned statistics of paired samples.
//
// Samples are partitioned into equal width bins along x and for every
// populated bin a central value of y (mean or median) and its uncertainty
// (standard error of the mean or a robust equivalent) is computed.
//
// Bins are half open intervals [e[i], e[i+1]) except the last one which
// is closed on both ends, like NumPy's histogram.
package stat

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
)

// DefaultMinCount is the population the fullest bin must reach when
// BinOptions.MinCount is zero.
const DefaultMinCount = 20

var (
	// ErrInsufficientData is returned if the fullest bin holds fewer
	// samples than the requested minimum count.
	ErrInsufficientData = errors.New("insufficient number of data points per bin")

	// ErrInvalidOptions is returned for option combinations which cannot
	// be computed.
	ErrInvalidOptions = errors.New("invalid binning options")
)

// IsPrecondition reports whether err is a precondition violation: either
// a mask mismatch (an assertion failure) or invalid options.
func IsPrecondition(err error) bool {
	return errors.IsAssertionFailure(err) || errors.Is(err, ErrInvalidOptions)
}

// Mode selects which statistics are returned.
type Mode int

const (
	// Mean computes the central value only.
	Mean Mode = iota
	// MeanAndUncertainty computes the central value and its uncertainty.
	MeanAndUncertainty
)

func (m Mode) String() string {
	switch m {
	case Mean:
		return "mean"
	case MeanAndUncertainty:
		return "mean_and_uncert"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Sample is a sequence of observations with an optional mask.
// A true Mask entry excludes the observation, a nil Mask excludes nothing.
type Sample struct {
	Values []float64
	Mask   []bool
}

func (s Sample) masked(i int) bool { return s.Mask != nil && s.Mask[i] }

// Range is a closed interval.
type Range struct {
	Low, High float64
}

func (r Range) valid() bool {
	return !math.IsNaN(r.Low) && !math.IsNaN(r.High) &&
		!math.IsInf(r.Low, 0) && !math.IsInf(r.High, 0) && r.Low < r.High
}

// BinOptions controls Binned. A nil *BinOptions uses the zero value.
type BinOptions struct {
	// NBins is the number of equal width bins. Zero or negative
	// selects the number automatically.
	NBins int

	// Range limits the binned x interval. Nil uses the extrema of
	// the unmasked x values.
	Range *Range

	// Robust selects median and IQR/1.349 instead of mean and
	// standard deviation.
	Robust bool

	// MinCount is the minimum population of the fullest bin.
	// Zero means DefaultMinCount.
	MinCount int

	// OutlierThreshold enables one outlier rejection pass if positive.
	// Requires Robust.
	OutlierThreshold float64

	Mode Mode
}

func (o *BinOptions) withDefaults() BinOptions {
	var opts BinOptions
	if o != nil {
		opts = *o
	}
	if opts.MinCount == 0 {
		opts.MinCount = DefaultMinCount
	}
	return opts
}

func (o BinOptions) validate() error {
	switch o.Mode {
	case Mean, MeanAndUncertainty:
	default:
		return errors.Wrapf(ErrInvalidOptions, "unknown mode %s", o.Mode)
	}
	if math.IsNaN(o.OutlierThreshold) {
		return errors.Wrap(ErrInvalidOptions, "outlier threshold is NaN")
	}
	if o.OutlierThreshold > 0 && !o.Robust {
		return errors.Wrap(ErrInvalidOptions, "outlier rejection needs robust statistics")
	}
	if o.Range != nil && !o.Range.valid() {
		return errors.Wrapf(ErrInvalidOptions, "bad range [%g, %g]", o.Range.Low, o.Range.High)
	}
	return nil
}

// BinnedData is the result of Binned. Bins, Centers, Values, Counts and
// Uncertainties are index aligned and contain only populated bins.
type BinnedData struct {
	// Edges are all NBins+1 bin boundaries, populated or not.
	Edges []float64

	// Bins are the indices of the populated bins among all NBins.
	Bins []int

	Centers []float64
	Values  []float64

	// Uncertainties is nil in Mean mode. Bins with a single member
	// have a NaN uncertainty.
	Uncertainties []float64

	Counts []int

	// Rejected is the number of samples dropped by outlier rejection.
	Rejected int
}

// Len returns the number of populated bins.
func (b *BinnedData) Len() int { return len(b.Centers) }

// Binned partitions the paired samples x and y into bins along x and
// computes per bin statistics of y.
//
// Masked samples are dropped first. The call fails with an assertion
// failure if x and y have different masks and with ErrInsufficientData
// if the fullest bin holds fewer than MinCount samples, checked once
// before and, with outlier rejection, once after refinement.
func Binned(x, y Sample, options *BinOptions) (*BinnedData, error) {
	opts := options.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	xs, ys, err := dropMasked(x, y)
	if err != nil {
		return nil, err
	}

	edges, err := binEdges(xs, opts.NBins, opts.Range)
	if err != nil {
		return nil, err
	}
	members := assign(xs, ys, edges)
	if err := checkPopulation(members, opts.MinCount); err != nil {
		return nil, err
	}

	est := estimatorFor(opts.Robust)
	values, uncerts := summarize(members, est)

	rejected := 0
	if opts.OutlierThreshold > 0 {
		members, rejected = rejectOutliers(members, values, uncerts, opts.OutlierThreshold)
		if err := checkPopulation(members, opts.MinCount); err != nil {
			return nil, errors.Wrapf(err, "after rejecting %d outliers", rejected)
		}
		values, uncerts = summarize(members, est)
	}

	res := &BinnedData{Edges: edges, Rejected: rejected}
	withUncert := opts.Mode == MeanAndUncertainty
	if withUncert {
		res.Uncertainties = []float64{}
	}
	for i, m := range members {
		if len(m) == 0 {
			continue
		}
		res.Bins = append(res.Bins, i)
		res.Centers = append(res.Centers, (edges[i]+edges[i+1])/2)
		res.Values = append(res.Values, values[i])
		res.Counts = append(res.Counts, len(m))
		if withUncert {
			res.Uncertainties = append(res.Uncertainties, uncerts[i])
		}
	}
	return res, nil
}

// dropMasked returns the unmasked pairs of x and y.
func dropMasked(x, y Sample) ([]float64, []float64, error) {
	n := len(x.Values)
	if len(y.Values) != n {
		return nil, nil, errors.AssertionFailedf("x has %d values but y has %d", n, len(y.Values))
	}
	if x.Mask != nil && len(x.Mask) != n {
		return nil, nil, errors.AssertionFailedf("x mask has %d entries, want %d", len(x.Mask), n)
	}
	if y.Mask != nil && len(y.Mask) != n {
		return nil, nil, errors.AssertionFailedf("y mask has %d entries, want %d", len(y.Mask), n)
	}
	if x.Mask == nil && y.Mask == nil {
		return x.Values, y.Values, nil
	}

	xs, ys := make([]float64, 0, n), make([]float64, 0, n)
	for i := 0; i < n; i++ {
		mx, my := x.masked(i), y.masked(i)
		if mx != my {
			return nil, nil, errors.AssertionFailedf("x and y have different masks at index %d", i)
		}
		if mx {
			continue
		}
		xs = append(xs, x.Values[i])
		ys = append(ys, y.Values[i])
	}
	return xs, ys, nil
}

func checkPopulation(members [][]float64, min int) error {
	largest := 0
	for _, m := range members {
		if len(m) > largest {
			largest = len(m)
		}
	}
	if largest < min {
		return errors.Wrapf(ErrInsufficientData, "fullest bin holds %d samples, need %d", largest, min)
	}
	return nil
}

// summarize computes central value and uncertainty of every bin.
// Empty bins get NaN for both.
func summarize(members [][]float64, est estimator) (values, uncerts []float64) {
	values = make([]float64, len(members))
	uncerts = make([]float64, len(members))
	for i, ys := range members {
		if len(ys) == 0 {
			values[i], uncerts[i] = math.NaN(), math.NaN()
			continue
		}
		center, sigma := est.estimate(ys)
		values[i] = center
		uncerts[i] = sigma / math.Sqrt(float64(len(ys)))
	}
	return values, uncerts
}

// rejectOutliers drops every sample whose residual normalized by its
// bin's uncertainty reaches threshold in magnitude.
func rejectOutliers(members [][]float64, values, uncerts []float64, threshold float64) ([][]float64, int) {
	kept := make([][]float64, len(members))
	rejected := 0
	for i, ys := range members {
		u := uncerts[i]
		if len(ys) == 0 || !(u > 0) || math.IsInf(u, 1) {
			kept[i] = ys
			continue
		}
		k := make([]float64, 0, len(ys))
		for _, y := range ys {
			if math.Abs(y-values[i])/u >= threshold {
				rejected++
				continue
			}
			k = append(k, y)
		}
		kept[i] = k
	}
	return kept, rejected
}
