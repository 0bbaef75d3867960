package stat

import (
	"math"

	"github.com/aclements/go-moremath/stats"
	gostat "gonum.org/v1/gonum/stat"
)

// RobustSigmaScale converts an interquartile range into the standard
// deviation of a normal distribution.
const RobustSigmaScale = 1.349

// An estimator computes the central value and the spread of a bin.
// The spread of a single sample is NaN.
type estimator interface {
	estimate(ys []float64) (center, sigma float64)
}

func estimatorFor(robust bool) estimator {
	if robust {
		return robustEstimator{}
	}
	return meanEstimator{}
}

// meanEstimator uses the arithmetic mean and the sample standard
// deviation with n-1 degrees of freedom.
type meanEstimator struct{}

func (meanEstimator) estimate(ys []float64) (float64, float64) {
	if len(ys) < 2 {
		return gostat.Mean(ys, nil), math.NaN()
	}
	return gostat.MeanStdDev(ys, nil)
}

// robustEstimator uses the median and the interquartile range scaled
// by RobustSigmaScale. It sorts ys in place.
type robustEstimator struct{}

func (robustEstimator) estimate(ys []float64) (float64, float64) {
	s := stats.Sample{Xs: ys}
	s.Sort()
	median := quantile(s.Xs, 0.5)
	if len(ys) < 2 {
		return median, math.NaN()
	}
	iqr := quantile(s.Xs, 0.75) - quantile(s.Xs, 0.25)
	return median, iqr / RobustSigmaScale
}

// quantile returns the q quantile of the sorted xs, interpolating
// linearly between the closest ranks (h = (n-1)q).
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * q
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// median returns the median of xs. xs is not modified.
func median(xs []float64) float64 {
	c, _ := robustEstimator{}.estimate(append([]float64(nil), xs...))
	return c
}

// robustSigma returns IQR/1.349 of xs, NaN for fewer than two values.
// xs is not modified.
func robustSigma(xs []float64) float64 {
	_, s := robustEstimator{}.estimate(append([]float64(nil), xs...))
	return s
}
