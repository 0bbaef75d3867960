package stat

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
)

// AutoBins returns the automatic number of bins for n samples.
// This is the square root rule gonum/plot uses for histograms.
func AutoBins(n int) int {
	if n < 1 {
		return 1
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

// Edges returns the n+1 boundaries of n equal width bins over r.
// A non-positive n selects AutoBins of the in-range values of xs.
// A nil r spans the finite values of xs.
func Edges(xs []float64, n int, r *Range) ([]float64, error) {
	return binEdges(xs, n, r)
}

func binEdges(xs []float64, n int, r *Range) ([]float64, error) {
	var lo, hi float64
	if r != nil {
		lo, hi = r.Low, r.High
	} else {
		var ok bool
		lo, hi, ok = finiteBounds(xs)
		if !ok {
			return nil, errors.Wrap(ErrInsufficientData, "no finite values to bin")
		}
		if lo == hi {
			lo, hi = lo-0.5, hi+0.5
		}
	}

	if n <= 0 {
		in := 0
		for _, x := range xs {
			if x >= lo && x <= hi {
				in++
			}
		}
		n = AutoBins(in)
	}
	return floats.Span(make([]float64, n+1), lo, hi), nil
}

func finiteBounds(xs []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
		ok = true
	}
	return lo, hi, ok
}

// binIndex returns the bin of x or -1 if x lies outside the edges.
func binIndex(edges []float64, x float64) int {
	nb := len(edges) - 1
	if !(x >= edges[0] && x <= edges[nb]) {
		return -1
	}
	if x == edges[nb] {
		return nb - 1
	}
	return sort.Search(len(edges), func(k int) bool { return edges[k] > x }) - 1
}

// assign collects the y value of every sample into the bin of its x.
func assign(xs, ys, edges []float64) [][]float64 {
	members := make([][]float64, len(edges)-1)
	for i, x := range xs {
		b := binIndex(edges, x)
		if b < 0 {
			continue
		}
		members[b] = append(members[b], ys[i])
	}
	return members
}
