package stat

import (
	"github.com/cockroachdb/errors"
)

// Hist2DOptions controls Histogram2D.
type Hist2DOptions struct {
	// NX and NY are the bin counts along x and y. Non-positive
	// values select the count automatically.
	NX, NY int

	// XRange and YRange limit the binned area; nil spans the data.
	XRange, YRange *Range
}

// Grid2D is a rectangular grid of binned values.
type Grid2D struct {
	XEdges, YEdges []float64

	// Values is indexed [row][col], rows follow y, columns follow x.
	Values [][]float64
}

// Cols returns the number of bins along x.
func (g *Grid2D) Cols() int { return len(g.XEdges) - 1 }

// Rows returns the number of bins along y.
func (g *Grid2D) Rows() int { return len(g.YEdges) - 1 }

// XCenter returns the center of column c.
func (g *Grid2D) XCenter(c int) float64 { return (g.XEdges[c] + g.XEdges[c+1]) / 2 }

// YCenter returns the center of row r.
func (g *Grid2D) YCenter(r int) float64 { return (g.YEdges[r] + g.YEdges[r+1]) / 2 }

// Histogram2D counts the unmasked pairs of x and y into a grid.
// If weights is not nil every sample contributes its weight instead of 1.
// Samples outside the ranges are ignored.
func Histogram2D(x, y Sample, weights []float64, opts Hist2DOptions) (*Grid2D, error) {
	if weights != nil && len(weights) != len(x.Values) {
		return nil, errors.AssertionFailedf("%d weights for %d samples", len(weights), len(x.Values))
	}
	for _, r := range []*Range{opts.XRange, opts.YRange} {
		if r != nil && !r.valid() {
			return nil, errors.Wrapf(ErrInvalidOptions, "bad range [%g, %g]", r.Low, r.High)
		}
	}

	// Carry the weights through the masking by pairing them with x.
	idx := make([]float64, len(x.Values))
	for i := range idx {
		idx[i] = float64(i)
	}
	xs, _, err := dropMasked(x, Sample{Values: idx, Mask: y.Mask})
	if err != nil {
		return nil, err
	}
	ys, keep, err := dropMasked(y, Sample{Values: idx, Mask: x.Mask})
	if err != nil {
		return nil, err
	}

	xe, err := binEdges(xs, opts.NX, opts.XRange)
	if err != nil {
		return nil, errors.Wrap(err, "x")
	}
	ye, err := binEdges(ys, opts.NY, opts.YRange)
	if err != nil {
		return nil, errors.Wrap(err, "y")
	}

	g := &Grid2D{XEdges: xe, YEdges: ye, Values: make([][]float64, len(ye)-1)}
	for r := range g.Values {
		g.Values[r] = make([]float64, len(xe)-1)
	}
	for i := range xs {
		c, r := binIndex(xe, xs[i]), binIndex(ye, ys[i])
		if c < 0 || r < 0 {
			continue
		}
		w := 1.0
		if weights != nil {
			w = weights[int(keep[i])]
		}
		g.Values[r][c] += w
	}
	return g, nil
}

// Smooth replaces every cell by the mean of the cells within radius
// cells in both directions. A non-positive radius is a no-op.
func (g *Grid2D) Smooth(radius int) {
	if radius <= 0 {
		return
	}
	rows, cols := g.Rows(), g.Cols()
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = make([]float64, cols)
		for c := 0; c < cols; c++ {
			sum, n := 0.0, 0
			for rr := max(0, r-radius); rr <= min(rows-1, r+radius); rr++ {
				for cc := max(0, c-radius); cc <= min(cols-1, c+radius); cc++ {
					sum += g.Values[rr][cc]
					n++
				}
			}
			out[r][c] = sum / float64(n)
		}
	}
	g.Values = out
}
