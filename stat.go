package plot

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot/plotter"

	"github.com/c3sdr/plot/geo"
	"github.com/c3sdr/plot/stat"
)

// Layer is the plot ready data of one Series after its statistical
// transform.
type Layer struct {
	Series *Series

	// Points to draw, finite only.
	Points plotter.XYs

	// Errors are the y uncertainties of Points, nil if there are none.
	// Entries may be NaN.
	Errors []float64

	// Index maps each point to its sample index, or for binned series
	// to its bin among all bins, empty ones included.
	Index []int

	// Colors are the z values of Points for colour mapped kinds.
	Colors []float64

	// Grid is set for hist2d and density kinds.
	Grid *stat.Grid2D

	// Binned is set for binned kinds.
	Binned *stat.BinnedData

	// Dropped counts samples which were not finite.
	Dropped int
}

func (l *Layer) add(i int, x, y float64) bool {
	if !finite(x) || !finite(y) {
		l.Dropped++
		return false
	}
	l.Points = append(l.Points, plotter.XY{X: x, Y: y})
	l.Index = append(l.Index, i)
	return true
}

// Stat is the interface of statistical transforms.
//
// A statistical transform turns the raw data of a series into the data
// drawn for it, e.g. by binning.
type Stat interface {
	// Name returns the name of this statistic.
	Name() string

	// Apply this statistic to the series. The panel options supply
	// ranges and estimator settings.
	Apply(s *Series, opts *PanelOptions) (*Layer, error)
}

// statFor returns the statistical transform of a plot kind.
func statFor(k Kind) Stat {
	switch k {
	case Mean:
		return StatBinned{Mode: stat.Mean}
	case MeanAndUncert:
		return StatBinned{Mode: stat.MeanAndUncertainty}
	case Hist2D:
		return StatHist2D{}
	case ScatterGeo:
		return StatIdentity{Projection: geo.Equirectangular}
	case ScatterMapbox:
		return StatIdentity{Projection: geo.WebMercator}
	case DensityMapbox:
		return StatDensity{}
	}
	return StatIdentity{}
}

// -------------------------------------------------------------------------
// StatIdentity

// StatIdentity keeps the unmasked, finite points, projected for
// geographic kinds.
type StatIdentity struct {
	Projection geo.Projection
}

var _ Stat = StatIdentity{}

func (StatIdentity) Name() string { return "StatIdentity" }

func (s StatIdentity) Apply(series *Series, _ *PanelOptions) (*Layer, error) {
	xm, ym, err := series.masks()
	if err != nil {
		return nil, err
	}
	xs, ys := series.X, series.Y
	if series.Kind.surface() != cartesianSurface {
		xs, ys = s.Projection.Project(xs, ys)
	}

	layer := &Layer{Series: series}
	if series.E != nil {
		layer.Errors = []float64{}
	}
	if series.Z != nil {
		layer.Colors = []float64{}
	}
	for i := range xs {
		if (xm != nil && xm[i]) || (ym != nil && ym[i]) {
			continue
		}
		if !layer.add(i, xs[i], ys[i]) {
			continue
		}
		if series.E != nil {
			layer.Errors = append(layer.Errors, series.E[i])
		}
		if series.Z != nil {
			layer.Colors = append(layer.Colors, series.Z[i])
		}
	}
	return layer, nil
}

// -------------------------------------------------------------------------
// StatBinned

// StatBinned bins y along x and reports the mean or median per bin.
type StatBinned struct {
	Mode stat.Mode
}

var _ Stat = StatBinned{}

func (StatBinned) Name() string { return "StatBinned" }

func (s StatBinned) Apply(series *Series, opts *PanelOptions) (*Layer, error) {
	xm, ym, err := series.masks()
	if err != nil {
		return nil, err
	}
	binned, err := stat.Binned(
		stat.Sample{Values: series.X, Mask: xm},
		stat.Sample{Values: series.Y, Mask: ym},
		&stat.BinOptions{
			NBins:            series.NBins,
			Range:            opts.XRange,
			Robust:           opts.Robust,
			MinCount:         opts.MinN,
			OutlierThreshold: opts.Outliers,
			Mode:             s.Mode,
		})
	if err != nil {
		return nil, err
	}

	layer := &Layer{Series: series, Binned: binned}
	if binned.Uncertainties != nil {
		layer.Errors = []float64{}
	}
	for i, c := range binned.Centers {
		if !layer.add(binned.Bins[i], c, binned.Values[i]) {
			continue
		}
		if binned.Uncertainties != nil {
			layer.Errors = append(layer.Errors, binned.Uncertainties[i])
		}
	}
	return layer, nil
}

// -------------------------------------------------------------------------
// StatHist2D

// StatHist2D counts samples into a 2D grid.
type StatHist2D struct{}

var _ Stat = StatHist2D{}

func (StatHist2D) Name() string { return "StatHist2D" }

func (StatHist2D) Apply(series *Series, opts *PanelOptions) (*Layer, error) {
	xm, ym, err := series.masks()
	if err != nil {
		return nil, err
	}
	ny := series.NBinsY
	if ny == 0 {
		ny = series.NBins
	}
	grid, err := stat.Histogram2D(
		stat.Sample{Values: series.X, Mask: xm},
		stat.Sample{Values: series.Y, Mask: ym},
		nil,
		stat.Hist2DOptions{NX: series.NBins, NY: ny, XRange: opts.XRange, YRange: opts.YRange})
	if err != nil {
		return nil, err
	}
	return &Layer{Series: series, Grid: grid}, nil
}

// -------------------------------------------------------------------------
// StatDensity

// StatDensity sums z (or counts) of projected lon/lat samples into a
// smoothed Web Mercator grid.
type StatDensity struct{}

var _ Stat = StatDensity{}

func (StatDensity) Name() string { return "StatDensity" }

func (StatDensity) Apply(series *Series, _ *PanelOptions) (*Layer, error) {
	xm, ym, err := series.masks()
	if err != nil {
		return nil, err
	}
	xs, ys := geo.WebMercator.Project(series.X, series.Y)

	// Drop non-finite samples through the masks so weights stay aligned.
	xm, ym = finiteMask(xm, xs, ys), finiteMask(ym, xs, ys)
	if series.Z != nil {
		xm, ym = finiteMask(xm, series.Z), finiteMask(ym, series.Z)
	}

	grid, err := stat.Histogram2D(
		stat.Sample{Values: xs, Mask: xm},
		stat.Sample{Values: ys, Mask: ym},
		series.Z,
		stat.Hist2DOptions{NX: series.NBins, NY: series.NBins})
	if err != nil {
		return nil, errors.Wrap(err, "density")
	}
	grid.Smooth(series.Radius)
	return &Layer{Series: series, Grid: grid}, nil
}

// finiteMask returns m with all positions masked where any of vs is
// not finite.
func finiteMask(m []bool, vs ...[]float64) []bool {
	out := make([]bool, len(vs[0]))
	for i := range out {
		out[i] = m != nil && m[i]
		for _, v := range vs {
			if !finite(v[i]) {
				out[i] = true
			}
		}
	}
	return out
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
