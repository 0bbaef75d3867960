package plot

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrUnknownKind is returned for unrecognised plot kinds.
	ErrUnknownKind = errors.New("plot type not recognized")

	// ErrInvalidSeries is returned for inconsistent series data or options.
	ErrInvalidSeries = errors.New("invalid series")
)

// Kind is the type of plot used to draw a Series.
type Kind int

const (
	Scatter Kind = iota
	Hist2D
	Mean
	MeanAndUncert
	ScatterGeo
	ScatterMapbox
	DensityMapbox
)

var kindNames = [...]string{
	Scatter:       "scatter",
	Hist2D:        "hist2d",
	Mean:          "mean",
	MeanAndUncert: "mean_and_uncert",
	ScatterGeo:    "scattergeo",
	ScatterMapbox: "scattermapbox",
	DensityMapbox: "densitymapbox",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a plot type name. The empty string is Scatter.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return Scatter, nil
	}
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownKind, "%q", s)
}

func (k Kind) valid() bool { return k >= Scatter && k <= DensityMapbox }

func (k Kind) binned() bool { return k == Mean || k == MeanAndUncert }

// surface tells which kind of panel a series can be drawn on.
func (k Kind) surface() surface {
	switch k {
	case ScatterGeo:
		return geoSurface
	case ScatterMapbox, DensityMapbox:
		return mapSurface
	}
	return cartesianSurface
}

type surface int

const (
	cartesianSurface surface = iota
	geoSurface
	mapSurface
)

// LineMode selects how scatter and binned series are drawn.
type LineMode int

const (
	Markers LineMode = iota
	Lines
	LinesMarkers
)

// ParseLineMode parses "markers", "lines" and "lines+markers".
// The empty string is Markers.
func ParseLineMode(s string) (LineMode, error) {
	switch s {
	case "", "markers":
		return Markers, nil
	case "lines":
		return Lines, nil
	case "lines+markers":
		return LinesMarkers, nil
	}
	return 0, errors.Wrapf(ErrInvalidSeries, "invalid mode %q for scatter plot", s)
}

// Marker styles the points of a series. Zero fields use the theme or
// the series defaults.
type Marker struct {
	// Symbol is a marker symbol name, see String2PointShape.
	Symbol string

	// Size is the marker diameter in points.
	Size float64

	// Color is a colour name or hex code.
	Color string
}

func (m Marker) isZero() bool { return m == Marker{} }

// Series is one data set drawn in a panel together with all of its
// options.
type Series struct {
	Kind Kind

	// X and Y are the paired coordinates. For geographic kinds X is
	// the longitude and Y the latitude.
	X, Y []float64

	// Z colours geographic points and weights density maps.
	Z []float64

	// E holds per point y uncertainties of scatter series.
	E []float64

	// XMask and YMask exclude samples where true.
	XMask, YMask []bool

	// DataFlags holds one row of quality flags per flag kind,
	// each as long as X. Flags holds the bits tested in each row.
	DataFlags [][]uint64
	Flags     []uint64

	Label string

	// Color is a colour for point kinds and a colour map name for
	// hist2d and map kinds.
	Color string

	Marker Marker
	Mode   LineMode

	// NBins is the number of bins of binned kinds and along x of
	// 2D histograms. Non-positive values select it automatically.
	NBins int

	// NBinsY is the number of 2D histogram bins along y. Zero uses NBins.
	NBinsY int

	// CMin and CMax limit the colour scale. Both or none must be set.
	CMin, CMax *float64

	// Radius is the smoothing radius of density maps in bins.
	Radius int

	// Selected holds indices of selected points. They are drawn with
	// SelectedMarker, all others with UnselectedMarker.
	Selected         []int
	SelectedMarker   Marker
	UnselectedMarker Marker
}

func (s *Series) validate() error {
	if !s.Kind.valid() {
		return errors.Wrapf(ErrUnknownKind, "%s", s.Kind)
	}
	n := len(s.X)
	if len(s.Y) != n {
		return errors.Wrapf(ErrInvalidSeries, "x has %d values but y has %d", n, len(s.Y))
	}
	for _, c := range []struct {
		name string
		len  int
		set  bool
	}{
		{"z", len(s.Z), s.Z != nil},
		{"e", len(s.E), s.E != nil},
		{"x mask", len(s.XMask), s.XMask != nil},
		{"y mask", len(s.YMask), s.YMask != nil},
	} {
		if c.set && c.len != n {
			return errors.Wrapf(ErrInvalidSeries, "%s has %d values, want %d", c.name, c.len, n)
		}
	}
	if (s.CMin == nil) != (s.CMax == nil) {
		return errors.Wrap(ErrInvalidSeries, "cmin and cmax must be set together")
	}
	if s.CMin != nil && *s.CMin > *s.CMax {
		return errors.Wrapf(ErrInvalidSeries, "cmin %g above cmax %g", *s.CMin, *s.CMax)
	}
	if s.Mode < Markers || s.Mode > LinesMarkers {
		return errors.Wrapf(ErrInvalidSeries, "invalid line mode %d", s.Mode)
	}
	return nil
}

// masks returns the x and y masks with the flag mask merged into both.
func (s *Series) masks() (xm, ym []bool, err error) {
	xm, ym = s.XMask, s.YMask
	if s.DataFlags == nil {
		return xm, ym, nil
	}
	fm, err := FlagMask(s.DataFlags, s.Flags, len(s.X))
	if err != nil {
		return nil, nil, err
	}
	return orMask(xm, fm), orMask(ym, fm), nil
}

func orMask(m, fm []bool) []bool {
	out := make([]bool, len(fm))
	for i := range out {
		out[i] = fm[i] || (m != nil && m[i])
	}
	return out
}
