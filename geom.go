package plot

import (
	"image/color"
	"math"

	"github.com/cockroachdb/errors"
	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/c3sdr/plot/stat"
)

// Geom is a geometrical object, a type of visual for the plot.
type Geom interface {
	// Name of the geom.
	Name() string

	// Construct the gonum plotters which draw the layer.
	Construct(layer *Layer, aes Aesthetics) (Fundamental, error)
}

// Aesthetics are the resolved fixed styles of a layer.
type Aesthetics struct {
	Theme *Theme

	// Color is the colour of the series in its panel.
	Color color.Color

	// Warnf reports recoverable problems.
	Warnf func(f string, args ...interface{})
}

func (a Aesthetics) warnf(f string, args ...interface{}) {
	if a.Warnf != nil {
		a.Warnf(f, args...)
	}
}

// Fundamental is what a geom draws: the plotters added to the panel and
// the thumbnails shown in its legend.
type Fundamental struct {
	Plotters []gonumplot.Plotter
	Thumbs   []gonumplot.Thumbnailer
}

func (f *Fundamental) add(p gonumplot.Plotter, thumb bool) {
	f.Plotters = append(f.Plotters, p)
	if t, ok := p.(gonumplot.Thumbnailer); ok && thumb {
		f.Thumbs = append(f.Thumbs, t)
	}
}

// geomFor returns the geom drawing a plot kind.
func geomFor(k Kind) Geom {
	switch k {
	case Hist2D, DensityMapbox:
		return GeomHeatMap{}
	}
	return GeomPoint{}
}

// -------------------------------------------------------------------------
// Geom Point

// GeomPoint draws markers, connecting lines and error bars. If the
// layer has colour values the markers are coloured by them.
type GeomPoint struct{}

var _ Geom = GeomPoint{}

func (GeomPoint) Name() string { return "GeomPoint" }

func (GeomPoint) Construct(layer *Layer, aes Aesthetics) (Fundamental, error) {
	var fund Fundamental
	if len(layer.Points) == 0 {
		return fund, nil
	}
	series := layer.Series
	theme := aes.Theme

	if series.Mode == Lines || series.Mode == LinesMarkers {
		line, err := plotter.NewLine(layer.Points)
		if err != nil {
			return fund, errors.Wrap(err, "line")
		}
		line.LineStyle.Color = aes.Color
		line.LineStyle.Width = theme.LineWidth
		fund.add(line, series.Mode == Lines)
	}

	if layer.Errors != nil {
		bars, dropped, err := errorBars(layer)
		if err != nil {
			return fund, err
		}
		if dropped > 0 {
			aes.warnf("%s: dropped %d error bars without finite uncertainty", series.Label, dropped)
		}
		if bars != nil {
			bars.LineStyle.Color = aes.Color
			bars.LineStyle.Width = theme.LineWidth
			bars.CapWidth = theme.ErrorCapWidth
			fund.add(bars, false)
		}
	}

	if series.Mode == Markers || series.Mode == LinesMarkers {
		scatter, err := plotter.NewScatter(layer.Points)
		if err != nil {
			return fund, errors.Wrap(err, "scatter")
		}
		scatter.GlyphStyle = glyphStyle(series.Marker, aes.Color, theme)
		if styleFunc := pointStyles(layer, scatter.GlyphStyle, aes); styleFunc != nil {
			scatter.GlyphStyleFunc = styleFunc
		}
		fund.add(scatter, true)
	}
	return fund, nil
}

// glyphStyle resolves a marker against the series colour and the theme.
func glyphStyle(m Marker, col color.Color, theme *Theme) draw.GlyphStyle {
	if c, ok := String2Color(m.Color); ok {
		col = c
	}
	size := m.Size
	if size <= 0 {
		size = theme.MarkerSize
	}
	return draw.GlyphStyle{
		Color:  col,
		Radius: vg.Points(size / 2),
		Shape:  String2PointShape(m.Symbol).Glyph(),
	}
}

// pointStyles returns the per point style of a layer with colour values
// or a selection, nil if all points look the same.
func pointStyles(layer *Layer, base draw.GlyphStyle, aes Aesthetics) func(int) draw.GlyphStyle {
	series := layer.Series
	var colorAt func(i int) color.Color
	if layer.Colors != nil {
		cmap := colorScale(series.Color, layer.Colors, series.CMin, series.CMax)
		colorAt = func(i int) color.Color { return mapColor(cmap, layer.Colors[i]) }
	}
	if colorAt == nil && len(series.Selected) == 0 {
		return nil
	}

	styleOf := func(m Marker, i int) draw.GlyphStyle {
		st := base
		if colorAt != nil {
			st.Color = colorAt(i)
		}
		if m.isZero() {
			return st
		}
		if c, ok := String2Color(m.Color); ok {
			st.Color = c
		}
		if m.Size > 0 {
			st.Radius = vg.Points(m.Size / 2)
		}
		if m.Symbol != "" {
			st.Shape = String2PointShape(m.Symbol).Glyph()
		}
		return st
	}
	if len(series.Selected) == 0 {
		return func(i int) draw.GlyphStyle { return styleOf(Marker{}, i) }
	}

	selected := NewIndexSet(series.Selected...)
	return func(i int) draw.GlyphStyle {
		if selected.Contains(layer.Index[i]) {
			return styleOf(series.SelectedMarker, i)
		}
		st := styleOf(series.UnselectedMarker, i)
		if series.UnselectedMarker.Color == "" {
			st.Color = SetAlpha(st.Color, aes.Theme.UnselectedAlpha)
		}
		return st
	}
}

// errorPoints pairs points with symmetric y errors.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// errorBars builds the error bars of all points with a finite, non
// negative uncertainty. It returns nil bars if there is none.
func errorBars(layer *Layer) (*plotter.YErrorBars, int, error) {
	var pts errorPoints
	dropped := 0
	for i, e := range layer.Errors {
		if !finite(e) || e < 0 {
			dropped++
			continue
		}
		pts.XYs = append(pts.XYs, layer.Points[i])
		pts.YErrors = append(pts.YErrors, struct{ Low, High float64 }{e, e})
	}
	if len(pts.XYs) == 0 {
		return nil, dropped, nil
	}
	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return nil, dropped, errors.Wrap(err, "error bars")
	}
	return bars, dropped, nil
}

// -------------------------------------------------------------------------
// Geom HeatMap

// GeomHeatMap draws a 2D grid as coloured cells.
type GeomHeatMap struct{}

var _ Geom = GeomHeatMap{}

func (GeomHeatMap) Name() string { return "GeomHeatMap" }

func (GeomHeatMap) Construct(layer *Layer, aes Aesthetics) (Fundamental, error) {
	var fund Fundamental
	grid := layer.Grid
	if grid == nil || grid.Cols() < 1 || grid.Rows() < 1 {
		return fund, nil
	}
	series := layer.Series

	var all []float64
	for _, row := range grid.Values {
		all = append(all, row...)
	}
	lo, hi := colorRange(all, series.CMin, series.CMax)

	pal := ColorMap(series.Color).Palette(256)
	hm := plotter.NewHeatMap(heatGrid{grid}, pal)
	hm.Min, hm.Max = lo, hi
	colors := pal.Colors()
	hm.Underflow, hm.Overflow = colors[0], colors[len(colors)-1]
	fund.add(hm, false)
	return fund, nil
}

// heatGrid adapts a stat.Grid2D to plotter.GridXYZ.
type heatGrid struct {
	*stat.Grid2D
}

func (g heatGrid) Dims() (c, r int)   { return g.Cols(), g.Rows() }
func (g heatGrid) Z(c, r int) float64 { return g.Values[r][c] }
func (g heatGrid) X(c int) float64    { return g.XCenter(c) }
func (g heatGrid) Y(r int) float64    { return g.YCenter(r) }

// -------------------------------------------------------------------------
// Colour mapping

// colorRange returns the colour scale limits: cmin and cmax if set,
// else the finite range of vs. The range is never empty.
func colorRange(vs []float64, cmin, cmax *float64) (lo, hi float64) {
	if cmin != nil && cmax != nil {
		lo, hi = *cmin, *cmax
	} else {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, v := range vs {
			if finite(v) {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
		if lo > hi {
			lo, hi = 0, 1
		}
	}
	if lo == hi {
		hi = lo + 1
	}
	return lo, hi
}

// colorScale returns the named colour map spanning the colour range
// of vs.
func colorScale(name string, vs []float64, cmin, cmax *float64) palette.ColorMap {
	cmap := ColorMap(name)
	lo, hi := colorRange(vs, cmin, cmax)
	cmap.SetMax(hi)
	cmap.SetMin(lo)
	return cmap
}

// mapColor looks up v, clamped to the range of cmap. NaN is gray.
func mapColor(cmap palette.ColorMap, v float64) color.Color {
	if math.IsNaN(v) {
		return color.Gray{0x80}
	}
	c, err := cmap.At(math.Max(cmap.Min(), math.Min(cmap.Max(), v)))
	if err != nil {
		return color.Gray{0x80}
	}
	return c
}
