package plot

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"
	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/c3sdr/plot/geo"
	"github.com/c3sdr/plot/stat"
)

var (
	// ErrInvalidFigure is returned for bad layouts, positions and mixed
	// panel types.
	ErrInvalidFigure = errors.New("invalid figure")

	// ErrEmptyFigure is returned when rendering a figure without plots.
	ErrEmptyFigure = errors.New("figure has no plots")
)

// Range is a closed interval of an axis.
type Range = stat.Range

// Layout is the grid of panels of a multi panel figure.
type Layout struct {
	Rows, Cols int
}

// Position of a panel in the layout. Rows and columns count from 1.
type Position struct {
	Row, Col int
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// FontStyle is the figure wide font. Zero fields keep the defaults.
type FontStyle struct {
	// Size in points.
	Size float64

	// Color is a colour name or hex code.
	Color string
}

func (f FontStyle) applyText(size *vg.Length, col *color.Color) {
	if f.Size > 0 {
		*size = vg.Points(f.Size)
	}
	if c, ok := String2Color(f.Color); ok {
		*col = c
	}
}

// FigureOptions configure a Figure.
type FigureOptions struct {
	// Layout of the panels. Nil is a single panel figure.
	Layout *Layout

	// VerticalSpacing and HorizontalSpacing separate the panels as
	// fractions of the figure height and width.
	VerticalSpacing   float64
	HorizontalSpacing float64

	Title string

	// SubplotTitles are the panel titles in row major order.
	SubplotTitles []string

	// Legend shows or hides the legends of all panels. If nil a legend
	// is shown in panels with more than one labelled series.
	Legend *bool

	WhiteBackground bool
	Font            FontStyle

	// MatchX and MatchY give all cartesian panels a common x or y range.
	MatchX, MatchY bool

	// Theme defaults to DefaultTheme.
	Theme *Theme

	Export ExportConfig

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// PanelOptions configure one panel.
type PanelOptions struct {
	XLabel, YLabel string

	// XRange and YRange fix the axis ranges. XRange is also the binning
	// range of binned series, XRange and YRange that of 2D histograms.
	XRange, YRange *Range

	// Center and Zoom select the view of map panels. A nil Center fits
	// the view to the data.
	Center *orb.Point
	Zoom   float64

	// Robust, Outliers and MinN are passed to the binned statistics.
	Robust   bool
	Outliers float64
	MinN     int

	XAxis, YAxis AxisStyle
}

// Panel is one subplot of a figure.
type Panel struct {
	Position Position
	Title    string
	Options  PanelOptions
	Series   []Series

	// Layers and Plot are set by Render.
	Layers []*Layer
	Plot   *gonumplot.Plot
}

func (p *Panel) surface() surface {
	if len(p.Series) == 0 {
		return cartesianSurface
	}
	return p.Series[0].Kind.surface()
}

// Figure is a single or multi panel figure.
type Figure struct {
	opts   FigureOptions
	theme  *Theme
	log    *slog.Logger
	panels map[Position]*Panel
}

// NewFigure returns an empty figure.
func NewFigure(opts FigureOptions) (*Figure, error) {
	if l := opts.Layout; l != nil && (l.Rows < 1 || l.Cols < 1) {
		return nil, errors.Wrapf(ErrInvalidFigure, "layout %dx%d", l.Rows, l.Cols)
	}
	for _, s := range []float64{opts.VerticalSpacing, opts.HorizontalSpacing} {
		if s < 0 || s >= 1 {
			return nil, errors.Wrapf(ErrInvalidFigure, "spacing %g outside [0,1)", s)
		}
	}
	fig := &Figure{
		opts:   opts,
		theme:  opts.Theme,
		log:    opts.Logger,
		panels: make(map[Position]*Panel),
	}
	if fig.theme == nil {
		theme := DefaultTheme
		fig.theme = &theme
	}
	if fig.log == nil {
		fig.log = slog.Default()
	}
	fig.opts.Export = opts.Export.withDefaults()
	return fig, nil
}

func (f *Figure) layout() Layout {
	if f.opts.Layout == nil {
		return Layout{Rows: 1, Cols: 1}
	}
	return *f.opts.Layout
}

func (f *Figure) warnf(format string, args ...interface{}) {
	f.log.Warn(fmt.Sprintf(format, args...))
}

// CreatePlot adds the series to the panel at pos. The position is
// ignored for single panel figures. Repeated calls for the same panel
// overplot the series and replace the panel options.
func (f *Figure) CreatePlot(pos Position, opts PanelOptions, series ...Series) error {
	l := f.layout()
	if f.opts.Layout == nil {
		pos = Position{1, 1}
	}
	if pos.Row < 1 || pos.Row > l.Rows || pos.Col < 1 || pos.Col > l.Cols {
		return errors.Wrapf(ErrInvalidFigure, "position %s outside %dx%d layout", pos, l.Rows, l.Cols)
	}
	if opts.XRange != nil && !(opts.XRange.Low < opts.XRange.High) {
		return errors.Wrapf(ErrInvalidFigure, "x range [%g, %g]", opts.XRange.Low, opts.XRange.High)
	}
	if opts.YRange != nil && !(opts.YRange.Low < opts.YRange.High) {
		return errors.Wrapf(ErrInvalidFigure, "y range [%g, %g]", opts.YRange.Low, opts.YRange.High)
	}

	panel, ok := f.panels[pos]
	if !ok {
		panel = &Panel{Position: pos}
		if i := (pos.Row-1)*l.Cols + pos.Col - 1; i < len(f.opts.SubplotTitles) {
			panel.Title = f.opts.SubplotTitles[i]
		}
	}
	all := append([]Series(nil), panel.Series...)
	for i := range series {
		s := &series[i]
		if err := s.validate(); err != nil {
			return errors.Wrapf(err, "series %d", i)
		}
		if _, _, err := s.masks(); err != nil {
			return errors.Wrapf(err, "series %d", i)
		}
		if len(all) > 0 && s.Kind.surface() != all[0].Kind.surface() {
			return errors.Wrapf(ErrInvalidFigure, "cannot draw %s on the %s panel %s",
				s.Kind, all[0].Kind, pos)
		}
		all = append(all, *s)
	}
	panel.Series = all
	panel.Options = opts
	f.panels[pos] = panel
	return nil
}

// Panels returns the panels in row major order.
func (f *Figure) Panels() []*Panel {
	panels := make([]*Panel, 0, len(f.panels))
	for _, p := range f.panels {
		panels = append(panels, p)
	}
	sort.Slice(panels, func(i, j int) bool {
		a, b := panels[i].Position, panels[j].Position
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	return panels
}

// Render computes the layers of all panels concurrently and builds their
// gonum plots. The first error aborts the rendering.
func (f *Figure) Render(ctx context.Context) error {
	panels := f.Panels()
	if len(panels) == 0 {
		return ErrEmptyFigure
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, panel := range panels {
		panel := panel
		g.Go(func() error {
			return errors.Wrapf(f.renderPanel(ctx, panel), "panel %s", panel.Position)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	f.matchAxes(panels)
	return nil
}

// renderPanel computes the layers of one panel and sets up its plot.
func (f *Figure) renderPanel(ctx context.Context, panel *Panel) error {
	opts := &panel.Options
	p := gonumplot.New()
	p.Title.Text = panel.Title
	p.X.Label.Text, p.Y.Label.Text = opts.XLabel, opts.YLabel

	look := axisLook{font: f.opts.Font}
	gridColor := f.theme.GridColor
	p.BackgroundColor = f.theme.BackgroundColor
	if f.opts.WhiteBackground {
		p.BackgroundColor = color.White
		gridColor = f.theme.WhiteGridColor
		look.lineColor = f.theme.WhiteAxisColor
	}
	f.opts.Font.applyText(&p.Title.TextStyle.Font.Size, &p.Title.TextStyle.Color)
	f.opts.Font.applyText(&p.Legend.TextStyle.Font.Size, &p.Legend.TextStyle.Color)
	opts.XAxis.apply(&p.X, look, false)
	opts.YAxis.apply(&p.Y, look, true)

	surf := panel.surface()
	switch surf {
	case cartesianSurface:
		if g := grid(opts.XAxis, opts.YAxis, gridColor); g != nil {
			p.Add(g)
		}
		if !opts.XAxis.HideZeroLine {
			p.Add(newZeroLine(true, gridColor))
		}
		if !opts.YAxis.HideZeroLine {
			p.Add(newZeroLine(false, gridColor))
		}
	case geoSurface:
		if p.X.Label.Text == "" {
			p.X.Label.Text = "longitude"
		}
		if p.Y.Label.Text == "" {
			p.Y.Label.Text = "latitude"
		}
		if g := grid(opts.XAxis, opts.YAxis, gridColor); g != nil {
			p.Add(g)
		}
	case mapSurface:
		p.HideAxes()
	}

	type entry struct {
		label  string
		thumbs []gonumplot.Thumbnailer
	}
	var layers []*Layer
	var entries []entry
	for i := range panel.Series {
		if err := ctx.Err(); err != nil {
			return err
		}
		series := &panel.Series[i]
		st := statFor(series.Kind)
		layer, err := st.Apply(series, opts)
		if err != nil {
			return errors.Wrapf(err, "series %d (%s)", i, series.Kind)
		}
		f.logLayer(panel.Position, st, layer)
		if layer.Dropped > 0 {
			f.warnf("panel %s series %d: dropped %d points which are not finite",
				panel.Position, i, layer.Dropped)
		}

		geom := geomFor(series.Kind)
		fund, err := geom.Construct(layer, Aesthetics{
			Theme: f.theme,
			Color: f.theme.seriesColor(series.Color, i),
			Warnf: f.warnf,
		})
		if err != nil {
			return errors.Wrapf(err, "series %d (%s)", i, series.Kind)
		}
		p.Add(fund.Plotters...)
		if series.Label != "" && len(fund.Thumbs) > 0 {
			entries = append(entries, entry{series.Label, fund.Thumbs})
		}
		layers = append(layers, layer)
	}

	showLegend := len(entries) > 1
	if f.opts.Legend != nil {
		showLegend = *f.opts.Legend
	}
	if showLegend {
		for _, e := range entries {
			p.Legend.Add(e.label, e.thumbs...)
		}
	}
	p.Legend.Top = true

	if opts.XRange != nil {
		p.X.Min, p.X.Max = opts.XRange.Low, opts.XRange.High
	}
	if opts.YRange != nil {
		p.Y.Min, p.Y.Max = opts.YRange.Low, opts.YRange.High
	}
	if surf == mapSurface && opts.Center != nil {
		view := geo.WebMercator.ProjectBound(geo.View(*opts.Center, opts.Zoom))
		p.X.Min, p.X.Max = view.Min.X(), view.Max.X()
		p.Y.Min, p.Y.Max = view.Min.Y(), view.Max.Y()
	}
	sanitizeAxis(&p.X)
	sanitizeAxis(&p.Y)

	panel.Layers = layers
	panel.Plot = p
	return nil
}

func (f *Figure) logLayer(pos Position, st Stat, layer *Layer) {
	attrs := []any{
		"panel", pos.String(),
		"kind", layer.Series.Kind.String(),
		"stat", st.Name(),
		"points", len(layer.Points),
	}
	if b := layer.Binned; b != nil {
		attrs = append(attrs, "bins", b.Len(), "rejected", b.Rejected)
	}
	if g := layer.Grid; g != nil {
		attrs = append(attrs, "cols", g.Cols(), "rows", g.Rows())
	}
	f.log.Debug("computed layer", attrs...)
}

// matchAxes gives all cartesian panels the union of their ranges.
func (f *Figure) matchAxes(panels []*Panel) {
	match := func(axis func(*gonumplot.Plot) *gonumplot.Axis) {
		scale := NewScale()
		for _, p := range panels {
			if p.surface() == cartesianSurface {
				scale.Train(axis(p.Plot))
			}
		}
		for _, p := range panels {
			if p.surface() == cartesianSurface {
				scale.Apply(axis(p.Plot))
			}
		}
	}
	if f.opts.MatchX {
		match(func(p *gonumplot.Plot) *gonumplot.Axis { return &p.X })
	}
	if f.opts.MatchY {
		match(func(p *gonumplot.Plot) *gonumplot.Axis { return &p.Y })
	}
}

// sanitizeAxis gives axes without data a unit range and widens empty
// ranges.
func sanitizeAxis(a *gonumplot.Axis) {
	if !finite(a.Min) || !finite(a.Max) || a.Min > a.Max {
		a.Min, a.Max = 0, 1
	}
	if a.Min == a.Max {
		a.Min, a.Max = a.Min-0.5, a.Max+0.5
	}
}

// WriteImage renders the figure and writes it in the given image format
// (png, jpg, svg, pdf, eps, tif) to w.
func (f *Figure) WriteImage(ctx context.Context, w io.Writer, format string) error {
	if err := f.Render(ctx); err != nil {
		return err
	}
	width, height := f.opts.Export.size()
	canvas, err := draw.NewFormattedCanvas(width, height, strings.ToLower(format))
	if err != nil {
		return errors.Wrapf(err, "format %q", format)
	}
	f.draw(draw.New(canvas), width, height)
	_, err = canvas.WriteTo(w)
	return errors.Wrap(err, "writing image")
}

// Save renders the figure to the file at path. The extension selects
// the image format.
func (f *Figure) Save(ctx context.Context, path string) (err error) {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return errors.Newf("no image format in file name %q", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return f.WriteImage(ctx, file, format)
}

// draw tiles the rendered panels onto dc.
func (f *Figure) draw(dc draw.Canvas, width, height vg.Length) {
	l := f.layout()
	dc.SetColor(color.White)
	dc.Fill(dc.Rectangle.Path())

	tiles := draw.Tiles{
		Rows: l.Rows,
		Cols: l.Cols,
		PadX: vg.Length(f.opts.HorizontalSpacing) * width,
		PadY: vg.Length(f.opts.VerticalSpacing) * height,
	}
	if f.opts.Title != "" {
		sty := gonumplot.New().Title.TextStyle
		f.opts.Font.applyText(&sty.Font.Size, &sty.Color)
		sty.Font.Size *= 1.5
		sty.XAlign, sty.YAlign = draw.XCenter, draw.YTop
		pad := sty.Font.Size / 2
		dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y - pad}, f.opts.Title)
		tiles.PadTop = sty.Height(f.opts.Title) + 2*pad
	}

	plots := make([][]*gonumplot.Plot, l.Rows)
	for j := range plots {
		plots[j] = make([]*gonumplot.Plot, l.Cols)
		for i := range plots[j] {
			if panel, ok := f.panels[Position{j + 1, i + 1}]; ok && panel.Plot != nil {
				plots[j][i] = panel.Plot
				continue
			}
			plots[j][i] = placeholder()
		}
	}
	canvases := gonumplot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			if panel, ok := f.panels[Position{j + 1, i + 1}]; ok && panel.Plot != nil {
				panel.Plot.Draw(canvases[j][i])
			}
		}
	}
}

// placeholder stands in for empty layout cells during alignment.
func placeholder() *gonumplot.Plot {
	p := gonumplot.New()
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	return p
}
