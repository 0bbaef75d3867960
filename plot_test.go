package plot

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c3sdr/plot/stat"
)

var nan = math.NaN()

func quietFigure(t *testing.T, opts FigureOptions) *Figure {
	t.Helper()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	fig, err := NewFigure(opts)
	require.NoError(t, err)
	return fig
}

func ramp(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

func TestParseKind(t *testing.T) {
	for _, tc := range []struct {
		s    string
		want Kind
	}{
		{"", Scatter},
		{"scatter", Scatter},
		{"hist2d", Hist2D},
		{"mean", Mean},
		{"mean_and_uncert", MeanAndUncert},
		{"ScatterGeo", ScatterGeo},
		{"scattermapbox", ScatterMapbox},
		{"densitymapbox", DensityMapbox},
	} {
		got, err := ParseKind(tc.s)
		require.NoError(t, err, tc.s)
		assert.Equal(t, tc.want, got, tc.s)
		if tc.s != "" {
			assert.Equal(t, got.String(), kindNames[tc.want])
		}
	}

	_, err := ParseKind("violin")
	assert.True(t, errors.Is(err, ErrUnknownKind))

	mode, err := ParseLineMode("lines+markers")
	require.NoError(t, err)
	assert.Equal(t, LinesMarkers, mode)
	_, err = ParseLineMode("dots")
	assert.True(t, errors.Is(err, ErrInvalidSeries))
}

func TestFigureScatter(t *testing.T) {
	fig := quietFigure(t, FigureOptions{})
	err := fig.CreatePlot(Position{}, PanelOptions{XLabel: "x", YLabel: "y"}, Series{
		X:     []float64{1, 2, 3, nan, 5},
		Y:     []float64{1, 4, 9, 16, 25},
		E:     []float64{1, nan, 1, 1, 1},
		XMask: []bool{false, false, true, false, false},
	})
	require.NoError(t, err)
	require.NoError(t, fig.Render(context.Background()))

	panels := fig.Panels()
	require.Len(t, panels, 1)
	layer := panels[0].Layers[0]
	assert.Equal(t, []int{0, 1, 4}, layer.Index)
	assert.Equal(t, 1, layer.Dropped)
	assert.Len(t, layer.Errors, 3)
	assert.True(t, math.IsNaN(layer.Errors[1]))
	assert.Equal(t, Position{1, 1}, panels[0].Position)
	assert.NotNil(t, panels[0].Plot)
}

func TestFigureMeanAndUncert(t *testing.T) {
	n := 1000
	x := ramp(n)
	fig := quietFigure(t, FigureOptions{})
	require.NoError(t, fig.CreatePlot(Position{}, PanelOptions{},
		Series{Kind: MeanAndUncert, X: x, Y: x, NBins: 10, Label: "identity"},
		Series{Kind: Mean, X: x, Y: x, NBins: 5, Mode: Lines, Label: "coarse"},
	))
	require.NoError(t, fig.Render(context.Background()))

	layers := fig.Panels()[0].Layers
	require.Len(t, layers, 2)
	assert.Equal(t, 10, layers[0].Binned.Len())
	assert.Len(t, layers[0].Errors, 10)
	assert.Nil(t, layers[1].Errors)
	for i, p := range layers[0].Points {
		assert.InDelta(t, p.X, p.Y, 1, "bin %d", i)
	}
}

func TestFigureBinnedErrors(t *testing.T) {
	x := ramp(30)

	fig := quietFigure(t, FigureOptions{})
	require.NoError(t, fig.CreatePlot(Position{}, PanelOptions{},
		Series{Kind: Mean, X: x, Y: x, NBins: 3}))
	err := fig.Render(context.Background())
	assert.True(t, errors.Is(err, stat.ErrInsufficientData), "got %v", err)

	mask := make([]bool, 30)
	mask[0] = true
	fig = quietFigure(t, FigureOptions{})
	require.NoError(t, fig.CreatePlot(Position{}, PanelOptions{},
		Series{Kind: Mean, X: x, Y: x, NBins: 1, XMask: mask}))
	err = fig.Render(context.Background())
	assert.True(t, errors.IsAssertionFailure(err), "got %v", err)
	assert.True(t, stat.IsPrecondition(err))

	fig = quietFigure(t, FigureOptions{})
	require.NoError(t, fig.CreatePlot(Position{}, PanelOptions{Outliers: 2},
		Series{Kind: MeanAndUncert, X: x, Y: x, NBins: 1}))
	err = fig.Render(context.Background())
	assert.True(t, errors.Is(err, stat.ErrInvalidOptions), "got %v", err)
}

func TestFigureValidation(t *testing.T) {
	_, err := NewFigure(FigureOptions{Layout: &Layout{Rows: 0, Cols: 2}})
	assert.True(t, errors.Is(err, ErrInvalidFigure))
	_, err = NewFigure(FigureOptions{VerticalSpacing: 1})
	assert.True(t, errors.Is(err, ErrInvalidFigure))

	fig := quietFigure(t, FigureOptions{Layout: &Layout{Rows: 2, Cols: 2}})
	x := []float64{1, 2}
	err = fig.CreatePlot(Position{3, 1}, PanelOptions{}, Series{X: x, Y: x})
	assert.True(t, errors.Is(err, ErrInvalidFigure))
	err = fig.CreatePlot(Position{1, 1}, PanelOptions{}, Series{X: x, Y: x[:1]})
	assert.True(t, errors.Is(err, ErrInvalidSeries))
	err = fig.CreatePlot(Position{1, 1}, PanelOptions{}, Series{X: x, Y: x, Z: x[:1]})
	assert.True(t, errors.Is(err, ErrInvalidSeries))
	cmin := 1.0
	err = fig.CreatePlot(Position{1, 1}, PanelOptions{}, Series{X: x, Y: x, CMin: &cmin})
	assert.True(t, errors.Is(err, ErrInvalidSeries))
	err = fig.CreatePlot(Position{1, 1}, PanelOptions{}, Series{Kind: Kind(42), X: x, Y: x})
	assert.True(t, errors.Is(err, ErrUnknownKind))
	err = fig.CreatePlot(Position{1, 1}, PanelOptions{XRange: &Range{Low: 2, High: 1}}, Series{X: x, Y: x})
	assert.True(t, errors.Is(err, ErrInvalidFigure))
	err = fig.CreatePlot(Position{1, 1}, PanelOptions{}, Series{X: x, Y: x,
		DataFlags: [][]uint64{{0}}, Flags: []uint64{1}})
	assert.True(t, errors.Is(err, ErrInvalidSeries))

	require.NoError(t, fig.CreatePlot(Position{1, 1}, PanelOptions{}, Series{X: x, Y: x}))
	err = fig.CreatePlot(Position{1, 1}, PanelOptions{}, Series{Kind: ScatterMapbox, X: x, Y: x})
	assert.True(t, errors.Is(err, ErrInvalidFigure))

	empty := quietFigure(t, FigureOptions{})
	assert.True(t, errors.Is(empty.Render(context.Background()), ErrEmptyFigure))
}

func TestFigureMultiPanel(t *testing.T) {
	fig := quietFigure(t, FigureOptions{
		Layout:        &Layout{Rows: 2, Cols: 2},
		SubplotTitles: []string{"a", "b", "c"},
		MatchX:        true,
	})
	require.NoError(t, fig.CreatePlot(Position{1, 1}, PanelOptions{},
		Series{X: []float64{0, 1}, Y: []float64{0, 1}}))
	require.NoError(t, fig.CreatePlot(Position{1, 2}, PanelOptions{},
		Series{X: []float64{-5, 2}, Y: []float64{0, 1}}))
	require.NoError(t, fig.CreatePlot(Position{2, 1}, PanelOptions{},
		Series{Kind: ScatterGeo, X: []float64{8, 9}, Y: []float64{47, 48}}))
	require.NoError(t, fig.Render(context.Background()))

	panels := fig.Panels()
	require.Len(t, panels, 3)
	assert.Equal(t, "a", panels[0].Title)
	assert.Equal(t, "b", panels[1].Title)
	assert.Equal(t, "c", panels[2].Title)
	for _, p := range panels[:2] {
		assert.Equal(t, -5.0, p.Plot.X.Min)
		assert.Equal(t, 2.0, p.Plot.X.Max)
	}
	assert.Equal(t, 8.0, panels[2].Plot.X.Min)
	assert.Equal(t, "longitude", panels[2].Plot.X.Label.Text)
}

func TestFigureSelection(t *testing.T) {
	fig := quietFigure(t, FigureOptions{})
	s := Series{
		X:              ramp(5),
		Y:              ramp(5),
		XMask:          []bool{true, false, false, false, false},
		Selected:       []int{2, 4},
		SelectedMarker: Marker{Color: "red", Size: 12},
	}
	require.NoError(t, fig.CreatePlot(Position{}, PanelOptions{}, s))
	require.NoError(t, fig.Render(context.Background()))

	layer := fig.Panels()[0].Layers[0]
	base := glyphStyle(s.Marker, DefaultTheme.GridColor, &DefaultTheme)
	styleAt := pointStyles(layer, base, Aesthetics{Theme: &DefaultTheme})
	require.NotNil(t, styleAt)

	// Point 1 is sample 2 since sample 0 is masked.
	sel := styleAt(1)
	r, _, _, _ := sel.Color.RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.InDelta(t, 6.0, float64(sel.Radius), 1e-9)

	_, _, _, a := styleAt(0).Color.RGBA()
	assert.Less(t, a, uint32(0xffff))
}

func TestFigureBinnedSelection(t *testing.T) {
	var x []float64
	for i := 0; i < 20; i++ {
		x = append(x, 0.5, 2.5)
	}
	fig := quietFigure(t, FigureOptions{})
	s := Series{
		Kind:           Mean,
		X:              x,
		Y:              x,
		NBins:          3,
		Selected:       []int{2},
		SelectedMarker: Marker{Color: "red"},
	}
	require.NoError(t, fig.CreatePlot(Position{}, PanelOptions{XRange: &Range{Low: 0, High: 3}}, s))
	require.NoError(t, fig.Render(context.Background()))

	// The middle bin is empty, so the second point is bin 2.
	layer := fig.Panels()[0].Layers[0]
	assert.Equal(t, []int{0, 2}, layer.Index)

	base := glyphStyle(s.Marker, DefaultTheme.GridColor, &DefaultTheme)
	styleAt := pointStyles(layer, base, Aesthetics{Theme: &DefaultTheme})
	require.NotNil(t, styleAt)
	r, g, _, _ := styleAt(1).Color.RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
}

func TestFigureMaps(t *testing.T) {
	lon := []float64{8.5, 8.6, 8.7, 8.55, nan}
	lat := []float64{47.3, 47.4, 47.35, 47.38, 47.3}
	z := []float64{1, 2, 3, 4, 5}
	center := orb.Point{8.6, 47.35}

	fig := quietFigure(t, FigureOptions{Layout: &Layout{Rows: 1, Cols: 2}})
	require.NoError(t, fig.CreatePlot(Position{1, 1}, PanelOptions{Center: &center, Zoom: 8},
		Series{Kind: ScatterMapbox, X: lon, Y: lat, Z: z, Color: "blackbody"}))
	require.NoError(t, fig.CreatePlot(Position{1, 2}, PanelOptions{},
		Series{Kind: DensityMapbox, X: lon, Y: lat, Z: z, NBins: 4, Radius: 1}))
	require.NoError(t, fig.Render(context.Background()))

	panels := fig.Panels()
	points := panels[0].Layers[0]
	assert.Len(t, points.Points, 4)
	assert.Len(t, points.Colors, 4)
	assert.Less(t, panels[0].Plot.X.Min, points.Points[0].X)
	assert.Greater(t, panels[0].Plot.X.Max, points.Points[0].X)

	density := panels[1].Layers[0]
	require.NotNil(t, density.Grid)
	assert.Equal(t, 4, density.Grid.Cols())
	total := 0.0
	for _, row := range density.Grid.Values {
		for _, v := range row {
			total += v
		}
	}
	assert.Greater(t, total, 0.0)
}

func TestFigureHist2D(t *testing.T) {
	fig := quietFigure(t, FigureOptions{WhiteBackground: true})
	x := ramp(100)
	require.NoError(t, fig.CreatePlot(Position{}, PanelOptions{
		XAxis: AxisStyle{HideGrid: true, TickAngle: 45},
		YAxis: AxisStyle{HideZeroLine: true, HideLine: true},
	}, Series{Kind: Hist2D, X: x, Y: x, NBins: 10, NBinsY: 5}))
	require.NoError(t, fig.Render(context.Background()))

	grid := fig.Panels()[0].Layers[0].Grid
	require.NotNil(t, grid)
	assert.Equal(t, 10, grid.Cols())
	assert.Equal(t, 5, grid.Rows())
}

func TestFigureWriteImage(t *testing.T) {
	legend := true
	fig := quietFigure(t, FigureOptions{
		Title:  "figure",
		Legend: &legend,
		Font:   FontStyle{Size: 14, Color: "navy"},
		Export: ExportConfig{Width: 300, Height: 200},
	})
	x := ramp(100)
	require.NoError(t, fig.CreatePlot(Position{}, PanelOptions{},
		Series{Kind: MeanAndUncert, X: x, Y: x, NBins: 4, Mode: LinesMarkers, Label: "mean"}))

	var buf bytes.Buffer
	require.NoError(t, fig.WriteImage(context.Background(), &buf, "png"))
	assert.Equal(t, "\x89PNG", buf.String()[:4])

	err := fig.WriteImage(context.Background(), io.Discard, "bmp")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "figure.svg")
	require.NoError(t, fig.Save(context.Background(), path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	assert.Error(t, fig.Save(context.Background(), filepath.Join(t.TempDir(), "figure")))
}

func TestFigureRenderCancelled(t *testing.T) {
	fig := quietFigure(t, FigureOptions{})
	require.NoError(t, fig.CreatePlot(Position{}, PanelOptions{},
		Series{X: ramp(3), Y: ramp(3)}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, errors.Is(fig.Render(ctx), context.Canceled))
}
