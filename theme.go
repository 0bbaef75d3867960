package plot

import (
	"image/color"

	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Theme holds the rendering defaults of a figure.
type Theme struct {
	// MarkerSize is the default marker diameter in points.
	MarkerSize float64

	LineWidth     vg.Length
	ErrorCapWidth vg.Length

	// BackgroundColor and GridColor of panels. Zero lines use the
	// grid colour.
	BackgroundColor color.Color
	GridColor       color.Color

	// WhiteGridColor and WhiteAxisColor replace the grid and axis
	// colours on white background figures.
	WhiteGridColor color.Color
	WhiteAxisColor color.Color

	// UnselectedAlpha fades unselected points if a series has a
	// selection but no UnselectedMarker.
	UnselectedAlpha float64
}

var DefaultTheme = Theme{
	MarkerSize:      6,
	LineWidth:       vg.Points(1.5),
	ErrorCapWidth:   vg.Points(4),
	BackgroundColor: color.NRGBA{0xe5, 0xec, 0xf6, 0xff},
	GridColor:       color.White,
	WhiteGridColor:  color.NRGBA{0xcd, 0xcd, 0xcd, 0xff},
	WhiteAxisColor:  color.Black,
	UnselectedAlpha: 0.2,
}

// seriesColor returns the colour of the i'th series in a panel.
func (t *Theme) seriesColor(name string, i int) color.Color {
	if c, ok := String2Color(name); ok {
		return c
	}
	return plotutil.Color(i)
}

// ExportConfig sizes exported images.
type ExportConfig struct {
	// Width and Height in pixels at 96 dpi.
	Width, Height int
}

// DefaultExport is used for zero fields of a figure's ExportConfig.
var DefaultExport = ExportConfig{Width: 1200, Height: 600}

func (e ExportConfig) withDefaults() ExportConfig {
	if e.Width <= 0 {
		e.Width = DefaultExport.Width
	}
	if e.Height <= 0 {
		e.Height = DefaultExport.Height
	}
	return e
}

// size returns the export size in vg units.
func (e ExportConfig) size() (w, h vg.Length) {
	const dpi = 96
	return vg.Length(e.Width) * vg.Inch / dpi, vg.Length(e.Height) * vg.Inch / dpi
}
