package plot

import (
	"image/color"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// zeroLine is a plotter drawing the x=0 (Vertical) or y=0 line across
// the data area if zero is within the axis range.
type zeroLine struct {
	Vertical bool
	draw.LineStyle
}

var _ gonumplot.Plotter = zeroLine{}

func newZeroLine(vertical bool, col color.Color) zeroLine {
	return zeroLine{
		Vertical:  vertical,
		LineStyle: draw.LineStyle{Color: col, Width: vg.Points(1)},
	}
}

// Plot implements the gonum plot.Plotter interface.
func (z zeroLine) Plot(c draw.Canvas, p *gonumplot.Plot) {
	trX, trY := p.Transforms(&c)
	if z.Vertical {
		if p.X.Min > 0 || p.X.Max < 0 {
			return
		}
		x := trX(0)
		c.StrokeLine2(z.LineStyle, x, c.Min.Y, x, c.Max.Y)
		return
	}
	if p.Y.Min > 0 || p.Y.Max < 0 {
		return
	}
	y := trY(0)
	c.StrokeLine2(z.LineStyle, c.Min.X, y, c.Max.X, y)
}
