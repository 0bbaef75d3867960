package plot

import (
	"image/color"
	"math"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Scale is a position scale shared by the x or y axes of several panels.
type Scale struct {
	DomainMin float64
	DomainMax float64
}

// NewScale returns an untrained scale.
func NewScale() *Scale {
	return &Scale{DomainMin: math.Inf(+1), DomainMax: math.Inf(-1)}
}

// Train widens the domain of s to the finite range of the axis.
func (s *Scale) Train(a *gonumplot.Axis) {
	if finite(a.Min) && a.Min < s.DomainMin {
		s.DomainMin = a.Min
	}
	if finite(a.Max) && a.Max > s.DomainMax {
		s.DomainMax = a.Max
	}
}

// Trained reports whether s has seen any data.
func (s *Scale) Trained() bool { return s.DomainMin <= s.DomainMax }

// Apply sets the range of the axis to the domain of s.
func (s *Scale) Apply(a *gonumplot.Axis) {
	if !s.Trained() {
		return
	}
	a.Min, a.Max = s.DomainMin, s.DomainMax
}

// AxisStyle holds the per panel options of one axis.
type AxisStyle struct {
	HideGrid     bool `yaml:"hide_grid"`
	HideZeroLine bool `yaml:"hide_zero_line"`
	HideLine     bool `yaml:"hide_line"`

	// TickAngle rotates the tick labels clockwise, in degrees.
	TickAngle float64 `yaml:"tick_angle"`
}

// axisLook are the figure wide axis settings.
type axisLook struct {
	font      FontStyle
	lineColor color.Color
}

// apply styles the gonum axis.
func (s AxisStyle) apply(a *gonumplot.Axis, look axisLook, vertical bool) {
	if look.lineColor != nil {
		a.LineStyle.Color = look.lineColor
		a.Tick.LineStyle.Color = look.lineColor
	}
	if s.HideLine {
		a.LineStyle.Color = color.Transparent
	}
	if s.TickAngle != 0 {
		a.Tick.Label.Rotation = -s.TickAngle * math.Pi / 180
		if !vertical {
			a.Tick.Label.XAlign = draw.XRight
			a.Tick.Label.YAlign = draw.YCenter
		}
	}
	look.font.applyText(&a.Label.TextStyle.Font.Size, &a.Label.TextStyle.Color)
	look.font.applyText(&a.Tick.Label.Font.Size, &a.Tick.Label.Color)
}

// grid returns the background grid of a panel, nil if both directions
// are hidden.
func grid(xs, ys AxisStyle, col color.Color) *plotter.Grid {
	if xs.HideGrid && ys.HideGrid {
		return nil
	}
	g := plotter.NewGrid()
	g.Vertical.Color, g.Horizontal.Color = col, col
	g.Vertical.Width, g.Horizontal.Width = vg.Points(0.5), vg.Points(0.5)
	if xs.HideGrid {
		g.Vertical.Color = nil
	}
	if ys.HideGrid {
		g.Horizontal.Color = nil
	}
	return g
}
