package plot

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/vg/draw"
)

// Set alpha to a in color c. Any alpha of c is replaced.
func SetAlpha(c color.Color, a float64) color.Color {
	r, g, b, ca := c.RGBA()
	if ca != 0 && ca != 0xffff {
		// Undo the premultiplication.
		r, g, b = r*0xffff/ca, g*0xffff/ca, b*0xffff/ca
	}
	a *= float64(0xff)
	return color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a)}
}

// -------------------------------------------------------------------------
// Points

type PointShape int

const (
	CirclePoint PointShape = iota
	RingPoint
	SquarePoint
	OpenSquarePoint
	TrianglePoint
	OpenTrianglePoint
	CrossPoint
	PlusPoint
)

// String2PointShape maps marker symbol names to shapes. Unknown names
// are drawn as circles.
func String2PointShape(s string) PointShape {
	switch strings.ToLower(s) {
	case "circle-open", "ring":
		return RingPoint
	case "square":
		return SquarePoint
	case "square-open":
		return OpenSquarePoint
	case "triangle-up", "triangle":
		return TrianglePoint
	case "triangle-up-open", "triangle-open":
		return OpenTrianglePoint
	case "x", "x-thin":
		return CrossPoint
	case "cross", "cross-thin", "plus":
		return PlusPoint
	}
	return CirclePoint
}

// Glyph returns the gonum glyph drawer of the shape.
func (s PointShape) Glyph() draw.GlyphDrawer {
	switch s {
	case RingPoint:
		return draw.RingGlyph{}
	case SquarePoint:
		return draw.BoxGlyph{}
	case OpenSquarePoint:
		return draw.SquareGlyph{}
	case TrianglePoint:
		return draw.PyramidGlyph{}
	case OpenTrianglePoint:
		return draw.TriangleGlyph{}
	case CrossPoint:
		return draw.CrossGlyph{}
	case PlusPoint:
		return draw.PlusGlyph{}
	}
	return draw.CircleGlyph{}
}

// -------------------------------------------------------------------------
// Colors

var BuiltinColors = map[string]color.NRGBA{
	"red":       {0xff, 0x00, 0x00, 0xff},
	"green":     {0x00, 0x80, 0x00, 0xff},
	"lime":      {0x00, 0xff, 0x00, 0xff},
	"blue":      {0x00, 0x00, 0xff, 0xff},
	"cyan":      {0x00, 0xff, 0xff, 0xff},
	"magenta":   {0xff, 0x00, 0xff, 0xff},
	"yellow":    {0xff, 0xff, 0x00, 0xff},
	"orange":    {0xff, 0xa5, 0x00, 0xff},
	"purple":    {0x80, 0x00, 0x80, 0xff},
	"brown":     {0xa5, 0x2a, 0x2a, 0xff},
	"navy":      {0x00, 0x00, 0x80, 0xff},
	"white":     {0xff, 0xff, 0xff, 0xff},
	"lightgray": {0xd3, 0xd3, 0xd3, 0xff},
	"gray":      {0x80, 0x80, 0x80, 0xff},
	"darkgray":  {0xa9, 0xa9, 0xa9, 0xff},
	"black":     {0x00, 0x00, 0x00, 0xff},
}

// String2Color parses "#rrggbb", "#rrggbbaa", "#rgb" or a builtin colour
// name. ok is false if s is none of these.
func String2Color(s string) (c color.Color, ok bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		var r, g, b uint8
		a := uint8(0xff)
		switch len(s) {
		case 4:
			if _, err := fmt.Sscanf(s[1:], "%1x%1x%1x", &r, &g, &b); err != nil {
				return nil, false
			}
			r, g, b = r*0x11, g*0x11, b*0x11
		case 7, 9:
			if _, err := fmt.Sscanf(s[1:7], "%2x%2x%2x", &r, &g, &b); err != nil {
				return nil, false
			}
			if len(s) == 9 {
				if _, err := fmt.Sscanf(s[7:9], "%2x", &a); err != nil {
					return nil, false
				}
			}
		default:
			return nil, false
		}
		return color.NRGBA{r, g, b, a}, true
	}
	if col, ok := BuiltinColors[strings.ToLower(s)]; ok {
		return col, true
	}
	return nil, false
}

// -------------------------------------------------------------------------
// Color maps

// ColorMap returns a new colour map for the given name. Unknown and
// empty names give the Kindlmann map.
func ColorMap(name string) palette.ColorMap {
	switch strings.ToLower(name) {
	case "bluered", "rdbu", "coolwarm":
		return moreland.SmoothBlueRed()
	case "blackbody", "hot":
		return moreland.BlackBody()
	case "extendedblackbody", "inferno":
		return moreland.ExtendedBlackBody()
	case "extendedkindlmann":
		return moreland.ExtendedKindlmann()
	}
	return moreland.Kindlmann()
}
