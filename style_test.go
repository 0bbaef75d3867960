package plot

import (
	"image/color"
	"testing"

	"gonum.org/v1/plot/vg/draw"
)

func TestString2Color(t *testing.T) {
	tests := []struct {
		s  string
		c  color.Color
		ok bool
	}{
		{"#1256ab", color.NRGBA{0x12, 0x56, 0xab, 0xff}, true},
		{"#1256abcd", color.NRGBA{0x12, 0x56, 0xab, 0xcd}, true},
		{"#f0a", color.NRGBA{0xff, 0x00, 0xaa, 0xff}, true},
		{"red", color.NRGBA{0xff, 0x00, 0x00, 0xff}, true},
		{"Green", color.NRGBA{0x00, 0x80, 0x00, 0xff}, true},
		{" blue ", color.NRGBA{0x00, 0x00, 0xff, 0xff}, true},
		{"nonsens", nil, false},
		{"#12345", nil, false},
		{"#gggggg", nil, false},
		{"", nil, false},
	}

	for i, tc := range tests {
		got, ok := String2Color(tc.s)
		if ok != tc.ok {
			t.Errorf("%d %q: got ok=%t", i, tc.s, ok)
			continue
		}
		if !ok {
			continue
		}
		rg, gg, bg, ag := got.RGBA()
		rw, gw, bw, aw := tc.c.RGBA()
		if rg != rw || gg != gw || bg != bw || ag != aw {
			t.Errorf("%d %q: got %04X, %04X, %04X, %04X want %04X, %04X, %04X, %04X",
				i, tc.s, rg, gg, bg, ag, rw, gw, bw, aw)
		}
	}
}

func TestSetAlpha(t *testing.T) {
	c := SetAlpha(color.NRGBA{0x10, 0x20, 0x30, 0xff}, 0.5)
	if got, want := c, (color.NRGBA{0x10, 0x20, 0x30, 0x7f}); got != want {
		t.Errorf("Got %v, want %v", got, want)
	}

	// Premultiplied input is undone first.
	c = SetAlpha(color.RGBA{0x40, 0x40, 0x40, 0x80}, 1)
	if got := c.(color.NRGBA); got.R < 0x7e || got.R > 0x80 || got.A != 0xff {
		t.Errorf("Got %v", got)
	}
}

func TestString2PointShape(t *testing.T) {
	tests := []struct {
		s     string
		shape PointShape
		glyph draw.GlyphDrawer
	}{
		{"", CirclePoint, draw.CircleGlyph{}},
		{"circle-open", RingPoint, draw.RingGlyph{}},
		{"Square", SquarePoint, draw.BoxGlyph{}},
		{"triangle-up-open", OpenTrianglePoint, draw.TriangleGlyph{}},
		{"x", CrossPoint, draw.CrossGlyph{}},
		{"cross", PlusPoint, draw.PlusGlyph{}},
		{"star-diamond", CirclePoint, draw.CircleGlyph{}},
	}
	for i, tc := range tests {
		got := String2PointShape(tc.s)
		if got != tc.shape {
			t.Errorf("%d %q: got shape %d, want %d", i, tc.s, got, tc.shape)
		}
		if g := got.Glyph(); g != tc.glyph {
			t.Errorf("%d %q: got glyph %T, want %T", i, tc.s, g, tc.glyph)
		}
	}
}

func TestColorMap(t *testing.T) {
	for _, name := range []string{"", "viridis", "bluered", "hot", "inferno", "ExtendedKindlmann"} {
		cmap := ColorMap(name)
		cmap.SetMax(10)
		cmap.SetMin(-10)
		if _, err := cmap.At(0); err != nil {
			t.Errorf("%q: %s", name, err)
		}
		if c := mapColor(cmap, 1e6); c == nil {
			t.Errorf("%q: no colour for clamped value", name)
		}
		if c := mapColor(cmap, 0); c == (color.Gray{0x80}) {
			t.Errorf("%q: got NaN colour for 0", name)
		}
	}
}

func TestColorRange(t *testing.T) {
	lo, hi := colorRange([]float64{3, 1, nan, 2}, nil, nil)
	if lo != 1 || hi != 3 {
		t.Errorf("Got [%g, %g]", lo, hi)
	}
	lo, hi = colorRange([]float64{2, 2}, nil, nil)
	if lo != 2 || hi != 3 {
		t.Errorf("Got [%g, %g]", lo, hi)
	}
	cmin, cmax := 5.0, 7.0
	lo, hi = colorRange([]float64{1, 100}, &cmin, &cmax)
	if lo != 5 || hi != 7 {
		t.Errorf("Got [%g, %g]", lo, hi)
	}
	lo, hi = colorRange(nil, nil, nil)
	if lo != 0 || hi != 1 {
		t.Errorf("Got [%g, %g]", lo, hi)
	}
}
