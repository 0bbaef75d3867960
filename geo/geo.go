// Package geo projects longitude/latitude samples into plane coordinates
// for map panels.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/project"
)

// MaxLatitude is the latitude limit of the Web Mercator projection.
const MaxLatitude = 85.05112877980659

// Projection maps a lon/lat point into the plane.
type Projection int

const (
	// Equirectangular keeps longitude and latitude as plane coordinates.
	Equirectangular Projection = iota
	// WebMercator is the spherical mercator projection of map tiles.
	WebMercator
)

// Point projects a single lon/lat point.
func (p Projection) Point(lon, lat float64) orb.Point {
	pt := orb.Point{lon, lat}
	if p == WebMercator {
		pt[1] = math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
		return project.Point(pt, project.WGS84.ToMercator)
	}
	return pt
}

// Project projects all lon/lat pairs. lon and lat must have equal length.
func (p Projection) Project(lon, lat []float64) (xs, ys []float64) {
	xs, ys = make([]float64, len(lon)), make([]float64, len(lon))
	for i := range lon {
		pt := p.Point(lon[i], lat[i])
		xs[i], ys[i] = pt.X(), pt.Y()
	}
	return xs, ys
}

// ProjectBound projects the corners of a lon/lat bound.
func (p Projection) ProjectBound(b orb.Bound) orb.Bound {
	return orb.Bound{Min: p.Point(b.Min.X(), b.Min.Y()), Max: p.Point(b.Max.X(), b.Max.Y())}
}

// Bound returns the lon/lat bound of the finite points.
// ok is false if there are none.
func Bound(lon, lat []float64) (b orb.Bound, ok bool) {
	for i := range lon {
		if !finite(lon[i]) || !finite(lat[i]) {
			continue
		}
		pt := orb.Point{lon[i], lat[i]}
		if !ok {
			b, ok = pt.Bound(), true
			continue
		}
		b = b.Extend(pt)
	}
	return b, ok
}

// View returns the lon/lat bound of the map tile containing center at
// the given zoom level. Zoom 0 shows the whole world.
func View(center orb.Point, zoom float64) orb.Bound {
	if zoom < 0 {
		zoom = 0
	}
	z := maptile.Zoom(math.Floor(zoom))
	return maptile.At(center, z).Bound()
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
