package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
)

// Translate returns a copy of g moved by (dx, dy).
func Translate(g orb.MultiPolygon, dx, dy float64) orb.MultiPolygon {
	return apply(g, func(p orb.Point) orb.Point {
		return orb.Point{p[0] + dx, p[1] + dy}
	})
}

// Scale returns a copy of g scaled uniformly by factor about origin.
func Scale(g orb.MultiPolygon, factor float64, origin orb.Point) orb.MultiPolygon {
	return apply(g, func(p orb.Point) orb.Point {
		return orb.Point{
			origin[0] + (p[0]-origin[0])*factor,
			origin[1] + (p[1]-origin[1])*factor,
		}
	})
}

// Rotate returns a copy of g rotated counter-clockwise by degrees about origin.
func Rotate(g orb.MultiPolygon, degrees float64, origin orb.Point) orb.MultiPolygon {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)

	return apply(g, func(p orb.Point) orb.Point {
		x, y := p[0]-origin[0], p[1]-origin[1]
		return orb.Point{
			origin[0] + x*cos - y*sin,
			origin[1] + x*sin + y*cos,
		}
	})
}

// Dissolve gathers every polygon of the records into one multipolygon.
// Boundary records of distinct states do not overlap, so the result covers
// the same area as their union.
func Dissolve(records []Record) orb.MultiPolygon {
	var mp orb.MultiPolygon
	for _, r := range records {
		mp = append(mp, r.Geometry...)
	}
	return mp
}

// Centroid returns the area-weighted centroid of the dissolved records.
func Centroid(records []Record) orb.Point {
	c, _ := planar.CentroidArea(Dissolve(records))
	return c
}

func apply(g orb.MultiPolygon, fn orb.Projection) orb.MultiPolygon {
	return project.MultiPolygon(g.Clone(), fn)
}
