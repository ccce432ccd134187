package crs

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	earthRadius = 6378137.0
	// MaxLat is the latitude where the square web mercator world ends.
	MaxLat = 85.05112878
)

// mercator is spherical web mercator (EPSG:3857).
type mercator struct{}

// Forward maps lon [-180..180] to x and clamps latitude to +-MaxLat
// before the mercator stretch.
func (mercator) Forward(ll orb.Point) orb.Point {
	lat := ll[1]
	if lat > MaxLat {
		lat = MaxLat
	} else if lat < -MaxLat {
		lat = -MaxLat
	}

	x := earthRadius * ll[0] * deg
	y := earthRadius * math.Log(math.Tan(math.Pi/4+lat*deg/2))

	return orb.Point{x, y}
}

// Inverse applies the inverse mercator projection.
func (mercator) Inverse(xy orb.Point) orb.Point {
	lon := xy[0] / earthRadius / deg

	mercatorY := xy[1] / earthRadius
	latRad := (2.0 * math.Atan(math.Exp(mercatorY))) - (math.Pi * 0.5)
	lat := latRad * (180.0 / math.Pi)

	if lat > MaxLat {
		lat = MaxLat
	} else if lat < -MaxLat {
		lat = -MaxLat
	}

	return orb.Point{lon, lat}
}

func (mercator) Geographic() bool { return false }
