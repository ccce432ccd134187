package crs

import (
	"math"

	"github.com/paulmach/orb"
)

// GRS80 ellipsoid, used by NAD83.
const (
	grs80A  = 6378137.0
	grs80Rf = 298.257222101
)

const deg = math.Pi / 180.0

// Albers is the Albers equal-area conic projection on the GRS80 ellipsoid.
// Formulas follow Snyder, "Map Projections: A Working Manual", pp. 101-102.
type Albers struct {
	lon0           float64 // radians
	falseE, falseN float64
	a, e, e2       float64
	n, c, rho0     float64
}

// NewAlbers builds the projection from its standard parallels, origin
// latitude and central meridian in degrees, plus false easting/northing.
func NewAlbers(lat1, lat2, lat0, lon0, falseEasting, falseNorthing float64) *Albers {
	f := 1.0 / grs80Rf
	e2 := 2*f - f*f
	p := &Albers{
		lon0:   lon0 * deg,
		falseE: falseEasting,
		falseN: falseNorthing,
		a:      grs80A,
		e:      math.Sqrt(e2),
		e2:     e2,
	}

	phi1, phi2 := lat1*deg, lat2*deg
	m1, m2 := p.m(phi1), p.m(phi2)
	q0, q1, q2 := p.q(lat0*deg), p.q(phi1), p.q(phi2)

	if math.Abs(phi1-phi2) < 1e-10 {
		p.n = math.Sin(phi1)
	} else {
		p.n = (m1*m1 - m2*m2) / (q2 - q1)
	}
	p.c = m1*m1 + p.n*q1
	p.rho0 = p.a * math.Sqrt(p.c-p.n*q0) / p.n

	return p
}

func (p *Albers) m(phi float64) float64 {
	s := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-p.e2*s*s)
}

func (p *Albers) q(phi float64) float64 {
	s := math.Sin(phi)
	es := p.e * s
	return (1 - p.e2) * (s/(1-es*es) - (1/(2*p.e))*math.Log((1-es)/(1+es)))
}

// Forward projects (lon, lat) degrees to metres.
func (p *Albers) Forward(ll orb.Point) orb.Point {
	lam := normalizeAngle(ll[0]*deg - p.lon0)
	phi := ll[1] * deg

	rho := p.a * math.Sqrt(p.c-p.n*p.q(phi)) / p.n
	theta := p.n * lam

	return orb.Point{
		p.falseE + rho*math.Sin(theta),
		p.falseN + p.rho0 - rho*math.Cos(theta),
	}
}

// Inverse converts metres back to (lon, lat) degrees.
func (p *Albers) Inverse(xy orb.Point) orb.Point {
	x := xy[0] - p.falseE
	y := p.rho0 - (xy[1] - p.falseN)

	rho := math.Hypot(x, y)
	theta := math.Atan2(x, y)
	if p.n < 0 {
		rho = -rho
		theta = math.Atan2(-x, -y)
	}

	q := (p.c - rho*rho*p.n*p.n/(p.a*p.a)) / p.n
	phi := p.latitude(q)
	lam := p.lon0 + theta/p.n

	return orb.Point{normalizeAngle(lam) / deg, phi / deg}
}

// Geographic reports false: Albers output is planar.
func (p *Albers) Geographic() bool { return false }

// latitude solves q(phi) = q by Newton iteration.
func (p *Albers) latitude(q float64) float64 {
	// q at the poles
	qp := 1 - (1-p.e2)/(2*p.e)*math.Log((1-p.e)/(1+p.e))
	if math.Abs(math.Abs(q)-qp) < 1e-12 {
		return math.Copysign(math.Pi/2, q)
	}

	phi := math.Asin(clamp(q/2, -1, 1))
	for i := 0; i < 25; i++ {
		s := math.Sin(phi)
		es := p.e * s
		one := 1 - es*es
		d := one * one / (2 * math.Cos(phi)) *
			(q/(1-p.e2) - s/one + (1/(2*p.e))*math.Log((1-es)/(1+es)))
		phi += d
		if math.Abs(d) < 1e-14 {
			break
		}
	}
	return phi
}

func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
