// Package crs implements the coordinate reference systems used by the map
// pipeline and transforms between them.
//
// Every projection converts to and from geographic longitude/latitude in
// degrees. Transforms between two projected systems go through geographic
// coordinates. NAD83 and WGS84 geographic coordinates are treated as
// identical, the difference is below a metre.
package crs

import (
	"math"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/woozymasta/usmap/internal/errs"
)

// Well known identifiers.
const (
	WGS84        = "EPSG:4326"
	NAD83        = "EPSG:4269"
	USAtlasEqual = "ESRI:102003"
	ConusAlbers  = "EPSG:5070"
	WebMercator  = "EPSG:3857"
)

// Projection converts between geographic (lon, lat) degrees and planar
// coordinates. Points are orb.Point{x, y}, with x as longitude for
// geographic input.
type Projection interface {
	Forward(lonLat orb.Point) orb.Point
	Inverse(xy orb.Point) orb.Point
	// Geographic reports whether the planar side is plain lon/lat degrees.
	Geographic() bool
}

var registry = map[string]Projection{
	WGS84:         geographic{},
	NAD83:         geographic{},
	"OGC:CRS84":   geographic{},
	USAtlasEqual:  NewAlbers(29.5, 45.5, 37.5, -96, 0, 0),
	ConusAlbers:   NewAlbers(29.5, 45.5, 23, -96, 0, 0),
	WebMercator:   mercator{},
	"EPSG:900913": mercator{},
}

// Normalize upper-cases an identifier and trims surrounding space.
func Normalize(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Lookup returns the projection registered under id.
func Lookup(id string) (Projection, error) {
	p, ok := registry[Normalize(id)]
	if !ok {
		return nil, errs.New(errs.CodeProjection, "unsupported crs %q", id)
	}
	return p, nil
}

// Supported lists every registered identifier.
func Supported() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Transformer converts coordinates from one CRS to another.
type Transformer struct {
	src, dst     Projection
	srcID, dstID string
	identity     bool
}

// NewTransformer builds a transformer from src to dst.
func NewTransformer(src, dst string) (*Transformer, error) {
	sp, err := Lookup(src)
	if err != nil {
		return nil, err
	}
	dp, err := Lookup(dst)
	if err != nil {
		return nil, err
	}

	srcID, dstID := Normalize(src), Normalize(dst)
	identity := srcID == dstID || (sp.Geographic() && dp.Geographic())

	return &Transformer{src: sp, dst: dp, srcID: srcID, dstID: dstID, identity: identity}, nil
}

// Source returns the normalized source identifier.
func (t *Transformer) Source() string { return t.srcID }

// Target returns the normalized target identifier.
func (t *Transformer) Target() string { return t.dstID }

// Point transforms a single point.
func (t *Transformer) Point(p orb.Point) (orb.Point, error) {
	if t.identity {
		return p, nil
	}

	out := t.dst.Forward(t.src.Inverse(p))
	if !finite(out) {
		return out, errs.New(errs.CodeProjection, "point %v has no finite image from %s to %s", p, t.srcID, t.dstID)
	}
	return out, nil
}

// Geometry returns a transformed copy of g. The input is never modified.
func (t *Transformer) Geometry(g orb.Geometry) (orb.Geometry, error) {
	if g == nil {
		return nil, nil
	}

	out := orb.Clone(g)
	if t.identity {
		return out, nil
	}

	var failed *orb.Point
	out = project.Geometry(out, func(p orb.Point) orb.Point {
		q := t.dst.Forward(t.src.Inverse(p))
		if failed == nil && !finite(q) {
			bad := p
			failed = &bad
		}
		return q
	})

	if failed != nil {
		return nil, errs.New(errs.CodeProjection, "point %v has no finite image from %s to %s", *failed, t.srcID, t.dstID)
	}
	return out, nil
}

func finite(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsNaN(p[1]) && !math.IsInf(p[0], 0) && !math.IsInf(p[1], 0)
}

type geographic struct{}

func (geographic) Forward(p orb.Point) orb.Point { return p }
func (geographic) Inverse(p orb.Point) orb.Point { return p }
func (geographic) Geographic() bool              { return true }
