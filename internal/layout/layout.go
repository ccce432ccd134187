// Package layout moves the non-contiguous states next to the mainland so the
// whole country fits one compact frame.
package layout

import (
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/usmap/internal/geo"
)

// AffineRecipe describes how an inset is moved. The translation is applied
// first; scaling and then rotation use the centroid of the translated inset
// as their pivot.
type AffineRecipe struct {
	OffsetX float64 `yaml:"offset_x" json:"offset_x"`
	OffsetY float64 `yaml:"offset_y" json:"offset_y"`
	Scale   float64 `yaml:"scale" json:"scale"`
	Rotate  float64 `yaml:"rotate" json:"rotate"` // degrees, counter-clockwise
}

// Inset binds a recipe to the FIPS code it moves.
type Inset struct {
	Name   string       `yaml:"name" json:"name"`
	FIPS   string       `yaml:"fips" json:"fips"`
	Recipe AffineRecipe `yaml:",inline" json:"recipe"`
}

// DefaultInsets returns the layout used for the US National Atlas Equal Area
// working CRS. Offsets are metres in that CRS.
func DefaultInsets() []Inset {
	return []Inset{
		{Name: "Alaska", FIPS: "02", Recipe: AffineRecipe{OffsetX: 1300000, OffsetY: -4900000, Scale: 0.5, Rotate: 32}},
		{Name: "Hawaii", FIPS: "15", Recipe: AffineRecipe{OffsetX: 5400000, OffsetY: -1500000, Scale: 1, Rotate: 24}},
		{Name: "Puerto Rico", FIPS: "72", Recipe: AffineRecipe{OffsetX: -1000000, OffsetY: 250000, Scale: 4, Rotate: -14}},
	}
}

// Adjust returns a new collection where every inset group has been moved by
// its recipe. Mainland records come first in their input order, followed by
// the insets in the order given. The input collection is not modified.
func Adjust(c *geo.Collection, insets []Inset) *geo.Collection {
	codes := make(map[string]bool, len(insets))
	for _, in := range insets {
		codes[in.FIPS] = true
	}

	moved, mainland := c.Partition(codes)

	out := &geo.Collection{CRS: c.CRS, Records: make([]geo.Record, 0, c.Len())}
	for _, r := range mainland {
		out.Records = append(out.Records, r.Clone())
	}

	for _, in := range insets {
		group := selectFIPS(moved, in.FIPS)
		if len(group) == 0 {
			log.Debug().Str("inset", in.Name).Str("fips", in.FIPS).Msg("Inset not present, skipping")
			continue
		}

		adjusted, pivot := adjust(group, in.Recipe)
		out.Records = append(out.Records, adjusted...)

		log.Debug().
			Str("inset", in.Name).
			Int("records", len(group)).
			Float64("pivot_x", pivot[0]).
			Float64("pivot_y", pivot[1]).
			Msg("Inset repositioned")
	}

	return out
}

// adjust applies one recipe to a group and returns the moved copies together
// with the shared pivot used for scaling and rotation.
func adjust(group []geo.Record, r AffineRecipe) ([]geo.Record, orb.Point) {
	out := make([]geo.Record, len(group))
	for i, rec := range group {
		out[i] = rec.Clone()
		out[i].Geometry = geo.Translate(rec.Geometry, r.OffsetX, r.OffsetY)
	}

	pivot := geo.Centroid(out)

	for i := range out {
		g := out[i].Geometry
		if r.Scale != 1 {
			g = geo.Scale(g, r.Scale, pivot)
		}
		if r.Rotate != 0 {
			g = geo.Rotate(g, r.Rotate, pivot)
		}
		out[i].Geometry = g
	}

	return out, pivot
}

func selectFIPS(records []geo.Record, fips string) []geo.Record {
	var group []geo.Record
	for _, r := range records {
		if r.StateFIPS == fips {
			group = append(group, r)
		}
	}
	return group
}
