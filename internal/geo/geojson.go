package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Property names written to and read from boundary features.
const (
	PropStateFIPS = "STATEFP"
	PropName      = "NAME"
)

// FeatureCollection converts the collection to GeoJSON. Each feature carries
// the source attributes plus STATEFP and NAME. The CRS identifier is set as a
// foreign member so consumers can tell planar output from lon/lat.
func (c *Collection) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{"crs": c.CRS}

	for _, r := range c.Records {
		f := geojson.NewFeature(r.Geometry)
		for k, v := range r.Attributes {
			f.Properties[k] = v
		}
		f.Properties[PropStateFIPS] = r.StateFIPS
		if r.Name != "" {
			f.Properties[PropName] = r.Name
		}
		fc.Append(f)
	}

	return fc
}

// RecordsFromFeatures builds records from GeoJSON features. Features without
// a polygonal geometry are reported through the returned skip count.
func RecordsFromFeatures(fc *geojson.FeatureCollection) (records []Record, skipped int) {
	for _, f := range fc.Features {
		mp, ok := AsMultiPolygon(f.Geometry)
		if !ok {
			skipped++
			continue
		}

		attrs := make(map[string]string, len(f.Properties))
		for k, v := range f.Properties {
			if s, ok := v.(string); ok {
				attrs[k] = s
			}
		}

		records = append(records, Record{
			StateFIPS:  f.Properties.MustString(PropStateFIPS, ""),
			Name:       f.Properties.MustString(PropName, ""),
			Attributes: attrs,
			Geometry:   mp,
		})
	}

	return records, skipped
}

// AsMultiPolygon normalizes polygonal geometry to a multipolygon.
func AsMultiPolygon(g orb.Geometry) (orb.MultiPolygon, bool) {
	switch v := g.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{v}, true
	case orb.MultiPolygon:
		return v, true
	default:
		return nil, false
	}
}
