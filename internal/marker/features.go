package marker

import (
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection converts projected markers into point features. Caller
// fields become feature properties; the original position is kept under
// "lng"/"lat" as sent.
func FeatureCollection(markers []Projected, crsID string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{"crs": crsID}

	for _, m := range markers {
		f := geojson.NewFeature(m.Point)
		for k, v := range m.Fields {
			f.Properties[k] = v
		}
		fc.Append(f)
	}

	return fc
}
