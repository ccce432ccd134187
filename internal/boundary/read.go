package boundary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/usmap/internal/errs"
	"github.com/woozymasta/usmap/internal/geo"
)

// Read loads raw boundary records from a shapefile or GeoJSON file, chosen by
// extension. Coordinates are returned as stored in the file.
func Read(path string) ([]geo.Record, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errs.Wrap(errs.CodeDataUnavailable, err, "boundary dataset %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return readShapefile(path)
	case ".geojson", ".json":
		return readGeoJSON(path)
	default:
		return nil, errs.New(errs.CodeDataUnavailable, "unsupported dataset format %q", filepath.Ext(path))
	}
}

func readGeoJSON(path string) ([]geo.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.CodeDataUnavailable, err, "read %s", path)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errs.Wrap(errs.CodeDataUnavailable, err, "decode %s", path)
	}

	records, skipped := geo.RecordsFromFeatures(fc)
	if skipped > 0 {
		log.Warn().Str("path", path).Int("skipped", skipped).Msg("Ignored non-polygon features")
	}

	for i, r := range records {
		if r.StateFIPS == "" {
			return nil, errs.New(errs.CodeDataUnavailable, "%s: feature %d has no %s property", path, i, geo.PropStateFIPS)
		}
	}

	return records, nil
}

func readShapefile(path string) (records []geo.Record, err error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.CodeDataUnavailable, err, "open %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	fipsIdx, nameIdx := -1, -1
	for i, f := range fields {
		names[i] = dbfValue(f.String())
		switch strings.ToUpper(names[i]) {
		case geo.PropStateFIPS:
			fipsIdx = i
		case geo.PropName:
			nameIdx = i
		}
	}
	if fipsIdx < 0 {
		return nil, errs.New(errs.CodeDataUnavailable, "%s: no %s attribute", path, geo.PropStateFIPS)
	}

	skipped := 0
	for reader.Next() {
		n, shape := reader.Shape()

		mp, err := shapeToMultiPolygon(shape)
		if err != nil {
			skipped++
			log.Trace().Err(err).Int("row", n).Msg("Skipping shape")
			continue
		}

		attrs := make(map[string]string, len(names))
		for i, name := range names {
			attrs[name] = dbfValue(reader.ReadAttribute(n, i))
		}
		if attrs[names[fipsIdx]] == "" {
			return nil, errs.New(errs.CodeDataUnavailable, "%s: row %d has an empty %s attribute", path, n, geo.PropStateFIPS)
		}

		rec := geo.Record{
			StateFIPS:  attrs[names[fipsIdx]],
			Attributes: attrs,
			Geometry:   mp,
		}
		if nameIdx >= 0 {
			rec.Name = attrs[names[nameIdx]]
		}
		records = append(records, rec)
	}

	if err := reader.Err(); err != nil {
		return nil, errs.Wrap(errs.CodeDataUnavailable, err, "read %s", path)
	}
	if skipped > 0 {
		log.Warn().Str("path", path).Int("skipped", skipped).Msg("Ignored non-polygon shapes")
	}

	return records, nil
}

// dbfValue strips the NUL and space padding of fixed width DBF columns.
func dbfValue(s string) string {
	return strings.Trim(s, "\x00 ")
}

var errNotPolygon = errors.New("not a polygon shape")

// shapeToMultiPolygon groups shapefile rings into polygons. Outer rings are
// clockwise in the shapefile format and start a new polygon. A
// counter-clockwise ring is a hole of the first outer ring containing it,
// or of the latest polygon when none does.
func shapeToMultiPolygon(shape shp.Shape) (orb.MultiPolygon, error) {
	var poly *shp.Polygon
	switch s := shape.(type) {
	case *shp.Polygon:
		poly = s
	case *shp.PolygonZ:
		poly = &shp.Polygon{Parts: s.Parts, Points: s.Points, NumParts: s.NumParts, NumPoints: s.NumPoints}
	case *shp.PolygonM:
		poly = &shp.Polygon{Parts: s.Parts, Points: s.Points, NumParts: s.NumParts, NumPoints: s.NumPoints}
	default:
		return nil, fmt.Errorf("%w: %T", errNotPolygon, shape)
	}

	var mp orb.MultiPolygon
	for i := range poly.Parts {
		start := int(poly.Parts[i])
		end := len(poly.Points)
		if i+1 < len(poly.Parts) {
			end = int(poly.Parts[i+1])
		}
		if start < 0 || end > len(poly.Points) || start >= end {
			return nil, fmt.Errorf("part %d has invalid bounds [%d:%d]", i, start, end)
		}

		ring := make(orb.Ring, 0, end-start)
		for _, p := range poly.Points[start:end] {
			ring = append(ring, orb.Point{p.X, p.Y})
		}

		if ring.Orientation() == orb.CW || len(mp) == 0 {
			mp = append(mp, orb.Polygon{ring})
			continue
		}
		owner := len(mp) - 1
		for j, p := range mp {
			if planar.RingContains(p[0], ring[0]) {
				owner = j
				break
			}
		}
		mp[owner] = append(mp[owner], ring)
	}

	if len(mp) == 0 {
		return nil, errors.New("polygon has no rings")
	}
	return mp, nil
}
