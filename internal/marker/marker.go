// Package marker validates caller supplied marker records and projects them
// into the CRS of the boundary layer.
package marker

import (
	"bytes"
	"encoding/json"
	"io"
	"math"

	"github.com/paulmach/orb"

	"github.com/woozymasta/usmap/internal/crs"
	"github.com/woozymasta/usmap/internal/errs"
)

// Required field names.
const (
	FieldLat = "lat"
	FieldLng = "lng"
)

// Input is one validated marker record. Fields keeps every key the caller
// sent, lat and lng included.
type Input struct {
	Lat    float64
	Lng    float64
	Fields map[string]any
}

// Point returns the marker as a geographic (lng, lat) point.
func (in Input) Point() orb.Point {
	return orb.Point{in.Lng, in.Lat}
}

// Projected is a marker placed in the target CRS.
type Projected struct {
	Index      int
	Fields     map[string]any
	Geographic orb.Point
	Point      orb.Point
	CRS        string
}

// Parse validates a raw JSON marker list.
//
// The payload must be a non-empty array of objects and every object must
// have numeric lat and lng members.
func Parse(raw []byte) ([]Input, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errs.InvalidMarker(errs.ReasonEmpty, "", "no marker data provided")
	}

	var records []map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&records); err != nil {
		return nil, errs.InvalidMarker(errs.ReasonNotRecords, "",
			"marker data must be a list of objects with %q and %q keys", FieldLat, FieldLng)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errs.InvalidMarker(errs.ReasonNotRecords, "", "unexpected data after the marker list")
	}

	return FromRecords(records)
}

// FromRecords validates already decoded records.
func FromRecords(records []map[string]any) ([]Input, error) {
	if records == nil {
		return nil, errs.InvalidMarker(errs.ReasonNotRecords, "",
			"marker data must be a list of objects with %q and %q keys", FieldLat, FieldLng)
	}
	if len(records) == 0 {
		return nil, errs.InvalidMarker(errs.ReasonEmpty, "", "no marker data provided")
	}

	inputs := make([]Input, len(records))
	for i, rec := range records {
		if rec == nil {
			return nil, errs.InvalidMarker(errs.ReasonNotRecords, "", "record %d is not an object", i)
		}

		lat, err := number(rec, FieldLat, i, 90)
		if err != nil {
			return nil, err
		}
		lng, err := number(rec, FieldLng, i, 180)
		if err != nil {
			return nil, err
		}

		inputs[i] = Input{Lat: lat, Lng: lng, Fields: normalize(rec)}
	}

	return inputs, nil
}

// Project validates raw JSON markers and projects them to target.
func Project(raw []byte, target string) ([]Projected, error) {
	inputs, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return ProjectInputs(inputs, target)
}

// ProjectInputs reprojects validated markers from WGS84 to target in one
// batch. Output order matches input order.
func ProjectInputs(inputs []Input, target string) ([]Projected, error) {
	if len(inputs) == 0 {
		return nil, errs.InvalidMarker(errs.ReasonEmpty, "", "no marker data provided")
	}

	tr, err := crs.NewTransformer(crs.WGS84, target)
	if err != nil {
		return nil, err
	}

	points := make(orb.MultiPoint, len(inputs))
	for i, in := range inputs {
		points[i] = in.Point()
	}

	g, err := tr.Geometry(points)
	if err != nil {
		return nil, err
	}
	projected := g.(orb.MultiPoint)

	out := make([]Projected, len(inputs))
	for i, in := range inputs {
		out[i] = Projected{
			Index:      i,
			Fields:     in.Fields,
			Geographic: points[i],
			Point:      projected[i],
			CRS:        tr.Target(),
		}
	}

	return out, nil
}

func number(rec map[string]any, field string, index int, limit float64) (float64, error) {
	v, ok := rec[field]
	if !ok {
		return 0, errs.InvalidMarker(errs.ReasonMissingField, field,
			"missing required field %q in record %d", field, index)
	}

	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, errs.InvalidMarker(errs.ReasonInvalidValue, field, "record %d: %q is not a number", index, field)
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, errs.InvalidMarker(errs.ReasonInvalidValue, field,
			"record %d: %q must be a number, got %T", index, field, v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > limit {
		return 0, errs.InvalidMarker(errs.ReasonInvalidValue, field,
			"record %d: %q = %v out of range [-%v, %v]", index, field, f, limit, limit)
	}
	return f, nil
}

// normalize turns json.Number values back into float64 or int64 so callers
// see plain numbers. Nested values are left as decoded.
func normalize(rec map[string]any) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		if n, ok := v.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				out[k] = i
				continue
			}
			if f, err := n.Float64(); err == nil {
				out[k] = f
				continue
			}
		}
		out[k] = v
	}
	return out
}
