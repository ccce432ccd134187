package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func square(x, y, size float64) orb.MultiPolygon {
	return orb.MultiPolygon{{{
		{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y},
	}}}
}

func near(a, b orb.Point) bool {
	return math.Abs(a[0]-b[0]) < 1e-9 && math.Abs(a[1]-b[1]) < 1e-9
}

func TestTranslate(t *testing.T) {
	in := square(0, 0, 2)
	out := Translate(in, 10, -5)

	if got := out[0][0][0]; !near(got, orb.Point{10, -5}) {
		t.Errorf("Translate() first point = %v", got)
	}
	if in[0][0][0] != (orb.Point{0, 0}) {
		t.Error("Translate() mutated its input")
	}
}

func TestScaleAboutOrigin(t *testing.T) {
	out := Scale(square(0, 0, 2), 0.5, orb.Point{1, 1})

	want := orb.Point{0.5, 0.5}
	if got := out[0][0][0]; !near(got, want) {
		t.Errorf("Scale() first point = %v, want %v", got, want)
	}
}

func TestRotateCounterClockwise(t *testing.T) {
	mp := orb.MultiPolygon{{{{1, 0}, {2, 0}, {1, 1}, {1, 0}}}}
	out := Rotate(mp, 90, orb.Point{0, 0})

	if got := out[0][0][0]; !near(got, orb.Point{0, 1}) {
		t.Errorf("Rotate(90) of (1,0) = %v, want (0,1)", got)
	}
}

func TestCentroidDissolvesGroup(t *testing.T) {
	records := []Record{
		{StateFIPS: "15", Geometry: square(0, 0, 2)},
		{StateFIPS: "15", Geometry: square(10, 0, 2)},
	}

	got := Centroid(records)
	if !near(got, orb.Point{6, 1}) {
		t.Errorf("Centroid() = %v, want (6, 1)", got)
	}
}

func TestCentroidAreaWeighted(t *testing.T) {
	records := []Record{
		{Geometry: square(0, 0, 1)},
		{Geometry: square(9, 0, 3)},
	}

	// areas 1 and 9, centroids (0.5,0.5) and (10.5,1.5)
	want := orb.Point{(0.5 + 9*10.5) / 10, (0.5 + 9*1.5) / 10}
	if got := Centroid(records); !near(got, want) {
		t.Errorf("Centroid() = %v, want %v", got, want)
	}
}

func TestMergeDuplicates(t *testing.T) {
	records := []Record{
		{StateFIPS: "01", Geometry: square(0, 0, 1)},
		{StateFIPS: "02", Geometry: square(5, 5, 1)},
		{StateFIPS: "01", Geometry: square(2, 0, 1)},
	}

	merged := Merge(records)
	if len(merged) != 2 {
		t.Fatalf("Merge() returned %d records, want 2", len(merged))
	}
	if merged[0].StateFIPS != "01" || len(merged[0].Geometry) != 2 {
		t.Errorf("first record = %s with %d polygons", merged[0].StateFIPS, len(merged[0].Geometry))
	}
	if merged[1].StateFIPS != "02" {
		t.Errorf("second record = %s, want 02", merged[1].StateFIPS)
	}
}

func TestCollectionCloneIsDeep(t *testing.T) {
	c := &Collection{CRS: "ESRI:102003", Records: []Record{
		{StateFIPS: "06", Attributes: map[string]string{"NAME": "California"}, Geometry: square(0, 0, 1)},
	}}

	cp := c.Clone()
	cp.Records[0].Geometry[0][0][0] = orb.Point{99, 99}
	cp.Records[0].Attributes["NAME"] = "changed"

	if c.Records[0].Geometry[0][0][0] != (orb.Point{0, 0}) {
		t.Error("Clone() shares geometry with the original")
	}
	if c.Records[0].Attributes["NAME"] != "California" {
		t.Error("Clone() shares attributes with the original")
	}
}

func TestPartitionAndBound(t *testing.T) {
	c := &Collection{Records: []Record{
		{StateFIPS: "06", Geometry: square(0, 0, 1)},
		{StateFIPS: "02", Geometry: square(-10, -10, 1)},
		{StateFIPS: "36", Geometry: square(4, 4, 1)},
	}}

	in, out := c.Partition(map[string]bool{"02": true})
	if len(in) != 1 || len(out) != 2 {
		t.Fatalf("Partition() sizes = %d/%d", len(in), len(out))
	}

	b := Bound(out)
	if b.Min != (orb.Point{0, 0}) || b.Max != (orb.Point{5, 5}) {
		t.Errorf("Bound() = %v", b)
	}
	if got := c.FIPS(); len(got) != 3 || got[1] != "02" {
		t.Errorf("FIPS() = %v", got)
	}
}

func TestFeatureCollectionRoundTrip(t *testing.T) {
	c := &Collection{CRS: "ESRI:102003", Records: []Record{
		{StateFIPS: "06", Name: "California", Attributes: map[string]string{"STUSPS": "CA"}, Geometry: square(0, 0, 1)},
	}}

	fc := c.FeatureCollection()
	if fc.ExtraMembers["crs"] != "ESRI:102003" {
		t.Errorf("crs member = %v", fc.ExtraMembers["crs"])
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	parsed, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatalf("UnmarshalFeatureCollection() error: %v", err)
	}

	records, skipped := RecordsFromFeatures(parsed)
	if skipped != 0 || len(records) != 1 {
		t.Fatalf("RecordsFromFeatures() = %d records, %d skipped", len(records), skipped)
	}
	r := records[0]
	if r.StateFIPS != "06" || r.Name != "California" || r.Attributes["STUSPS"] != "CA" {
		t.Errorf("record = %+v", r)
	}
}

func TestAsMultiPolygonRejectsPoints(t *testing.T) {
	if _, ok := AsMultiPolygon(orb.Point{1, 2}); ok {
		t.Error("AsMultiPolygon() accepted a point")
	}
}
