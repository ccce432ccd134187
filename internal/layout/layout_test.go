package layout

import (
	"math"
	"sort"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/woozymasta/usmap/internal/geo"
)

func box(x, y, w, h float64) orb.MultiPolygon {
	return orb.MultiPolygon{{{
		{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}, {x, y},
	}}}
}

func fixture() *geo.Collection {
	return &geo.Collection{CRS: "ESRI:102003", Records: []geo.Record{
		{StateFIPS: "06", Geometry: box(-2300000, -500000, 800000, 1200000)},
		{StateFIPS: "02", Geometry: box(-4000000, 1500000, 2000000, 1800000)},
		{StateFIPS: "36", Geometry: box(1300000, 300000, 600000, 500000)},
		{StateFIPS: "15", Geometry: box(-6200000, -100000, 600000, 400000)},
		{StateFIPS: "72", Geometry: box(3200000, -1600000, 200000, 60000)},
	}}
}

func closeTo(a, b orb.Point, tol float64) bool {
	return math.Abs(a[0]-b[0]) < tol && math.Abs(a[1]-b[1]) < tol
}

func TestAdjustPreservesRecords(t *testing.T) {
	in := fixture()
	out := Adjust(in, DefaultInsets())

	if out.Len() != in.Len() {
		t.Fatalf("Adjust() returned %d records, want %d", out.Len(), in.Len())
	}

	want := in.FIPS()
	got := out.FIPS()
	sort.Strings(want)
	sort.Strings(got)
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("FIPS set changed: got %v, want %v", got, want)
		}
	}
	if out.CRS != in.CRS {
		t.Errorf("CRS = %q, want %q", out.CRS, in.CRS)
	}
}

func TestAdjustOrder(t *testing.T) {
	out := Adjust(fixture(), DefaultInsets())

	want := []string{"06", "36", "02", "15", "72"}
	got := out.FIPS()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FIPS order = %v, want %v", got, want)
		}
	}
}

func TestAdjustDoesNotMutateInput(t *testing.T) {
	in := fixture()
	before := in.Records[1].Geometry[0][0][0]

	_ = Adjust(in, DefaultInsets())

	if in.Records[1].Geometry[0][0][0] != before {
		t.Error("Adjust() modified the input collection")
	}
}

func TestMainlandUntouched(t *testing.T) {
	in := fixture()
	out := Adjust(in, DefaultInsets())

	for _, fips := range []string{"06", "36"} {
		a, _ := in.Find(fips)
		b, _ := out.Find(fips)
		if a.Geometry[0][0][2] != b.Geometry[0][0][2] {
			t.Errorf("mainland %s moved", fips)
		}
	}
}

func TestInsetCentroidLandsAtOffset(t *testing.T) {
	in := fixture()
	out := Adjust(in, DefaultInsets())

	for _, inset := range DefaultInsets() {
		t.Run(inset.Name, func(t *testing.T) {
			before, _ := in.Find(inset.FIPS)
			after, _ := out.Find(inset.FIPS)

			c0 := geo.Centroid([]geo.Record{before})
			want := orb.Point{c0[0] + inset.Recipe.OffsetX, c0[1] + inset.Recipe.OffsetY}
			got := geo.Centroid([]geo.Record{after})

			// scaling and rotating about the centroid keep it in place
			if !closeTo(got, want, 1e-2) {
				t.Errorf("centroid = %v, want %v", got, want)
			}
		})
	}
}

func TestInsetScaleChangesArea(t *testing.T) {
	in := fixture()
	out := Adjust(in, DefaultInsets())

	for _, inset := range DefaultInsets() {
		before, _ := in.Find(inset.FIPS)
		after, _ := out.Find(inset.FIPS)

		ratio := planar.Area(after.Geometry) / planar.Area(before.Geometry)
		want := inset.Recipe.Scale * inset.Recipe.Scale
		if math.Abs(ratio-want) > 1e-9*want {
			t.Errorf("%s area ratio = %v, want %v", inset.Name, ratio, want)
		}
	}
}

// The pivot must be the centroid after translation. Pivoting on the
// pre-translation centroid yields a different placement.
func TestTransformOrderMatters(t *testing.T) {
	alaska, _ := fixture().Find("02")
	recipe := DefaultInsets()[0].Recipe

	moved, pivot := adjust([]geo.Record{alaska}, recipe)
	got := geo.Centroid(moved)

	stale := geo.Centroid([]geo.Record{alaska})
	wrong := geo.Translate(alaska.Geometry, recipe.OffsetX, recipe.OffsetY)
	wrong = geo.Scale(wrong, recipe.Scale, stale)
	wrong = geo.Rotate(wrong, recipe.Rotate, stale)
	wrongCentroid := geo.Centroid([]geo.Record{{Geometry: wrong}})

	if closeTo(got, wrongCentroid, 1) {
		t.Errorf("pivot choice had no effect: both centroids %v", got)
	}
	if !closeTo(pivot, got, 1e-2) {
		t.Errorf("pivot %v should equal final centroid %v", pivot, got)
	}
}

func TestMissingInsetSkipped(t *testing.T) {
	in := &geo.Collection{CRS: "ESRI:102003", Records: []geo.Record{
		{StateFIPS: "06", Geometry: box(0, 0, 10, 10)},
		{StateFIPS: "15", Geometry: box(100, 100, 10, 10)},
	}}

	out := Adjust(in, DefaultInsets())
	if out.Len() != 2 {
		t.Fatalf("Adjust() returned %d records, want 2", out.Len())
	}
	if _, ok := out.Find("02"); ok {
		t.Error("Adjust() invented an Alaska record")
	}
}

func TestIdentityRecipe(t *testing.T) {
	in := fixture()
	out := Adjust(in, []Inset{{Name: "noop", FIPS: "02", Recipe: AffineRecipe{Scale: 1}}})

	a, _ := in.Find("02")
	b, _ := out.Find("02")
	for i, p := range a.Geometry[0][0] {
		if !closeTo(p, b.Geometry[0][0][i], 1e-6) {
			t.Fatalf("identity recipe moved point %d: %v -> %v", i, p, b.Geometry[0][0][i])
		}
	}
}
