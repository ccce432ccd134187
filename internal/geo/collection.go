// Package geo holds the boundary layer model and the planar operations the
// layout step needs: translation, scaling and rotation about a pivot, and
// centroids of dissolved groups.
package geo

import (
	"github.com/paulmach/orb"
)

// Record is one state or territory boundary.
type Record struct {
	StateFIPS  string
	Name       string
	Attributes map[string]string
	Geometry   orb.MultiPolygon
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := Record{
		StateFIPS: r.StateFIPS,
		Name:      r.Name,
		Geometry:  r.Geometry.Clone(),
	}
	if r.Attributes != nil {
		out.Attributes = make(map[string]string, len(r.Attributes))
		for k, v := range r.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

// Collection is an ordered set of records sharing one CRS.
// A Collection handed out by a shared cache must be treated as read-only.
type Collection struct {
	CRS     string
	Records []Record
}

// Clone returns a deep copy, safe to modify.
func (c *Collection) Clone() *Collection {
	out := &Collection{CRS: c.CRS, Records: make([]Record, len(c.Records))}
	for i, r := range c.Records {
		out.Records[i] = r.Clone()
	}
	return out
}

// Len returns the number of records.
func (c *Collection) Len() int { return len(c.Records) }

// Find returns the record with the given FIPS code.
func (c *Collection) Find(fips string) (Record, bool) {
	for _, r := range c.Records {
		if r.StateFIPS == fips {
			return r, true
		}
	}
	return Record{}, false
}

// FIPS returns the FIPS codes in record order.
func (c *Collection) FIPS() []string {
	codes := make([]string, len(c.Records))
	for i, r := range c.Records {
		codes[i] = r.StateFIPS
	}
	return codes
}

// Bound returns the bounding box of every record.
func (c *Collection) Bound() orb.Bound {
	return Bound(c.Records)
}

// Partition splits records by membership in set, keeping order on both sides.
func (c *Collection) Partition(set map[string]bool) (in, out []Record) {
	for _, r := range c.Records {
		if set[r.StateFIPS] {
			in = append(in, r)
		} else {
			out = append(out, r)
		}
	}
	return in, out
}

// Bound returns the bounding box of the given records.
func Bound(records []Record) orb.Bound {
	var b orb.Bound
	first := true
	for _, r := range records {
		if len(r.Geometry) == 0 {
			continue
		}
		rb := r.Geometry.Bound()
		if first {
			b = rb
			first = false
			continue
		}
		b = b.Union(rb)
	}
	return b
}

// Merge appends the polygons of records with a repeated FIPS code to the
// first record carrying that code. Order of first appearance is kept.
func Merge(records []Record) []Record {
	index := make(map[string]int, len(records))
	out := make([]Record, 0, len(records))

	for _, r := range records {
		if i, ok := index[r.StateFIPS]; ok {
			out[i].Geometry = append(out[i].Geometry, r.Geometry...)
			continue
		}
		index[r.StateFIPS] = len(out)
		out = append(out, r)
	}

	return out
}
