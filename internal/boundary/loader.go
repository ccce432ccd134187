// Package boundary loads the state boundary dataset and turns it into the
// polygon layer of the map: territories outside the frame are dropped, the
// rest is reprojected into the working CRS and the insets are repositioned.
package boundary

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/usmap/internal/config"
	"github.com/woozymasta/usmap/internal/crs"
	"github.com/woozymasta/usmap/internal/errs"
	"github.com/woozymasta/usmap/internal/geo"
	"github.com/woozymasta/usmap/internal/layout"
)

// Loader builds the polygon layer from a dataset on disk.
type Loader struct {
	Path string
	// SourceCRS is the CRS of the file coordinates. Census boundary files
	// are NAD83 geographic.
	SourceCRS string
	CRS       string
	Exclude   map[string]bool
	Insets    []layout.Inset
}

// NewLoader creates a loader from configuration.
func NewLoader(cfg *config.Config) *Loader {
	return &Loader{
		Path:      cfg.Dataset,
		SourceCRS: crs.NAD83,
		CRS:       cfg.CRS,
		Exclude:   cfg.ExcludeSet(),
		Insets:    cfg.Insets,
	}
}

// Load reads, filters and reprojects the dataset, then applies the inset
// layout. Failures carry errs.CodeDataUnavailable or errs.CodeProjection.
func (l *Loader) Load() (*geo.Collection, error) {
	start := time.Now()

	c, err := l.LoadProjected()
	if err != nil {
		return nil, err
	}

	adjusted := layout.Adjust(c, l.Insets)

	log.Info().
		Str("path", l.Path).
		Str("crs", adjusted.CRS).
		Int("records", adjusted.Len()).
		Dur("duration", time.Since(start)).
		Msg("Boundary layer ready")

	return adjusted, nil
}

// LoadProjected runs every step except the inset layout.
func (l *Loader) LoadProjected() (*geo.Collection, error) {
	c, err := l.LoadFiltered()
	if err != nil {
		return nil, err
	}
	return Reproject(c, l.CRS)
}

// LoadFiltered reads the dataset and drops excluded and duplicate codes,
// leaving coordinates in the source CRS.
func (l *Loader) LoadFiltered() (*geo.Collection, error) {
	records, err := Read(l.Path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errs.New(errs.CodeDataUnavailable, "%s contains no boundaries", l.Path)
	}

	kept := Filter(records, l.Exclude)
	log.Debug().
		Str("path", l.Path).
		Int("read", len(records)).
		Int("excluded", len(records)-len(kept)).
		Msg("Boundary dataset filtered")

	return &geo.Collection{CRS: crs.Normalize(l.SourceCRS), Records: geo.Merge(kept)}, nil
}

// Filter drops records whose FIPS code is in exclude.
func Filter(records []geo.Record, exclude map[string]bool) []geo.Record {
	kept := make([]geo.Record, 0, len(records))
	for _, r := range records {
		if exclude[r.StateFIPS] {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// Reproject returns a copy of c in the target CRS.
func Reproject(c *geo.Collection, target string) (*geo.Collection, error) {
	tr, err := crs.NewTransformer(c.CRS, target)
	if err != nil {
		return nil, err
	}

	out := &geo.Collection{CRS: tr.Target(), Records: make([]geo.Record, len(c.Records))}
	for i, r := range c.Records {
		g, err := tr.Geometry(r.Geometry)
		if err != nil {
			return nil, errs.Wrap(errs.CodeProjection, err, "reproject %s", r.StateFIPS)
		}

		rec := r.Clone()
		rec.Geometry, _ = geo.AsMultiPolygon(g)
		out.Records[i] = rec
	}

	return out, nil
}
