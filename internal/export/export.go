// Package export encodes map layers as GeoJSON or YAML and writes them to disk.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	minjson "github.com/tdewolff/minify/v2/json"
	"gopkg.in/yaml.v3"
)

const mimeJSON = "application/json"

// Options control encoding.
type Options struct {
	Format    string // json (default) or yaml
	Minify    bool
	Precision int // significant digits kept by the minifier, 0 keeps all
}

// Encode renders the feature collection in the requested format.
func Encode(fc *geojson.FeatureCollection, opts Options) ([]byte, error) {
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}

	switch opts.Format {
	case "", "json":
		if opts.Minify {
			return Minify(data, opts.Precision)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil

	case "yaml":
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return yaml.Marshal(doc)

	default:
		return nil, fmt.Errorf("unknown format %q", opts.Format)
	}
}

// Minify strips whitespace from JSON and, with precision > 0, shortens
// numbers to that many significant digits.
func Minify(data []byte, precision int) ([]byte, error) {
	m := minify.New()
	m.Add(mimeJSON, &minjson.Minifier{Precision: precision})

	out, err := m.Bytes(mimeJSON, data)
	if err != nil {
		return nil, fmt.Errorf("minify json: %w", err)
	}
	return out, nil
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	if format == "yaml" {
		return ".yaml"
	}
	return ".geojson"
}

// Save encodes fc and writes it to dir/name plus the format extension.
// It returns the written path.
func Save(dir, name string, fc *geojson.FeatureCollection, opts Options) (string, error) {
	data, err := Encode(fc, opts)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, name+Extension(opts.Format))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	if _, err := f.Write(data); err != nil {
		return "", err
	}

	log.Debug().
		Str("path", path).
		Int("features", len(fc.Features)).
		Int("bytes", len(data)).
		Msg("Layer written")

	return path, nil
}
