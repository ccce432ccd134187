package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/usmap/internal/boundary"
	"github.com/woozymasta/usmap/internal/config"
	"github.com/woozymasta/usmap/internal/errs"
	"github.com/woozymasta/usmap/internal/export"
	"github.com/woozymasta/usmap/internal/logger"
	"github.com/woozymasta/usmap/internal/marker"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string   `short:"c" long:"config"    env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Dataset    string   `short:"d" long:"dataset"   env:"DATASET"     description:"Boundary dataset (.shp or .geojson), overrides config"`
	CRS        string   `long:"crs"                 env:"WORKING_CRS" description:"Working CRS, overrides config"`
	Markers    []string `short:"m" long:"markers"   env:"MARKERS"     description:"Marker request file, '-' for stdin (repeatable)"`
	OutDir     string   `short:"o" long:"out"       env:"OUT_DIR"     description:"Output directory, overrides config"`
	Format     string   `short:"f" long:"format"    description:"Output format, overrides config" choice:"json" choice:"yaml"`
	Minify     bool     `long:"minify"              description:"Minify JSON output"`
	Precision  int      `long:"precision"           description:"Significant digits kept when minifying"`
	SkipLayer  bool     `long:"skip-boundaries"     description:"Do not write the boundary layer"`
}

// exit statuses
const (
	exitFailure     = 1
	exitInvalidData = 2
)

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile, true)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	applyOverrides(cfg, &opts)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	out := export.Options{
		Format:    cfg.Output.Format,
		Minify:    cfg.Output.Minify,
		Precision: cfg.Output.Precision,
	}

	log.Info().
		Str("dataset", cfg.Dataset).
		Str("crs", cfg.CRS).
		Int("marker_sets", len(opts.Markers)).
		Msg("Starting map geometry build")

	layers := boundary.NewCache(boundary.NewLoader(cfg))

	layer, err := layers.Get()
	if err != nil {
		os.Exit(exitCode(err))
	}

	if !opts.SkipLayer {
		path, err := export.Save(cfg.Output.Dir, "boundaries", layer.FeatureCollection(), out)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to write boundary layer")
		}
		log.Info().Str("path", path).Int("states", layer.Len()).Msg("Boundary layer saved")
	}

	status := 0
	for _, source := range opts.Markers {
		if err := processMarkers(layers, source, cfg.Output.Dir, out); err != nil {
			log.Error().
				Err(err).
				Str("source", source).
				Str("code", string(errs.GetCode(err))).
				Msg("Failed to process markers")

			if code := exitCode(err); code > status {
				status = code
			}
		}
	}

	if status != 0 {
		os.Exit(status)
	}
	log.Info().Msg("Finished successfully")
}

func applyOverrides(cfg *config.Config, opts *Options) {
	if opts.Dataset != "" {
		cfg.Dataset = opts.Dataset
	}
	if opts.CRS != "" {
		cfg.CRS = opts.CRS
	}
	if opts.OutDir != "" {
		cfg.Output.Dir = opts.OutDir
	}
	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}
	if opts.Minify {
		cfg.Output.Minify = true
	}
	if opts.Precision > 0 {
		cfg.Output.Precision = opts.Precision
	}
}

// processMarkers projects one marker request into the layer CRS and writes
// <name>.markers next to the boundary layer.
func processMarkers(layers *boundary.Cache, source, dir string, out export.Options) error {
	raw, err := readSource(source)
	if err != nil {
		return err
	}

	req, inputs, err := marker.ParseRequest(raw)
	if err != nil {
		return err
	}

	target, err := layers.CRS()
	if err != nil {
		return err
	}

	projected, err := marker.ProjectInputs(inputs, target)
	if err != nil {
		return err
	}

	fc := marker.FeatureCollection(projected, target)
	if len(req.IconData) > 0 {
		fc.ExtraMembers["icon_data"] = req.IconData
	}

	path, err := export.Save(dir, markerName(source), fc, out)
	if err != nil {
		return err
	}

	log.Info().
		Str("source", source).
		Str("path", path).
		Int("markers", len(projected)).
		Msg("Markers projected")

	return nil
}

func readSource(source string) ([]byte, error) {
	if source == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(source)
}

func markerName(source string) string {
	if source == "-" {
		return "stdin.markers"
	}
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".markers"
}

func exitCode(err error) int {
	if errs.Is(err, errs.CodeInvalidMarkerData) {
		return exitInvalidData
	}
	return exitFailure
}
