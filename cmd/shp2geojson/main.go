package main

import (
	"fmt"
	"os"

	"github.com/woozymasta/usmap/internal/boundary"
	"github.com/woozymasta/usmap/internal/config"
	"github.com/woozymasta/usmap/internal/crs"
	"github.com/woozymasta/usmap/internal/export"
	"github.com/woozymasta/usmap/internal/geo"
	"github.com/woozymasta/usmap/internal/logger"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input     string   `short:"i" long:"in" description:"Boundary dataset (.shp or .geojson)" required:"true"`
	Output    string   `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
	Format    string   `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	CRS       string   `long:"crs" description:"Target CRS, keeps source lon/lat if empty"`
	Exclude   []string `short:"x" long:"exclude" description:"STATEFP codes to drop (default: 69 60 66 78)"`
	Adjust    bool     `short:"a" long:"adjust" description:"Reposition Alaska, Hawaii and Puerto Rico (requires --crs)"`
	Minify    bool     `short:"m" long:"minify" description:"Minify JSON output"`
	Precision int      `short:"p" long:"precision" description:"Significant digits kept when minifying"`
}

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

	if opts.Adjust && opts.CRS == "" {
		fmt.Fprintln(os.Stderr, "Error: --adjust needs a planar --crs (e.g. ESRI:102003)")
		os.Exit(1)
	}

	cfg := config.Default()
	cfg.Dataset = opts.Input
	if len(opts.Exclude) > 0 {
		cfg.Exclude = opts.Exclude
	}
	if opts.CRS != "" {
		cfg.CRS = opts.CRS
	}

	loader := boundary.NewLoader(cfg)

	var (
		coll *geo.Collection
		err  error
	)
	switch {
	case opts.Adjust:
		coll, err = loader.Load()
	case opts.CRS != "":
		coll, err = loader.LoadProjected()
	default:
		coll, err = loader.LoadFiltered()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		os.Exit(1)
	}

	outputData, err := export.Encode(coll.FeatureCollection(), export.Options{
		Format:    opts.Format,
		Minify:    opts.Minify,
		Precision: opts.Precision,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %d boundaries to %s (format: %s, crs: %s)\n",
			coll.Len(), opts.Output, opts.Format, crs.Normalize(coll.CRS))
	} else {
		fmt.Println(string(outputData))
	}
}
