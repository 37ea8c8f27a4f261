/*
Command geointel-build is the offline build tool (spec §6 "Build tool
CLI"): it turns a Natural-Earth-compatible GeoJSON FeatureCollection of
country polygons into the three artifacts the engine loads at query time.

Usage:

	geointel-build <input.geojson> <output_dir> [-tolerance=0.005] [-precision=6]

Exit codes: 0 success, 1 I/O or parse failure, 2 invalid argument.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/geointel/geointel/build"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("geointel-build", flag.ContinueOnError)
	tolerance := fs.Float64("tolerance", build.DefaultTolerance, "Douglas-Peucker simplification tolerance, in degrees")
	precision := fs.Int("precision", build.DefaultPrecision, "geohash bucket precision")
	verbose := fs.Bool("v", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	// Flags may also follow the two positional arguments, as in the usage line.
	positional := fs.Args()
	if len(positional) > 2 {
		if err := fs.Parse(positional[2:]); err != nil {
			return 2
		}
		positional = append(positional[:2:2], fs.Args()...)
	}

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(positional) != 2 {
		fmt.Fprintln(os.Stderr, "usage: geointel-build <input.geojson> <output_dir> [-tolerance=0.005] [-precision=6]")
		return 2
	}

	input, outputDir := positional[0], positional[1]

	start := time.Now()
	reports, err := build.Run(input, outputDir, build.Options{Tolerance: *tolerance, Precision: *precision})
	if err != nil {
		log.Error().Err(err).Msg("geointel-build: build failed")
		return 1 // I/O or parse failure, per spec §6 exit codes
	}

	var totalBefore, totalAfter int
	for _, r := range reports {
		totalBefore += r.UncompressedSize
		totalAfter += r.CompressedSize
	}
	log.Info().
		Dur("elapsed", time.Since(start)).
		Int("bytes_before", totalBefore).
		Int("bytes_after", totalAfter).
		Msg("geointel-build: done")

	return 0
}
