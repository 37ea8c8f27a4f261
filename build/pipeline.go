package build

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/geointel/geointel/artifact"
)

// Defaults for the build tool CLI (spec §6).
const (
	DefaultTolerance = 0.005
	DefaultPrecision = 6
)

// Options configures one build run.
type Options struct {
	Tolerance float64
	Precision int
}

// Run executes the full build pipeline (spec §4.6) against the GeoJSON
// file at inputPath and writes the three artifacts to outputDir.
func Run(inputPath, outputDir string, opts Options) ([]artifact.WriteReport, error) {
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.Precision <= 0 {
		opts.Precision = DefaultPrecision
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read input %s", inputPath)
	}

	raw, err := Ingest(data)
	if err != nil {
		return nil, errors.Wrap(err, "ingest")
	}
	log.Info().Int("features", len(raw)).Msg("geointel: ingested features")

	sorted := AssignIDs(raw)

	metadata := make(artifact.MetadataArtifact, len(sorted))
	polygons := make(artifact.PolygonsArtifact, len(sorted))
	index := make(artifact.GeohashIndexArtifact)

	skippedGeometry := 0
	for id, rawFeature := range sorted {
		feature := Normalize(id, rawFeature, opts.Tolerance)

		entry := artifact.MetadataEntry{
			Name:      feature.Name,
			ISO2:      feature.ISO2,
			ISO3:      feature.ISO3,
			Continent: feature.Continent,
			Timezone:  feature.Timezone,
		}
		if feature.HasCentroid {
			entry.Centroid = &[2]float64{feature.Centroid.Lat, feature.Centroid.Lon}
		}
		if feature.HasBBox {
			entry.BBox = &[4]float64{feature.BBox.MinLat, feature.BBox.MinLon, feature.BBox.MaxLat, feature.BBox.MaxLon}
		}

		key := strconv.Itoa(id)
		metadata[key] = entry

		if !feature.HasGeometry {
			skippedGeometry++
			log.Warn().
				Str("name", feature.Name).
				Msg("geointel: record has no valid geometry after simplification; kept in metadata, excluded from geohash index")
			continue
		}

		polygons[key] = polygonEntryFromFeature(feature)

		for _, hash := range Bucketize(feature.Geometry, opts.Precision) {
			index[hash] = append(index[hash], id)
		}
	}

	log.Info().
		Int("records", len(sorted)).
		Int("records_without_geometry", skippedGeometry).
		Int("buckets", len(index)).
		Msg("geointel: normalized and bucketized")

	reports, err := artifact.Write(outputDir, artifact.WriteInput{
		Metadata: metadata,
		Polygons: polygons,
		Index:    index,
	})
	if err != nil {
		return reports, errors.Wrap(err, "write artifacts")
	}

	return reports, nil
}

func polygonEntryFromFeature(f Feature) artifact.PolygonEntry {
	return artifact.NewPolygonEntry(f.Geometry)
}
