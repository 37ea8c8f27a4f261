package artifact

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// WriteInput is everything the Artifact Writer needs to emit one dataset
// release (spec §4.6 step 6 "Emit").
type WriteInput struct {
	Metadata MetadataArtifact
	Polygons PolygonsArtifact
	Index    GeohashIndexArtifact
}

// WriteReport summarizes one artifact's before/after compression size and
// content checksum, used for the builder's determinism log line (spec
// §4.6 step 6 "Report size before/after compression").
type WriteReport struct {
	Name             string
	UncompressedSize int
	CompressedSize   int
	Checksum         uint64
}

// Write serializes input to dir as three gzip-compressed JSON artifacts
// (metadata.json.gz, polygons.json.gz, geohash_index.json.gz), per the
// normative on-disk layout in spec §6. Map keys and geohash id lists are
// sorted before marshaling so that byte-identical inputs produce
// byte-identical output (spec §4.6 "Deterministic").
func Write(dir string, input WriteInput) ([]WriteReport, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output dir %s", dir)
	}

	sortIndexIDs(input.Index)

	reports := make([]WriteReport, 0, 3)

	// encoding/json sorts map[string]T keys alphabetically when marshaling,
	// so metadata/polygons (keyed by numeric id string) and the geohash
	// index (keyed by hash string) are already written in stable order;
	// only the per-bucket id lists need an explicit sort (above).
	for _, item := range []struct {
		name string
		v    interface{}
	}{
		{"metadata", input.Metadata},
		{"polygons", input.Polygons},
		{"geohash_index", input.Index},
	} {
		report, err := writeOne(dir, item.name, item.v)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)

		log.Info().
			Str("artifact", report.Name).
			Int("uncompressed_bytes", report.UncompressedSize).
			Int("compressed_bytes", report.CompressedSize).
			Str("checksum", strconv.FormatUint(report.Checksum, 16)).
			Msg("geointel: wrote artifact")
	}

	if err := verifyRoundTrip(dir, input); err != nil {
		return reports, err
	}

	return reports, nil
}

func writeOne(dir, name string, v interface{}) (WriteReport, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return WriteReport{}, errors.Wrapf(err, "marshal %s", name)
	}

	var compressed bytes.Buffer
	zw, err := gzip.NewWriterLevel(&compressed, gzip.BestCompression)
	if err != nil {
		return WriteReport{}, errors.Wrapf(err, "gzip writer for %s", name)
	}
	if _, err := zw.Write(raw); err != nil {
		return WriteReport{}, errors.Wrapf(err, "gzip write %s", name)
	}
	if err := zw.Close(); err != nil {
		return WriteReport{}, errors.Wrapf(err, "gzip close %s", name)
	}

	path := filepath.Join(dir, name+".json.gz")
	if err := os.WriteFile(path, compressed.Bytes(), 0o644); err != nil {
		return WriteReport{}, errors.Wrapf(err, "write %s", path)
	}

	return WriteReport{
		Name:             name,
		UncompressedSize: len(raw),
		CompressedSize:   compressed.Len(),
		Checksum:         xxhash.Sum64(raw),
	}, nil
}

// verifyRoundTrip re-loads what was just written and checks for the "all
// records un-indexed" failure mode original_source/scripts/diagnose_zero_accuracy.py
// diagnosed after the fact: a build with zero usable geohash buckets is a
// build that will silently return confidence 0.0 for every forward query.
func verifyRoundTrip(dir string, input WriteInput) error {
	l, err := NewLoader(dir, nil)
	if err != nil {
		return errors.Wrap(err, "round-trip verification")
	}

	if len(input.Metadata) > 0 && len(l.buckets) == 0 {
		log.Warn().
			Int("records", len(input.Metadata)).
			Msg("geointel: geohash index is empty after build; every forward query will return confidence 0.0")
	}

	return nil
}

func sortIndexIDs(idx GeohashIndexArtifact) {
	for hash, ids := range idx {
		sort.Ints(ids)
		idx[hash] = ids
	}
}
