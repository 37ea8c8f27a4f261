package main

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"NAME": "Freedonia", "ISO_A2": "FD", "ISO_A3": "FRE"},
      "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [0, 10], [10, 10], [10, 0], [0, 0]]]}
    }
  ]
}`

func TestRunSucceedsAndWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.geojson")
	if err := os.WriteFile(input, []byte(sampleGeoJSON), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	outDir := filepath.Join(dir, "out")

	if code := run([]string{input, outDir}); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
	for _, name := range []string{"metadata.json.gz", "polygons.json.gz", "geohash_index.json.gz"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected artifact %s to exist: %v", name, err)
		}
	}
}

func TestRunWrongArgCount(t *testing.T) {
	if code := run([]string{"only-one-arg"}); code != 2 {
		t.Fatalf("run() = %d, want 2", code)
	}
}

func TestRunBadFlag(t *testing.T) {
	if code := run([]string{"-not-a-real-flag", "a", "b"}); code != 2 {
		t.Fatalf("run() = %d, want 2", code)
	}
}

func TestRunMissingInputFile(t *testing.T) {
	dir := t.TempDir()
	if code := run([]string{filepath.Join(dir, "missing.geojson"), filepath.Join(dir, "out")}); code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}
}
