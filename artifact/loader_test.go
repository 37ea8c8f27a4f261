package artifact

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func writeTestArtifacts(t *testing.T, dir string, gzipped bool) {
	t.Helper()

	metadata := MetadataArtifact{
		"0": {Name: "Freedonia", ISO2: "FD", ISO3: "FRE", Continent: "Europe", Centroid: &[2]float64{10, 20}, BBox: &[4]float64{9, 19, 11, 21}},
		"1": {Name: "Sylvania", ISO2: "SY", ISO3: "SYL", Continent: "Europe"},
	}
	polygons := PolygonsArtifact{
		"0": {Exterior: Ring2D{{9, 19}, {9, 21}, {11, 21}, {11, 19}}},
	}
	index := GeohashIndexArtifact{
		"s0000": {0},
		"s0001": {0, 1}, // 1 has no geometry; loader should drop it from the bucket
	}

	reports, err := Write(dir, WriteInput{Metadata: metadata, Polygons: polygons, Index: index})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("Write: got %d reports, want 3", len(reports))
	}

	if !gzipped {
		// Re-expand to plain .json files and drop the .gz copies so the
		// loader is forced to exercise the uncompressed path.
		for _, name := range []string{"metadata", "polygons", "geohash_index"} {
			gz := filepath.Join(dir, name+".json.gz")
			data, err := readGzipRaw(gz)
			if err != nil {
				t.Fatalf("expand %s: %v", name, err)
			}
			if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0o644); err != nil {
				t.Fatalf("write plain %s: %v", name, err)
			}
			if err := os.Remove(gz); err != nil {
				t.Fatalf("remove %s: %v", name, err)
			}
		}
	}
}

func readGzipRaw(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(zr)
}

func TestLoaderGzipPreferredOverPlain(t *testing.T) {
	dir := t.TempDir()
	writeTestArtifacts(t, dir, true)
	// A corrupt plain copy beside the .gz: loading only succeeds if the
	// loader reads the compressed form.
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("write plain metadata: %v", err)
	}

	l, err := NewLoader(dir, nil)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	if len(l.IterRecords()) != 2 {
		t.Fatalf("got %d records, want 2", len(l.IterRecords()))
	}
}

func TestLoaderPlainJSON(t *testing.T) {
	dir := t.TempDir()
	writeTestArtifacts(t, dir, false)

	l, err := NewLoader(dir, nil)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	rec, ok := l.GetMetadata(0)
	if !ok {
		t.Fatal("expected record 0 to be found")
	}
	if rec.Name != "Freedonia" || !rec.HasGeometry {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestLoaderDropsRecordlessBucketEntries(t *testing.T) {
	dir := t.TempDir()
	writeTestArtifacts(t, dir, true)

	l, err := NewLoader(dir, nil)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	// record 1 has metadata but no geometry, so it is never added to
	// polygons.json and should never appear in a bucket.
	bucket := l.Bucket("s0001")
	for _, id := range bucket {
		if id == 1 {
			t.Errorf("bucket s0001 unexpectedly contains geometry-less record 1: %v", bucket)
		}
	}
}

func TestLoaderMissingArtifact(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewLoader(dir, nil); err == nil {
		t.Fatal("expected error for empty directory")
	}
}

func TestFilterOnly(t *testing.T) {
	dir := t.TempDir()
	writeTestArtifacts(t, dir, true)

	l, err := NewLoader(dir, &Filter{Only: []string{"fd"}})
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	if len(l.IterRecords()) != 1 {
		t.Fatalf("got %d records, want 1", len(l.IterRecords()))
	}
	if l.IterRecords()[0].ISO2 != "FD" {
		t.Errorf("unexpected surviving record: %+v", l.IterRecords()[0])
	}
}

func TestFilterExclude(t *testing.T) {
	dir := t.TempDir()
	writeTestArtifacts(t, dir, true)

	l, err := NewLoader(dir, &Filter{Exclude: []string{"FD"}})
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	if len(l.IterRecords()) != 1 {
		t.Fatalf("got %d records, want 1", len(l.IterRecords()))
	}
	if l.IterRecords()[0].ISO2 != "SY" {
		t.Errorf("unexpected surviving record: %+v", l.IterRecords()[0])
	}
}

func TestFilterContinents(t *testing.T) {
	dir := t.TempDir()
	writeTestArtifacts(t, dir, true)

	l, err := NewLoader(dir, &Filter{Continents: []string{"Asia"}})
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	if len(l.IterRecords()) != 0 {
		t.Fatalf("got %d records, want 0", len(l.IterRecords()))
	}
}
