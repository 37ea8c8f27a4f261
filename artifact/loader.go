package artifact

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/geointel/geointel/errs"
)

// Filter restricts which countries a Loader materializes (spec §4.3
// "Modular loading"). A nil Filter, or a zero-value Filter, loads
// everything. Only/Continents/Exclude entries are matched case-insensitively
// against metadata; ISO2 matching uppercases both sides.
type Filter struct {
	Only       []string // ISO2 allow-list; empty means "no restriction"
	Continents []string // continent allow-list
	Exclude    []string // ISO2 deny-list, applied after Only/Continents
}

func (f *Filter) empty() bool {
	return f == nil || (len(f.Only) == 0 && len(f.Continents) == 0 && len(f.Exclude) == 0)
}

func (f *Filter) allows(m MetadataEntry) bool {
	if f.empty() {
		return true
	}

	if len(f.Only) > 0 && !containsFold(f.Only, m.ISO2) {
		return false
	}
	if len(f.Continents) > 0 && !containsFold(f.Continents, m.Continent) {
		return false
	}
	if len(f.Exclude) > 0 && containsFold(f.Exclude, m.ISO2) {
		return false
	}
	return true
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

// Loader holds the three in-memory maps built from a dataset's on-disk
// artifacts. It is read-only after construction and safe to share across
// concurrent readers (spec §5).
type Loader struct {
	records []*Record      // loaded records in ascending id order; filtered-out ids are absent
	byID    map[int]*Record // same records, keyed for sparse lookup after filtering
	buckets map[string][]int
}

// NewLoader reads the metadata, polygons, and geohash_index artifacts from
// dir (preferring the .gz form of each when both exist), applies filter,
// and returns a ready-to-query Loader.
func NewLoader(dir string, filter *Filter) (*Loader, error) {
	metadata, err := readMetadata(dir)
	if err != nil {
		return nil, err
	}

	polygons, err := readPolygons(dir)
	if err != nil {
		return nil, err
	}

	index, err := readGeohashIndex(dir)
	if err != nil {
		return nil, err
	}

	l := &Loader{byID: make(map[int]*Record, len(metadata))}

	ids := make([]int, 0, len(metadata))
	for idStr := range metadata {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return nil, errs.CorruptArtifact("metadata", errors.Errorf("non-integer id key %q", idStr))
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		m := metadata[strconv.Itoa(id)]
		if !filter.allows(m) {
			continue
		}

		rec := &Record{ID: id, Name: m.Name, ISO2: m.ISO2, ISO3: m.ISO3, Continent: m.Continent, Timezone: m.Timezone}
		if m.Centroid != nil {
			rec.HasCentroid = true
			rec.Centroid.Lat, rec.Centroid.Lon = m.Centroid[0], m.Centroid[1]
		}
		if m.BBox != nil {
			rec.HasBBox = true
			rec.BBox = BBox{MinLat: m.BBox[0], MinLon: m.BBox[1], MaxLat: m.BBox[2], MaxLon: m.BBox[3]}
		}

		if entry, ok := polygons[strconv.Itoa(id)]; ok {
			rec.HasGeometry = true
			rec.Geometry = geometryFromEntry(entry)
		}

		l.byID[id] = rec
		l.records = append(l.records, rec)
	}

	l.buckets = make(map[string][]int, len(index))
	for hash, rawIDs := range index {
		kept := make([]int, 0, len(rawIDs))
		for _, id := range rawIDs {
			if rec, ok := l.byID[id]; ok && rec.HasGeometry {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			continue
		}
		sort.Ints(kept)
		l.buckets[hash] = kept
	}

	log.Debug().
		Int("records", len(l.records)).
		Int("buckets", len(l.buckets)).
		Str("dir", dir).
		Msg("geointel: loader constructed")

	return l, nil
}

// GetMetadata returns the record with the given id, and whether it exists.
func (l *Loader) GetMetadata(id int) (*Record, bool) {
	rec, ok := l.byID[id]
	return rec, ok
}

// GetPolygon returns the geometry-bearing record with the given id. It is an
// alias of GetMetadata: the Loader stores geometry and metadata in the same
// Record, unlike the three-artifact on-disk format.
func (l *Loader) GetPolygon(id int) (*Record, bool) {
	return l.GetMetadata(id)
}

// Bucket returns the sorted candidate id list for a geohash cell, or nil if
// the cell has no entries.
func (l *Loader) Bucket(hash string) []int {
	return l.buckets[hash]
}

// IterRecords returns every loaded record in ascending id order.
func (l *Loader) IterRecords() []*Record {
	return l.records
}

func artifactPath(dir, name string) (path string, gzipped bool, err error) {
	gz := filepath.Join(dir, name+".json.gz")
	plain := filepath.Join(dir, name+".json")

	if _, err := os.Stat(gz); err == nil {
		return gz, true, nil
	}
	if _, err := os.Stat(plain); err == nil {
		return plain, false, nil
	}
	return "", false, errs.MissingArtifact(name)
}

func readArtifact(dir, name string, out interface{}) error {
	path, gzipped, err := artifactPath(dir, name)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return errs.CorruptArtifact(name, errors.Wrapf(err, "open %s", path))
	}
	defer f.Close()

	var r io.Reader = f
	if gzipped {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return errs.CorruptArtifact(name, errors.Wrapf(err, "gzip header %s", path))
		}
		defer zr.Close()
		r = zr
	}

	if err := json.NewDecoder(r).Decode(out); err != nil {
		return errs.CorruptArtifact(name, errors.Wrapf(err, "decode %s", path))
	}

	return nil
}

func readMetadata(dir string) (MetadataArtifact, error) {
	var m MetadataArtifact
	if err := readArtifact(dir, "metadata", &m); err != nil {
		return nil, err
	}
	return m, nil
}

func readPolygons(dir string) (PolygonsArtifact, error) {
	var p PolygonsArtifact
	if err := readArtifact(dir, "polygons", &p); err != nil {
		return nil, err
	}
	return p, nil
}

func readGeohashIndex(dir string) (GeohashIndexArtifact, error) {
	var idx GeohashIndexArtifact
	if err := readArtifact(dir, "geohash_index", &idx); err != nil {
		return nil, err
	}
	return idx, nil
}
