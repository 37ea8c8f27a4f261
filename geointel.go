/*
Package geointel is an offline, in-memory geocoding engine: forward
resolution (coordinate -> country) and reverse resolution (country
identifier -> representative coordinate) against a fixed corpus of
country/territory polygons, with no network access and no spatial
database.

Construct a Loader from a directory of artifacts (metadata.json[.gz],
polygons.json[.gz], geohash_index.json[.gz]) produced by
cmd/geointel-build, then call Resolve/ResolveByCountry on it:

	loader, err := geointel.NewLoader("./data", nil)
	if err != nil {
		log.Fatal(err)
	}
	res, err := loader.Resolve(40.7128, -74.0060)

Or use the package-level convenience functions, which lazily construct and
cache a single process-wide default loader (spec §9 "Global default
loader"), reading its artifact directory from GEO_INTEL_DATA_DIR (default
"data"):

	res, err := geointel.Resolve(40.7128, -74.0060)
*/
package geointel

import (
	"os"
	"sync"

	"github.com/geointel/geointel/artifact"
	"github.com/geointel/geointel/errs"
	"github.com/geointel/geointel/resolver"
)

// Re-exported error sentinels (spec §6, §7). Match with errors.Is.
var (
	ErrInvalidCoordinate = errs.ErrInvalidCoordinate
	ErrEmptyQuery        = errs.ErrEmptyQuery
	ErrArtifactMissing   = errs.ErrArtifactMissing
	ErrArtifactCorrupt   = errs.ErrArtifactCorrupt
)

// Filter restricts which countries a Loader materializes (spec §4.3
// "Modular loading").
type Filter = artifact.Filter

// CountryRecord is the authoritative per-territory entry (spec §3).
type CountryRecord = artifact.Record

// ForwardResult is returned by Resolve (spec §3).
type ForwardResult = resolver.ForwardResult

// ReverseResult is returned by ResolveByCountry (spec §3).
type ReverseResult = resolver.ReverseResult

// Loader owns one dataset's in-memory artifacts and the resolvers built
// over them. A Loader is immutable after construction and safe for
// concurrent use (spec §5).
type Loader struct {
	artifacts *artifact.Loader
	forward   *resolver.Forward
	reverse   *resolver.Reverse
}

// NewLoader reads the artifact set in dir, applies filter (nil means "load
// everything"), and returns a ready-to-query Loader.
func NewLoader(dir string, filter *Filter) (*Loader, error) {
	al, err := artifact.NewLoader(dir, filter)
	if err != nil {
		return nil, err
	}

	return &Loader{
		artifacts: al,
		forward:   resolver.NewForward(al),
		reverse:   resolver.NewReverse(al),
	}, nil
}

// Resolve answers the forward query: which country contains (lat, lon)
// (spec §4.4).
func (l *Loader) Resolve(lat, lon float64) (ForwardResult, error) {
	return l.forward.Resolve(lat, lon)
}

// ResolveByCountry answers the reverse query: the representative
// coordinate for a country identified by name, ISO2, or ISO3 (spec §4.5).
func (l *Loader) ResolveByCountry(query string) (ReverseResult, error) {
	return l.reverse.Resolve(query)
}

// GetPolygon returns the geometry-bearing record for id.
func (l *Loader) GetPolygon(id int) (*CountryRecord, bool) {
	return l.artifacts.GetPolygon(id)
}

// GetMetadata returns the metadata record for id.
func (l *Loader) GetMetadata(id int) (*CountryRecord, bool) {
	return l.artifacts.GetMetadata(id)
}

// IterRecords returns every loaded record in ascending id order.
func (l *Loader) IterRecords() []*CountryRecord {
	return l.artifacts.IterRecords()
}

// dataDirEnv is the environment variable a port MAY honor to relocate the
// default artifact directory (spec §6 "Environment").
const dataDirEnv = "GEO_INTEL_DATA_DIR"

var (
	defaultOnce   sync.Once
	defaultLoader *Loader
	defaultErr    error
)

// Default lazily constructs and caches the process-wide default Loader,
// reading its directory from GEO_INTEL_DATA_DIR (falling back to "data").
// Initialization is single-shot: construction failure poisons the cache
// rather than leaving it partially initialized, and every subsequent call
// returns the same error (spec §5, §9).
func Default() (*Loader, error) {
	defaultOnce.Do(func() {
		dir := os.Getenv(dataDirEnv)
		if dir == "" {
			dir = "data"
		}
		defaultLoader, defaultErr = NewLoader(dir, nil)
	})
	return defaultLoader, defaultErr
}

// Resolve is the package-level convenience form of Loader.Resolve against
// the default loader (spec §6).
func Resolve(lat, lon float64) (ForwardResult, error) {
	l, err := Default()
	if err != nil {
		return ForwardResult{}, err
	}
	return l.Resolve(lat, lon)
}

// ResolveByCountry is the package-level convenience form of
// Loader.ResolveByCountry against the default loader (spec §6).
func ResolveByCountry(query string) (ReverseResult, error) {
	l, err := Default()
	if err != nil {
		return ReverseResult{}, err
	}
	return l.ResolveByCountry(query)
}
