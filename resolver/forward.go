package resolver

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/geointel/geointel/artifact"
	"github.com/geointel/geointel/errs"
	"github.com/geointel/geointel/geohash"
	"github.com/geointel/geointel/pip"
)

// bucketCacheSize bounds the forward resolver's optional geohash -> bucket
// cache. It is purely a performance shim in front of the authoritative
// loader map: a miss always falls back to the loader, so a small fixed
// size can never change a result, only its latency (spec §5 "never
// allocate unboundedly").
const bucketCacheSize = 512

// loaderView is the subset of *artifact.Loader the forward resolver needs.
// It exists so tests can substitute a fake without building real artifacts.
type loaderView interface {
	Bucket(hash string) []int
	GetMetadata(id int) (*artifact.Record, bool)
}

// Forward implements the forward resolver (spec §4.4).
type Forward struct {
	loader loaderView
	cache  *lru.Cache[string, []int]
}

// NewForward builds a Forward resolver over loader.
func NewForward(loader *artifact.Loader) *Forward {
	return newForward(loader)
}

func newForward(loader loaderView) *Forward {
	cache, _ := lru.New[string, []int](bucketCacheSize)
	return &Forward{loader: loader, cache: cache}
}

// Resolve answers the forward query (spec §4.4).
func (f *Forward) Resolve(lat, lon float64) (ForwardResult, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ForwardResult{}, errs.ErrInvalidCoordinate
	}

	h, err := geohash.Encode(lat, lon, geohash.DefaultPrecision)
	if err != nil {
		return ForwardResult{}, err
	}

	c0 := f.bucket(h)

	widened := false
	candidates := c0
	if len(c0) == 0 {
		candidates = f.widen(h)
		widened = true
	}
	if len(candidates) == 0 {
		return ForwardResult{Confidence: 0.0}, nil
	}

	p := pip.Point{Lat: lat, Lon: lon}
	matches := f.filterPIP(candidates, p)

	if len(matches) == 0 && !widened {
		candidates = f.widen(h)
		widened = true
		matches = f.filterPIP(candidates, p)
	}

	if len(matches) == 0 {
		rec := f.smallestBBoxAmong(candidates)
		if rec == nil {
			return ForwardResult{Confidence: 0.0}, nil
		}
		return f.toResult(rec, 0.15), nil
	}

	var chosen *artifact.Record
	var base float64
	switch {
	case len(matches) > 1:
		chosen = f.smallestBBoxAmong(matches)
		base = 0.70
	case widened:
		chosen, _ = f.loader.GetMetadata(matches[0])
		base = 0.50
	case len(c0) == 1:
		chosen, _ = f.loader.GetMetadata(matches[0])
		base = 1.0
	default:
		chosen, _ = f.loader.GetMetadata(matches[0])
		base = 0.85
	}

	if chosen == nil {
		return ForwardResult{Confidence: 0.0}, nil
	}

	conf := base - 0.05*float64(f.disagreeingNeighbors(h, chosen.ID))
	if conf < 0.10 {
		conf = 0.10
	}
	if conf > 1.0 {
		conf = 1.0
	}

	return f.toResult(chosen, conf), nil
}

func (f *Forward) bucket(hash string) []int {
	if cached, ok := f.cache.Get(hash); ok {
		return cached
	}
	b := f.loader.Bucket(hash)
	f.cache.Add(hash, b)
	return b
}

// widen returns the deduplicated union of the 8 neighbor buckets of hash
// (spec §4.4 step 3), in first-seen order across the neighbors.
func (f *Forward) widen(hash string) []int {
	neighbors, err := geohash.Neighbors(hash)
	if err != nil {
		return nil
	}

	seen := make(map[int]struct{})
	var out []int
	for _, n := range neighbors {
		for _, id := range f.bucket(n) {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out
}

func (f *Forward) filterPIP(candidates []int, p pip.Point) []int {
	var matches []int
	for _, id := range candidates {
		rec, ok := f.loader.GetMetadata(id)
		if !ok || !rec.HasGeometry {
			continue
		}
		if pip.PointInMultiPolygon(p, rec.Geometry) {
			matches = append(matches, id)
		}
	}
	return matches
}

// smallestBBoxAmong picks the candidate with the smallest bounding-box
// area, breaking ties by lowest id (spec §4.4 step 5). Candidates with no
// bbox are skipped.
func (f *Forward) smallestBBoxAmong(ids []int) *artifact.Record {
	var best *artifact.Record
	var bestArea float64
	for _, id := range ids {
		rec, ok := f.loader.GetMetadata(id)
		if !ok || !rec.HasBBox {
			continue
		}
		area := rec.BBox.Area()
		if best == nil || area < bestArea || (area == bestArea && rec.ID < best.ID) {
			best = rec
			bestArea = area
		}
	}
	return best
}

// disagreeingNeighbors counts the 8 neighbor buckets of hash whose majority
// country id differs from winner (spec §4.4 step 6). Empty neighbor
// buckets never disagree.
func (f *Forward) disagreeingNeighbors(hash string, winner int) int {
	neighbors, err := geohash.Neighbors(hash)
	if err != nil {
		return 0
	}

	count := 0
	for _, n := range neighbors {
		bucket := f.bucket(n)
		if len(bucket) == 0 {
			continue
		}
		if majority(bucket) != winner {
			count++
		}
	}
	return count
}

// majority returns the most frequent id in ids, breaking ties by lowest id.
func majority(ids []int) int {
	counts := make(map[int]int, len(ids))
	for _, id := range ids {
		counts[id]++
	}

	best, bestCount := ids[0], -1
	for _, id := range ids {
		c := counts[id]
		if c > bestCount || (c == bestCount && id < best) {
			best, bestCount = id, c
		}
	}
	return best
}

func (f *Forward) toResult(rec *artifact.Record, confidence float64) ForwardResult {
	return ForwardResult{
		Found:      true,
		Country:    rec.Name,
		ISO2:       rec.ISO2,
		ISO3:       rec.ISO3,
		Continent:  rec.Continent,
		Timezone:   rec.Timezone,
		Confidence: confidence,
	}
}
