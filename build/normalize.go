package build

import (
	"sort"

	"github.com/geointel/geointel/pip"
)

// Feature is a fully normalized record, post id-assignment and
// simplification, ready for bucketizing and writing.
type Feature struct {
	ID        int
	Name      string
	ISO2      string
	ISO3      string
	Continent string
	Timezone  string

	HasGeometry bool
	Geometry    pip.MultiPolygon

	HasCentroid bool
	Centroid    pip.Point

	HasBBox bool
	BBox    struct{ MinLat, MinLon, MaxLat, MaxLon float64 }
}

// AssignIDs returns a copy of features sorted by (name, iso3) (spec §4.6
// step 2); a feature's id is its index 0..N-1 in the returned slice. The
// input slice is not mutated.
func AssignIDs(features []RawFeature) []RawFeature {
	out := make([]RawFeature, len(features))
	copy(out, features)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ISO3 < out[j].ISO3
	})
	return out
}

// Normalize simplifies raw's rings at tolerance and computes its centroid
// and bounding box (spec §4.6 steps 3-4). id is the feature's position in
// the AssignIDs-sorted slice.
func Normalize(id int, raw RawFeature, tolerance float64) Feature {
	parts := SimplifyFeature(raw, tolerance)

	f := Feature{
		ID:        id,
		Name:      raw.Name,
		ISO2:      raw.ISO2,
		ISO3:      raw.ISO3,
		Continent: raw.Continent,
		Timezone:  raw.Timezone,
	}

	if len(parts) == 0 {
		return f
	}

	mp := pip.MultiPolygon{Parts: make([]pip.Polygon, len(parts))}
	for i, p := range parts {
		mp.Parts[i] = pip.Polygon{
			Exterior: pip.NewRing(p.Exterior),
			Holes:    ringsFromPoints(p.Holes),
		}
	}
	f.HasGeometry = true
	f.Geometry = mp

	largest := pip.LargestPart(mp)
	if largest >= 0 {
		f.HasCentroid = true
		f.Centroid = centroidOf(mp.Parts[largest].Exterior)
	}

	f.HasBBox = true
	f.BBox.MinLat, f.BBox.MinLon, f.BBox.MaxLat, f.BBox.MaxLon = multiBBox(mp)

	return f
}

func ringsFromPoints(pts [][]pip.Point) []pip.Ring {
	if len(pts) == 0 {
		return nil
	}
	out := make([]pip.Ring, len(pts))
	for i, p := range pts {
		out[i] = pip.NewRing(p)
	}
	return out
}

// centroidOf is the arithmetic mean of a ring's vertices (spec §3
// "centroid: arithmetic mean of exterior ring vertices of the largest
// part").
func centroidOf(r pip.Ring) pip.Point {
	n := r.Len()
	if n == 0 {
		return pip.Point{}
	}
	var sumLat, sumLon float64
	for i := 0; i < n; i++ {
		sumLat += r.Lats[i]
		sumLon += r.Lons[i]
	}
	return pip.Point{Lat: sumLat / float64(n), Lon: sumLon / float64(n)}
}

// multiBBox is the bounding box over every part's exterior ring.
func multiBBox(mp pip.MultiPolygon) (minLat, minLon, maxLat, maxLon float64) {
	first := true
	for _, part := range mp.Parts {
		pMinLat, pMinLon, pMaxLat, pMaxLon := part.Exterior.BBox()
		if first {
			minLat, minLon, maxLat, maxLon = pMinLat, pMinLon, pMaxLat, pMaxLon
			first = false
			continue
		}
		if pMinLat < minLat {
			minLat = pMinLat
		}
		if pMinLon < minLon {
			minLon = pMinLon
		}
		if pMaxLat > maxLat {
			maxLat = pMaxLat
		}
		if pMaxLon > maxLon {
			maxLon = pMaxLon
		}
	}
	return
}
