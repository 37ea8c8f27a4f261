// Package pip implements the planar point-in-polygon test with
// multi-polygon and hole support (spec §4.2). Coordinates are treated as
// planar (lat, lon) pairs — no spherical correction, per spec's Non-goals.
// Rings use structure-of-arrays storage (spec §9 "Polygon representation")
// to keep the hot PIP loop cache-friendly.
package pip

import "math"

// onSegmentEpsilon bounds the collinearity test used to decide whether a
// query point sits exactly on a ring edge (spec: "a point exactly on an
// edge is considered inside").
const onSegmentEpsilon = 1e-9

// Point is a (lat, lon) coordinate.
type Point struct {
	Lat, Lon float64
}

// Ring is an ordered, implicitly-closed sequence of vertices stored as
// parallel slices. The first vertex is not repeated at the end.
type Ring struct {
	Lats []float64
	Lons []float64
}

// NewRing builds a Ring from a slice of points.
func NewRing(points []Point) Ring {
	r := Ring{
		Lats: make([]float64, len(points)),
		Lons: make([]float64, len(points)),
	}
	for i, p := range points {
		r.Lats[i] = p.Lat
		r.Lons[i] = p.Lon
	}
	return r
}

// Len returns the number of vertices in the ring.
func (r Ring) Len() int { return len(r.Lats) }

// Valid reports whether the ring has at least 3 distinct vertices (spec §3
// invariant: "every exterior ring has ≥ 3 distinct vertices").
func (r Ring) Valid() bool {
	distinct := 0
	for i := 0; i < r.Len() && distinct < 3; i++ {
		dup := false
		for j := 0; j < i; j++ {
			if r.Lats[j] == r.Lats[i] && r.Lons[j] == r.Lons[i] {
				dup = true
				break
			}
		}
		if !dup {
			distinct++
		}
	}
	return distinct >= 3
}

// At returns the vertex at index i as a Point.
func (r Ring) At(i int) Point { return Point{Lat: r.Lats[i], Lon: r.Lons[i]} }

// BBox returns the (minLat, minLon, maxLat, maxLon) bounding box of the
// ring. It panics if the ring is empty; callers only call it on validated
// rings.
func (r Ring) BBox() (minLat, minLon, maxLat, maxLon float64) {
	minLat, maxLat = r.Lats[0], r.Lats[0]
	minLon, maxLon = r.Lons[0], r.Lons[0]
	for i := 1; i < r.Len(); i++ {
		if r.Lats[i] < minLat {
			minLat = r.Lats[i]
		}
		if r.Lats[i] > maxLat {
			maxLat = r.Lats[i]
		}
		if r.Lons[i] < minLon {
			minLon = r.Lons[i]
		}
		if r.Lons[i] > maxLon {
			maxLon = r.Lons[i]
		}
	}
	return
}

// Area returns the (unsigned, planar) shoelace area of the ring, used only
// to pick the "largest part" of a multi-polygon — never for the PIP test
// itself.
func (r Ring) Area() float64 {
	n := r.Len()
	if n < 3 {
		return 0
	}
	var sum float64
	j := n - 1
	for i := 0; i < n; i++ {
		sum += (r.Lons[j] + r.Lons[i]) * (r.Lats[j] - r.Lats[i])
		j = i
	}
	return math.Abs(sum) / 2
}

// Polygon is a single exterior ring plus zero or more holes.
type Polygon struct {
	Exterior Ring
	Holes    []Ring
}

// MultiPolygon is an ordered sequence of disjoint polygon parts.
type MultiPolygon struct {
	Parts []Polygon
}

// PointInRing performs an even-odd ray cast of p against ring, treating the
// ring as closed regardless of whether the first vertex is repeated. Points
// exactly on an edge are considered inside.
func PointInRing(p Point, ring Ring) bool {
	n := ring.Len()
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := ring.Lons[i], ring.Lats[i]
		xj, yj := ring.Lons[j], ring.Lats[j]

		if onSegment(p.Lon, p.Lat, xi, yi, xj, yj) {
			return true
		}

		if (yi > p.Lat) != (yj > p.Lat) {
			xIntersect := xi + (p.Lat-yi)/(yj-yi)*(xj-xi)
			if p.Lon < xIntersect {
				inside = !inside
			}
		}

		j = i
	}

	return inside
}

// PointInPolygonWithHoles reports whether p is inside exterior and outside
// every hole.
func PointInPolygonWithHoles(p Point, exterior Ring, holes []Ring) bool {
	if !PointInRing(p, exterior) {
		return false
	}
	for _, h := range holes {
		if PointInRing(p, h) {
			return false
		}
	}
	return true
}

// PointInPolygon is PointInPolygonWithHoles over a Polygon value.
func PointInPolygon(p Point, poly Polygon) bool {
	return PointInPolygonWithHoles(p, poly.Exterior, poly.Holes)
}

// PointInMultiPolygon reports whether p is inside any part of mp.
func PointInMultiPolygon(p Point, mp MultiPolygon) bool {
	for _, part := range mp.Parts {
		if PointInPolygon(p, part) {
			return true
		}
	}
	return false
}

// onSegment reports whether (px, py) lies on the closed segment from
// (x1, y1) to (x2, y2), within onSegmentEpsilon.
func onSegment(px, py, x1, y1, x2, y2 float64) bool {
	cross := (px-x1)*(y2-y1) - (py-y1)*(x2-x1)
	if math.Abs(cross) > onSegmentEpsilon {
		return false
	}
	if px < math.Min(x1, x2)-onSegmentEpsilon || px > math.Max(x1, x2)+onSegmentEpsilon {
		return false
	}
	if py < math.Min(y1, y2)-onSegmentEpsilon || py > math.Max(y1, y2)+onSegmentEpsilon {
		return false
	}
	return true
}

// LargestPart returns the index of the part in mp.Parts with the greatest
// exterior ring area (spec §3: centroid is computed over "the largest
// part"). Returns -1 if mp has no parts.
func LargestPart(mp MultiPolygon) int {
	best := -1
	var bestArea float64
	for i, part := range mp.Parts {
		a := part.Exterior.Area()
		if best == -1 || a > bestArea {
			best = i
			bestArea = a
		}
	}
	return best
}
