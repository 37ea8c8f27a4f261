// Package artifact owns the on-disk artifact format (spec §4.3) and the
// in-memory Loader built from it: the three JSON(+gzip) maps — metadata,
// polygons, geohash index — and the read-only Record/BBox view the rest of
// the engine queries.
package artifact

import "github.com/geointel/geointel/pip"

// BBox is the (min_lat, min_lon, max_lat, max_lon) bounding box over all
// parts of a record's geometry (spec §3).
type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// Area is the planar bounding-box area used only to rank disambiguation
// candidates (spec §4.4 step 5 "smallest bounding-box area").
func (b BBox) Area() float64 {
	return (b.MaxLat - b.MinLat) * (b.MaxLon - b.MinLon)
}

// Record is the authoritative, immutable per-territory entry (spec §3
// CountryRecord). ISO2/ISO3/Continent/Timezone use "" as the missing
// sentinel. A Record with !HasGeometry is kept for reverse lookup but
// excluded from the geohash index.
type Record struct {
	ID        int
	Name      string
	ISO2      string
	ISO3      string
	Continent string
	Timezone  string

	HasCentroid bool
	Centroid    pip.Point

	HasBBox bool
	BBox    BBox

	HasGeometry bool
	Geometry    pip.MultiPolygon
}
