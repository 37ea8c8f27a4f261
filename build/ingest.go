// Package build implements the offline build pipeline (spec §4.6): ingest
// GeoJSON, assign ids, simplify rings, compute centroid/bbox, bucketize
// into the geohash index, and emit the three artifacts.
package build

import (
	"encoding/json"
	"strconv"
	"strings"

	geomgeojson "github.com/twpayne/go-geom/encoding/geojson"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/twpayne/go-geom"

	"github.com/geointel/geointel/pip"
)

// RawPart is one polygon part straight out of GeoJSON, before
// simplification: an exterior ring plus its holes, each as a plain point
// slice in the engine's (lat, lon) convention. Ring closure is normalized
// away here — the source's repeated last-equals-first vertex is dropped.
type RawPart struct {
	Exterior []pip.Point
	Holes    [][]pip.Point
}

// RawFeature is one ingested GeoJSON feature before id assignment.
type RawFeature struct {
	Name      string
	ISO2      string
	ISO3      string
	Continent string
	Timezone  string
	Parts     []RawPart
}

// Ingest parses a GeoJSON FeatureCollection (spec §4.6 step 1). Features
// whose geometry is not Polygon or MultiPolygon are skipped with a warning,
// not an error.
func Ingest(data []byte) ([]RawFeature, error) {
	var fc geomgeojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrap(err, "parse geojson feature collection")
	}

	features := make([]RawFeature, 0, len(fc.Features))
	for i, feat := range fc.Features {
		parts, err := partsFromGeometry(feat.Geometry)
		if err != nil {
			log.Warn().
				Int("feature_index", i).
				Err(err).
				Msg("geointel: skipping feature with unsupported geometry")
			continue
		}

		features = append(features, RawFeature{
			Name:      propString(feat.Properties, "NAME", "NAME_LONG"),
			ISO2:      normalizeISO(propString(feat.Properties, "ISO_A2")),
			ISO3:      normalizeISO(propString(feat.Properties, "ISO_A3")),
			Continent: propString(feat.Properties, "CONTINENT"),
			Timezone:  propString(feat.Properties, "TIMEZONE", "TZ", "timezone"),
			Parts:     parts,
		})
	}

	return features, nil
}

func partsFromGeometry(g geom.T) ([]RawPart, error) {
	switch t := g.(type) {
	case *geom.Polygon:
		part, err := partFromPolygon(t)
		if err != nil {
			return nil, err
		}
		return []RawPart{part}, nil
	case *geom.MultiPolygon:
		parts := make([]RawPart, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			part, err := partFromPolygon(t.Polygon(i))
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		return parts, nil
	default:
		return nil, errors.Errorf("geometry type %T is not Polygon or MultiPolygon", g)
	}
}

func partFromPolygon(p *geom.Polygon) (RawPart, error) {
	if p.NumLinearRings() == 0 {
		return RawPart{}, errors.New("polygon has no rings")
	}

	exterior := ringFromGeom(p.LinearRing(0))

	holes := make([][]pip.Point, 0, p.NumLinearRings()-1)
	for i := 1; i < p.NumLinearRings(); i++ {
		holes = append(holes, ringFromGeom(p.LinearRing(i)))
	}

	return RawPart{Exterior: exterior, Holes: holes}, nil
}

// ringFromGeom converts a go-geom LinearRing into our (lat, lon) point
// slice, swapping GeoJSON's [lon, lat] coordinate order (spec §4.6 step 1
// "the builder swaps to (lat, lon) internally") and dropping a repeated
// closing vertex so the ring matches spec §3's implicit-closure invariant.
func ringFromGeom(r *geom.LinearRing) []pip.Point {
	n := r.NumCoords()
	if n == 0 {
		return nil
	}

	last := n
	first := r.Coord(0)
	closing := r.Coord(n - 1)
	if n > 1 && first.X() == closing.X() && first.Y() == closing.Y() {
		last = n - 1
	}

	points := make([]pip.Point, 0, last)
	for i := 0; i < last; i++ {
		c := r.Coord(i)
		points = append(points, pip.Point{Lat: c.Y(), Lon: c.X()})
	}
	return points
}

// propString returns the first non-empty string value found under keys.
// Numeric property values are stringified, matching how Natural Earth
// occasionally encodes codes as numbers.
func propString(props map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		v, ok := props[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
	}
	return ""
}

// normalizeISO upper-cases an ISO code and maps Natural Earth's "missing"
// sentinel ("-99") to the empty string (spec §3: "either may be absent ...
// source datasets commonly use -99").
func normalizeISO(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "-99" {
		return ""
	}
	return strings.ToUpper(s)
}
