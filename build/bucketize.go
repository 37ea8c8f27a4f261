package build

import (
	"sort"

	"github.com/geointel/geointel/geohash"
	"github.com/geointel/geointel/pip"
)

// Bucketize computes the set of geohash cells covering mp at precision
// (spec §4.6 step 5). It descends the geohash prefix tree from the empty
// prefix, pruning any branch whose cell bounding box does not intersect
// mp's bounding box — equivalent to, but far cheaper than, enumerating
// every precision-length cell in the bbox — then adds rule (a): a leaf
// cell whose center lies inside mp, and rule (b): whichever cell each
// vertex of mp falls into.
func Bucketize(mp pip.MultiPolygon, precision int) []string {
	if len(mp.Parts) == 0 {
		return nil
	}

	minLat, minLon, maxLat, maxLon := multiBBox(mp)

	cells := make(map[string]struct{})

	var descend func(prefix string)
	descend = func(prefix string) {
		if len(prefix) == precision {
			latC, lonC, _, _, _ := geohash.Decode(prefix)
			if pip.PointInMultiPolygon(pip.Point{Lat: latC, Lon: lonC}, mp) {
				cells[prefix] = struct{}{}
			}
			return
		}

		for i := 0; i < len(geohash.Alphabet); i++ {
			child := prefix + string(geohash.Alphabet[i])
			latC, lonC, latHalf, lonHalf, err := geohash.Decode(child)
			if err != nil {
				continue
			}
			cMinLat, cMaxLat := latC-latHalf, latC+latHalf
			cMinLon, cMaxLon := lonC-lonHalf, lonC+lonHalf
			if cMaxLat < minLat || cMinLat > maxLat || cMaxLon < minLon || cMinLon > maxLon {
				continue
			}
			descend(child)
		}
	}
	descend("")

	for _, part := range mp.Parts {
		addVertexCells(cells, part.Exterior, precision)
		for _, h := range part.Holes {
			addVertexCells(cells, h, precision)
		}
	}

	out := make([]string, 0, len(cells))
	for h := range cells {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

func addVertexCells(cells map[string]struct{}, r pip.Ring, precision int) {
	for i := 0; i < r.Len(); i++ {
		h, err := geohash.Encode(r.Lats[i], r.Lons[i], precision)
		if err != nil {
			continue
		}
		cells[h] = struct{}{}
	}
}
