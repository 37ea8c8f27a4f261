package artifact

import "github.com/geointel/geointel/pip"

func ringFromWire(w Ring2D) pip.Ring {
	pts := make([]pip.Point, len(w))
	for i, v := range w {
		pts[i] = pip.Point{Lat: v[0], Lon: v[1]}
	}
	return pip.NewRing(pts)
}

func ringsFromWire(w []Ring2D) []pip.Ring {
	if len(w) == 0 {
		return nil
	}
	out := make([]pip.Ring, len(w))
	for i, r := range w {
		out[i] = ringFromWire(r)
	}
	return out
}

// geometryFromEntry converts a PolygonEntry from its wire shape into the
// engine's uniform in-memory representation: every record's geometry,
// single or multi, is stored as a pip.MultiPolygon so the resolver never
// needs to branch on shape (spec §4.4 step 4 already treats "inside any
// part" uniformly).
func geometryFromEntry(e PolygonEntry) pip.MultiPolygon {
	if !e.Multi {
		return pip.MultiPolygon{Parts: []pip.Polygon{{
			Exterior: ringFromWire(e.Exterior),
			Holes:    ringsFromWire(e.Holes),
		}}}
	}

	parts := make([]pip.Polygon, len(e.Exteriors))
	for i, ext := range e.Exteriors {
		var holes []Ring2D
		if i < len(e.MultiHoles) {
			holes = e.MultiHoles[i]
		}
		parts[i] = pip.Polygon{
			Exterior: ringFromWire(ext),
			Holes:    ringsFromWire(holes),
		}
	}
	return pip.MultiPolygon{Parts: parts}
}

func ringToWire(r pip.Ring) Ring2D {
	out := make(Ring2D, r.Len())
	for i := 0; i < r.Len(); i++ {
		out[i] = [2]float64{r.Lats[i], r.Lons[i]}
	}
	return out
}

func ringsToWire(rs []pip.Ring) []Ring2D {
	if len(rs) == 0 {
		return nil
	}
	out := make([]Ring2D, len(rs))
	for i, r := range rs {
		out[i] = ringToWire(r)
	}
	return out
}

// NewPolygonEntry is the inverse of geometryFromEntry: it converts the
// engine's in-memory pip.MultiPolygon into the on-disk wire shape, used by
// the build package's Artifact Writer step. A MultiPolygon with exactly one
// part is written in the single-polygon wire shape to keep the on-disk
// format compact, matching what the Polygon Normalizer produces for the
// common case.
func NewPolygonEntry(mp pip.MultiPolygon) PolygonEntry {
	if len(mp.Parts) == 1 {
		return PolygonEntry{
			Exterior: ringToWire(mp.Parts[0].Exterior),
			Holes:    ringsToWire(mp.Parts[0].Holes),
		}
	}

	exteriors := make([]Ring2D, len(mp.Parts))
	holes := make([][]Ring2D, len(mp.Parts))
	for i, part := range mp.Parts {
		exteriors[i] = ringToWire(part.Exterior)
		holes[i] = ringsToWire(part.Holes)
	}
	return PolygonEntry{Multi: true, Exteriors: exteriors, MultiHoles: holes}
}
