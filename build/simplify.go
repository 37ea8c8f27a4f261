package build

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/geointel/geointel/pip"
)

// SimplifiedPart mirrors RawPart after Douglas-Peucker simplification.
// Exterior always has at least 3 vertices: a part whose exterior collapsed
// below that is not returned at all (spec §4.6 step 3).
type SimplifiedPart struct {
	Exterior []pip.Point
	Holes    [][]pip.Point
}

// SimplifyFeature applies Douglas-Peucker simplification (via
// paulmach/orb's simplify package) at tolerance degrees to every ring of
// every part of raw. Parts whose exterior collapses are dropped entirely;
// individual holes that collapse are dropped but the part survives (spec
// §4.6 step 3: "a record may retain some parts while losing others").
func SimplifyFeature(raw RawFeature, tolerance float64) []SimplifiedPart {
	simplifier := simplify.DouglasPeucker(tolerance)

	out := make([]SimplifiedPart, 0, len(raw.Parts))
	for _, part := range raw.Parts {
		ext := simplifyRing(simplifier, part.Exterior)
		if len(ext) < 3 {
			continue
		}

		var holes [][]pip.Point
		for _, h := range part.Holes {
			sh := simplifyRing(simplifier, h)
			if len(sh) >= 3 {
				holes = append(holes, sh)
			}
		}

		out = append(out, SimplifiedPart{Exterior: ext, Holes: holes})
	}

	return out
}

func simplifyRing(simplifier simplify.Simplifier, ring []pip.Point) []pip.Point {
	if len(ring) < 3 {
		return nil
	}

	ls := make(orb.LineString, len(ring))
	for i, p := range ring {
		ls[i] = orb.Point{p.Lon, p.Lat}
	}

	simplified, ok := simplifier.Simplify(ls).(orb.LineString)
	if !ok {
		return nil
	}

	out := make([]pip.Point, len(simplified))
	for i, pt := range simplified {
		out[i] = pip.Point{Lat: pt[1], Lon: pt[0]}
	}
	return out
}
