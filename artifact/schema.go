package artifact

import "encoding/json"

// MetadataEntry is the on-disk shape of one entry in metadata.json (spec
// §4.3): {name, iso2, iso3, continent, timezone, centroid?, bbox?}.
type MetadataEntry struct {
	Name      string      `json:"name"`
	ISO2      string      `json:"iso2,omitempty"`
	ISO3      string      `json:"iso3,omitempty"`
	Continent string      `json:"continent,omitempty"`
	Timezone  string      `json:"timezone,omitempty"`
	Centroid  *[2]float64 `json:"centroid,omitempty"`
	BBox      *[4]float64 `json:"bbox,omitempty"`
}

// MetadataArtifact is the full contents of metadata.json: id (as a string
// key) -> MetadataEntry.
type MetadataArtifact map[string]MetadataEntry

// Ring2D is a ring's vertices as [lat, lon] pairs, the artifact's nested-list
// wire shape (kept distinct from pip.Ring's structure-of-arrays, which is
// the in-memory layout used for the hot PIP loop).
type Ring2D [][2]float64

// PolygonEntry is one entry in polygons.json. It is either a single
// polygon ({exterior, holes}) or a multi-polygon
// ({multi:true, exteriors, holes}, holes aligned by index to exteriors).
// The two shapes share the JSON key "holes" at different nesting depths, so
// PolygonEntry implements custom (Un)MarshalJSON to pick the right shape
// based on the "multi" flag.
type PolygonEntry struct {
	Multi bool

	// Single-polygon shape.
	Exterior Ring2D
	Holes    []Ring2D

	// Multi-polygon shape.
	Exteriors  []Ring2D
	MultiHoles [][]Ring2D
}

type rawPolygonEntry struct {
	Multi     bool            `json:"multi,omitempty"`
	Exterior  Ring2D          `json:"exterior,omitempty"`
	Exteriors []Ring2D        `json:"exteriors,omitempty"`
	Holes     json.RawMessage `json:"holes,omitempty"`
}

func (p *PolygonEntry) UnmarshalJSON(data []byte) error {
	var raw rawPolygonEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Multi = raw.Multi
	p.Exterior = raw.Exterior
	p.Exteriors = raw.Exteriors

	if len(raw.Holes) == 0 || string(raw.Holes) == "null" {
		return nil
	}

	if raw.Multi {
		var mh [][]Ring2D
		if err := json.Unmarshal(raw.Holes, &mh); err != nil {
			return err
		}
		p.MultiHoles = mh
	} else {
		var h []Ring2D
		if err := json.Unmarshal(raw.Holes, &h); err != nil {
			return err
		}
		p.Holes = h
	}

	return nil
}

func (p PolygonEntry) MarshalJSON() ([]byte, error) {
	if p.Multi {
		return json.Marshal(struct {
			Multi     bool     `json:"multi"`
			Exteriors []Ring2D `json:"exteriors"`
			Holes     [][]Ring2D `json:"holes"`
		}{true, p.Exteriors, p.MultiHoles})
	}

	return json.Marshal(struct {
		Exterior Ring2D   `json:"exterior"`
		Holes    []Ring2D `json:"holes,omitempty"`
	}{p.Exterior, p.Holes})
}

// PolygonsArtifact is the full contents of polygons.json: id (as a string
// key) -> PolygonEntry.
type PolygonsArtifact map[string]PolygonEntry

// GeohashIndexArtifact is the full contents of geohash_index.json: geohash
// string -> sorted list of record ids.
type GeohashIndexArtifact map[string][]int
