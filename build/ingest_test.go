package build

import "testing"

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"NAME": "Freedonia", "ISO_A2": "FD", "ISO_A3": "FRE", "CONTINENT": "Europe", "TIMEZONE": "Europe/Freedonia"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[0, 0], [0, 10], [10, 10], [10, 0], [0, 0]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"NAME": "Sylvania", "ISO_A2": "-99", "ISO_A3": "-99", "CONTINENT": "Europe"},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [
          [[[20, 20], [20, 25], [25, 25], [25, 20], [20, 20]]],
          [[[30, 30], [30, 35], [35, 35], [35, 30], [30, 30]]]
        ]
      }
    },
    {
      "type": "Feature",
      "properties": {"NAME": "Point Nemo"},
      "geometry": {"type": "Point", "coordinates": [-123.4, -48.9]}
    }
  ]
}`

func TestIngestParsesPolygonAndMultiPolygon(t *testing.T) {
	features, err := Ingest([]byte(sampleGeoJSON))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	// the Point feature is skipped with a warning, not an error
	if len(features) != 2 {
		t.Fatalf("got %d features, want 2", len(features))
	}

	var freedonia, sylvania *RawFeature
	for i := range features {
		switch features[i].Name {
		case "Freedonia":
			freedonia = &features[i]
		case "Sylvania":
			sylvania = &features[i]
		}
	}
	if freedonia == nil || sylvania == nil {
		t.Fatalf("expected both Freedonia and Sylvania, got %+v", features)
	}

	if len(freedonia.Parts) != 1 {
		t.Errorf("Freedonia: got %d parts, want 1", len(freedonia.Parts))
	}
	if freedonia.ISO2 != "FD" || freedonia.ISO3 != "FRE" {
		t.Errorf("Freedonia: unexpected ISO codes: %+v", freedonia)
	}

	if len(sylvania.Parts) != 2 {
		t.Errorf("Sylvania: got %d parts, want 2", len(sylvania.Parts))
	}
	if sylvania.ISO2 != "" || sylvania.ISO3 != "" {
		t.Errorf("Sylvania: expected -99 ISO codes normalized to empty, got %+v", sylvania)
	}
}

func TestIngestDropsClosingVertex(t *testing.T) {
	features, err := Ingest([]byte(sampleGeoJSON))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	for _, f := range features {
		for _, part := range f.Parts {
			if len(part.Exterior) != 4 {
				t.Errorf("%s: exterior has %d vertices, want 4 (closing vertex dropped)", f.Name, len(part.Exterior))
			}
		}
	}
}

func TestIngestSwapsLonLatToLatLon(t *testing.T) {
	features, err := Ingest([]byte(sampleGeoJSON))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	for _, f := range features {
		if f.Name != "Freedonia" {
			continue
		}
		first := f.Parts[0].Exterior[0]
		if first.Lat != 0 || first.Lon != 0 {
			t.Errorf("unexpected first vertex: %+v", first)
		}
		second := f.Parts[0].Exterior[1]
		if second.Lat != 10 || second.Lon != 0 {
			t.Errorf("GeoJSON [lon,lat]=[0,10] should become (lat=10, lon=0), got %+v", second)
		}
	}
}

func TestIngestRejectsMalformedJSON(t *testing.T) {
	if _, err := Ingest([]byte("not json")); err == nil {
		t.Fatal("expected an error for malformed input")
	}
}

func TestNormalizeISO(t *testing.T) {
	cases := map[string]string{
		"us":  "US",
		"-99": "",
		"":    "",
		" fr ": "FR",
	}
	for in, want := range cases {
		if got := normalizeISO(in); got != want {
			t.Errorf("normalizeISO(%q) = %q, want %q", in, got, want)
		}
	}
}
