package resolver

import (
	"testing"

	"github.com/geointel/geointel/artifact"
	"github.com/geointel/geointel/errs"
	"github.com/geointel/geointel/pip"
)

func addPlainRecord(f *fakeLoader, id int, name, iso2, iso3 string, lat, lon float64) {
	f.records[id] = &artifact.Record{
		ID:          id,
		Name:        name,
		ISO2:        iso2,
		ISO3:        iso3,
		HasCentroid: true,
		Centroid:    pip.Point{Lat: lat, Lon: lon},
	}
}

func TestReverseResolveByISO2(t *testing.T) {
	fl := newFakeLoader()
	addPlainRecord(fl, 0, "United States", "US", "USA", 38, -97)
	rev := newReverse(fl)

	res, err := rev.Resolve("us")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Found || res.Country != "United States" {
		t.Fatalf("expected United States, got %+v", res)
	}
}

func TestReverseResolveByISO3(t *testing.T) {
	fl := newFakeLoader()
	addPlainRecord(fl, 0, "United States", "US", "USA", 38, -97)
	rev := newReverse(fl)

	res, err := rev.Resolve("USA")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Found || res.ISO3 != "USA" {
		t.Fatalf("expected USA, got %+v", res)
	}
}

func TestReverseLengthTwoOrThreeNeverFallsBackToName(t *testing.T) {
	fl := newFakeLoader()
	// A 2- or 3-letter query must only ever try the matching ISO table,
	// even if it happens to also be a substring of a country name.
	addPlainRecord(fl, 0, "Us-ville", "ZZ", "ZZZ", 0, 0)
	rev := newReverse(fl)

	res, err := rev.Resolve("us")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Found {
		t.Fatalf("expected no match: 'us' must not fall back to name search, got %+v", res)
	}
}

func TestReverseResolveByExactName(t *testing.T) {
	fl := newFakeLoader()
	addPlainRecord(fl, 0, "France", "FR", "FRA", 46, 2)
	addPlainRecord(fl, 1, "French Polynesia", "PF", "PYF", -17, -149)
	rev := newReverse(fl)

	res, err := rev.Resolve("France")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Found || res.Country != "France" {
		t.Fatalf("expected exact match to win over substring match, got %+v", res)
	}
}

func TestReverseResolveBySubstringShortestWins(t *testing.T) {
	fl := newFakeLoader()
	// Both names contain "franc"; the longer one has the lower id.
	addPlainRecord(fl, 0, "Metropolitan France", "FX", "FXX", 46, 2)
	addPlainRecord(fl, 1, "France", "FR", "FRA", 46, 2)
	rev := newReverse(fl)

	res, err := rev.Resolve("franc")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Found || res.Country != "France" {
		t.Fatalf("expected the shorter matching name to win, got %+v", res)
	}
}

func TestReverseResolveNotFound(t *testing.T) {
	fl := newFakeLoader()
	addPlainRecord(fl, 0, "France", "FR", "FRA", 46, 2)
	rev := newReverse(fl)

	res, err := rev.Resolve("Atlantis")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Found {
		t.Fatalf("expected not found, got %+v", res)
	}
}

func TestReverseResolveEmptyQuery(t *testing.T) {
	rev := newReverse(newFakeLoader())
	if _, err := rev.Resolve("   "); err != errs.ErrEmptyQuery {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestReverseResolveReturnsCentroid(t *testing.T) {
	fl := newFakeLoader()
	addPlainRecord(fl, 0, "Testlandia", "TL", "TLD", 12.5, -34.25)
	rev := newReverse(fl)

	res, err := rev.Resolve("TL")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Latitude != 12.5 || res.Longitude != -34.25 {
		t.Errorf("unexpected centroid: lat=%v lon=%v", res.Latitude, res.Longitude)
	}
}
