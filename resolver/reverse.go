package resolver

import (
	"sort"
	"strings"
	"sync"

	"github.com/geointel/geointel/artifact"
	"github.com/geointel/geointel/errs"
)

type nameEntry struct {
	lower string
	id    int
}

// Reverse implements the reverse resolver (spec §4.5). The ISO2/ISO3/name
// tables are built lazily on first call and cached (spec: "built lazily on
// first call and cached").
type Reverse struct {
	loader loaderView2

	once        sync.Once
	byISO2      map[string]int
	byISO3      map[string]int
	byNameExact map[string]int
	names       []nameEntry // sorted by len(lower) then id, for shortest-match substring search
}

// loaderView2 is the subset of *artifact.Loader the reverse resolver needs.
type loaderView2 interface {
	GetMetadata(id int) (*artifact.Record, bool)
	IterRecords() []*artifact.Record
}

// NewReverse builds a Reverse resolver over loader.
func NewReverse(loader *artifact.Loader) *Reverse {
	return newReverse(loader)
}

func newReverse(loader loaderView2) *Reverse {
	return &Reverse{loader: loader}
}

func (r *Reverse) ensureIndex() {
	r.once.Do(func() {
		records := r.loader.IterRecords()

		r.byISO2 = make(map[string]int, len(records))
		r.byISO3 = make(map[string]int, len(records))
		r.byNameExact = make(map[string]int, len(records))
		r.names = make([]nameEntry, 0, len(records))

		for _, rec := range records {
			if rec.ISO2 != "" {
				key := strings.ToUpper(rec.ISO2)
				if _, exists := r.byISO2[key]; !exists {
					r.byISO2[key] = rec.ID
				}
			}
			if rec.ISO3 != "" {
				key := strings.ToUpper(rec.ISO3)
				if _, exists := r.byISO3[key]; !exists {
					r.byISO3[key] = rec.ID
				}
			}

			lower := strings.ToLower(rec.Name)
			if _, exists := r.byNameExact[lower]; !exists {
				r.byNameExact[lower] = rec.ID
			}
			r.names = append(r.names, nameEntry{lower: lower, id: rec.ID})
		}

		sort.Slice(r.names, func(i, j int) bool {
			if len(r.names[i].lower) != len(r.names[j].lower) {
				return len(r.names[i].lower) < len(r.names[j].lower)
			}
			return r.names[i].id < r.names[j].id
		})
	})
}

// Resolve answers the reverse query (spec §4.5). A query whose length is
// exactly 2 or 3 only ever attempts the matching ISO lookup; any other
// length only ever attempts name matching. There is no cross-branch
// fallback.
func (r *Reverse) Resolve(query string) (ReverseResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return ReverseResult{}, errs.ErrEmptyQuery
	}

	r.ensureIndex()

	var (
		id int
		ok bool
	)

	switch len(q) {
	case 2:
		id, ok = r.byISO2[strings.ToUpper(q)]
	case 3:
		id, ok = r.byISO3[strings.ToUpper(q)]
	default:
		lower := strings.ToLower(q)
		if rid, exact := r.byNameExact[lower]; exact {
			id, ok = rid, true
		} else {
			for _, e := range r.names {
				if strings.Contains(e.lower, lower) {
					id, ok = e.id, true
					break
				}
			}
		}
	}

	if !ok {
		return ReverseResult{}, nil
	}

	rec, found := r.loader.GetMetadata(id)
	if !found {
		return ReverseResult{}, nil
	}

	res := ReverseResult{
		Found:     true,
		Country:   rec.Name,
		ISO2:      rec.ISO2,
		ISO3:      rec.ISO3,
		Continent: rec.Continent,
		Timezone:  rec.Timezone,
	}
	if rec.HasCentroid {
		res.Latitude = rec.Centroid.Lat
		res.Longitude = rec.Centroid.Lon
	}

	return res, nil
}
