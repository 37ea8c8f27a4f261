// Package resolver implements the Forward and Reverse Resolver operations
// (spec §4.4, §4.5) over an already-constructed artifact.Loader. Both
// resolvers are pure over loader state and have no side effects of their
// own.
package resolver

// ForwardResult is returned by Forward.Resolve (spec §3 ForwardResult).
// Found is false when no country could be resolved at all (open ocean);
// in that case Confidence is always 0.0.
type ForwardResult struct {
	Found      bool
	Country    string
	ISO2       string
	ISO3       string
	Continent  string
	Timezone   string
	Confidence float64
}

// ReverseResult is returned by Reverse.Resolve (spec §3 ReverseResult).
// Found is false when the query matched no record.
type ReverseResult struct {
	Found     bool
	Country   string
	ISO2      string
	ISO3      string
	Continent string
	Timezone  string
	Latitude  float64
	Longitude float64
}
