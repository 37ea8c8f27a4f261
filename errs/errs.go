// Package errs defines the sentinel and parameterized error kinds shared by
// the geointel engine (spec §7): InvalidCoordinate, EmptyQuery,
// ArtifactMissing and ArtifactCorrupt. NotFound is deliberately absent —
// resolution misses are absence, not errors (see artifact/record.go and
// resolver).
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidCoordinate is returned by geohash.Encode and the forward
// resolver when latitude or longitude falls outside the valid range.
var ErrInvalidCoordinate = errors.New("geointel: invalid coordinate")

// ErrEmptyQuery is returned by the reverse resolver on empty/whitespace input.
var ErrEmptyQuery = errors.New("geointel: empty query")

// ErrArtifactMissing is the sentinel matched by errors.Is against any
// ArtifactMissingError.
var ErrArtifactMissing = errors.New("geointel: artifact missing")

// ErrArtifactCorrupt is the sentinel matched by errors.Is against any
// ArtifactCorruptError.
var ErrArtifactCorrupt = errors.New("geointel: artifact corrupt")

// ArtifactMissingError reports that a named on-disk artifact (metadata,
// polygons, or geohash_index, with or without .gz) could not be found.
type ArtifactMissingError struct {
	Name string
}

func (e *ArtifactMissingError) Error() string {
	return fmt.Sprintf("%s: %s", ErrArtifactMissing, e.Name)
}

// Is reports whether target is ErrArtifactMissing, so callers can use
// errors.Is(err, errs.ErrArtifactMissing) without knowing the concrete type.
func (e *ArtifactMissingError) Is(target error) bool {
	return target == ErrArtifactMissing
}

// MissingArtifact builds an ArtifactMissingError for the named artifact.
func MissingArtifact(name string) error {
	return &ArtifactMissingError{Name: name}
}

// ArtifactCorruptError reports that a named artifact was present but failed
// to parse or violated the on-disk schema in §4.3.
type ArtifactCorruptError struct {
	Name   string
	Detail string
	cause  error
}

func (e *ArtifactCorruptError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrArtifactCorrupt, e.Name, e.Detail)
}

func (e *ArtifactCorruptError) Is(target error) bool {
	return target == ErrArtifactCorrupt
}

func (e *ArtifactCorruptError) Unwrap() error {
	return e.cause
}

// CorruptArtifact wraps cause with a stack-annotated detail message and
// returns an ArtifactCorruptError for the named artifact.
func CorruptArtifact(name string, cause error) error {
	wrapped := errors.Wrapf(cause, "parsing %s", name)
	return &ArtifactCorruptError{Name: name, Detail: cause.Error(), cause: wrapped}
}
