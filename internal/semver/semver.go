// Package semver orders version strings for report presentation. It is a
// thin wrapper around github.com/Masterminds/semver/v3 with a deterministic
// fallback for the non-semver versions Maven builds are full of.
package semver

import (
	"fmt"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a parsed semantic version.
type Version struct {
	v *mm.Version
}

// ParseVersion parses a semantic version, tolerating a leading "v".
func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

// MustParseVersion is ParseVersion for statically known inputs.
func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare compares a and b, returning:
//
//	-1 if a < b
//	 0 if a == b
//	 1 if a > b
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// CompareStrings orders two raw version strings. When both parse as semver
// they compare semantically; otherwise lexically. Either way the order is
// total and deterministic, and no error reaches the caller: versions like
// "1.2.3.Final" or date stamps are facts of Maven life, not failures.
func CompareStrings(a, b string) int {
	av, errA := ParseVersion(a)
	bv, errB := ParseVersion(b)
	if errA == nil && errB == nil {
		return Compare(av, bv)
	}
	return strings.Compare(a, b)
}
