package gav

import (
	"fmt"
	"net/url"
	"strings"
)

// FormatMaven is the ecosystem tag for coordinates parsed from Maven graph dumps.
const FormatMaven = "maven"

// Coordinate field names, matching the governance server's component
// identifier schema.
const (
	FieldGroup      = "groupId"
	FieldArtifact   = "artifactId"
	FieldVersion    = "version"
	FieldClassifier = "classifier"
	FieldExtension  = "extension"
)

// unknownVersion is reported when a coordinate carries no version field.
const unknownVersion = "n/a"

// field is a single named coordinate value. Fields keep their insertion
// order so serialized identifiers stay stable.
type field struct {
	name  string
	value string
}

// Identifier is an ecosystem-tagged bag of coordinate fields. It is a value
// type: once constructed it is never mutated, so copies are safe to share.
type Identifier struct {
	format string
	fields []field
}

// ParseError reports a coordinate string whose colon-delimited shape is not
// one the dump format produces.
type ParseError struct {
	Coordinate string
	Parts      int
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("unsupported coordinate %q: has %d colon-separated parts, want 4, 5, or 6", e.Coordinate, e.Parts)
}

// Parse splits a raw coordinate string on `:` and dispatches on the number
// of parts:
//
//	4: group:artifact:extension:version
//	5: group:artifact:extension:version:scope
//	6: group:artifact:extension:classifier:version:scope
//
// The scope, when present, is returned separately; it is never stored in the
// identifier. Any other part count yields a *ParseError and the caller must
// not continue with a partial identifier.
func Parse(raw string) (Identifier, string, error) {
	parts := strings.Split(raw, ":")
	switch len(parts) {
	case 4:
		return Maven(parts[0], parts[1], parts[2], "", parts[3]), "", nil
	case 5:
		return Maven(parts[0], parts[1], parts[2], "", parts[3]), parts[4], nil
	case 6:
		return Maven(parts[0], parts[1], parts[2], parts[3], parts[4]), parts[5], nil
	default:
		return Identifier{}, "", &ParseError{Coordinate: raw, Parts: len(parts)}
	}
}

// Maven constructs a maven-format identifier. Argument order mirrors the
// dump coordinate order, with the classifier pulled forward next to the
// extension it qualifies.
func Maven(group, artifact, extension, classifier, version string) Identifier {
	return Identifier{
		format: FormatMaven,
		fields: []field{
			{FieldGroup, group},
			{FieldArtifact, artifact},
			{FieldVersion, version},
			{FieldClassifier, classifier},
			{FieldExtension, extension},
		},
	}
}

// Format returns the ecosystem tag, e.g. "maven".
func (id Identifier) Format() string {
	return id.format
}

// Field returns the named coordinate value and whether the identifier
// carries that field at all.
func (id Identifier) Field(name string) (string, bool) {
	for _, f := range id.fields {
		if f.name == name {
			return f.value, true
		}
	}
	return "", false
}

// Name returns the component's artifact name, or the empty string when the
// identifier has no artifact field.
func (id Identifier) Name() string {
	name, _ := id.Field(FieldArtifact)
	return name
}

// Version returns the component's version, or "n/a" when the version field
// is absent or empty.
func (id Identifier) Version() string {
	if v, ok := id.Field(FieldVersion); ok && v != "" {
		return v
	}
	return unknownVersion
}

// Key returns the identity key `name@version` used for diffing and for
// visited-set memoization during tree walks.
func (id Identifier) Key() string {
	return id.Name() + "@" + id.Version()
}

// Equal reports whether two identifiers describe the same component: the
// ecosystem tags match and every field present in either identifier matches
// exactly in the other. A field held by one side only counts as a mismatch,
// not a wildcard.
func (id Identifier) Equal(other Identifier) bool {
	if id.format != other.format || len(id.fields) != len(other.fields) {
		return false
	}
	for _, f := range id.fields {
		v, ok := other.Field(f.name)
		if !ok || v != f.value {
			return false
		}
	}
	return true
}

// LookupQuery serializes the identifier into flat URL query values for the
// governance lookup endpoint: the ecosystem tag under "format" plus exactly
// the coordinate fields the identifier holds. Scope never appears because it
// is never stored.
func (id Identifier) LookupQuery() url.Values {
	q := make(url.Values, len(id.fields)+1)
	q.Set("format", id.format)
	for _, f := range id.fields {
		q.Set(f.name, f.value)
	}
	return q
}

// String serializes the identifier back into its canonical colon-delimited
// form, omitting an empty classifier.
func (id Identifier) String() string {
	group, _ := id.Field(FieldGroup)
	extension, _ := id.Field(FieldExtension)
	classifier, _ := id.Field(FieldClassifier)

	var sb strings.Builder
	sb.WriteString(group)
	sb.WriteRune(':')
	sb.WriteString(id.Name())
	sb.WriteRune(':')
	sb.WriteString(extension)
	if classifier != "" {
		sb.WriteRune(':')
		sb.WriteString(classifier)
	}
	sb.WriteRune(':')
	sb.WriteString(id.Version())
	return sb.String()
}
