/*
Package gav provides a structured, ecosystem-tagged representation for
component coordinates as they appear in dependency graph dumps, based on the
colon-delimited Maven form `group:artifact:extension[:classifier]:version[:scope]`.

The package enforces the coordinate schema and centralizes all parsing,
equality, and lookup-serialization logic, so that every other package agrees
on what identifies a component.
*/
package gav
