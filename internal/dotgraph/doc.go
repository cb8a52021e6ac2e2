/*
Package dotgraph extracts dependency forests from the text dump the build
tool's graph plugin writes: one digraph block per build module, with one
`"parent" -> "child"` edge per line.

This is not a general DOT parser. It recognizes exactly the dump dialect:
a line starting with `digraph` opens a subgraph, a line equal to `}` closes
it, and only quoted-pair edge lines inside contribute to the forest.
*/
package dotgraph
