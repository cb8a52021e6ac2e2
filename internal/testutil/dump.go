package testutil

import (
	"fmt"
	"strings"
)

// DumpEdge is one parent -> child line inside a dump subgraph.
type DumpEdge struct {
	From string
	To   string
}

// Dump renders one dependency dump subgraph for root with the given edges,
// in the format the Maven dependency plugin emits.
func Dump(root string, edges ...DumpEdge) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %q {\n", root)
	for _, edge := range edges {
		fmt.Fprintf(&sb, "\t%q -> %q ;\n", edge.From, edge.To)
	}
	sb.WriteString("}\n")
	return sb.String()
}
