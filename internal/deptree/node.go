package deptree

import "github.com/vk/depdiffgo/internal/gav"

// Relation classifies how a dependency relates to the build that declared it.
type Relation int

const (
	// RelationUnknown is the zero value. Nodes carry it only between parsing
	// and normalization; a normalized forest contains none.
	RelationUnknown Relation = iota
	// RelationModule marks a build module root in a multi-module forest.
	RelationModule
	// RelationDirect marks a first-level dependency declared by a module.
	RelationDirect
	// RelationTransitive marks everything pulled in below a direct dependency.
	RelationTransitive
)

// String returns the lowercase label used in logs and reports.
func (r Relation) String() string {
	switch r {
	case RelationModule:
		return "module"
	case RelationDirect:
		return "direct"
	case RelationTransitive:
		return "transitive"
	default:
		return "unknown"
	}
}

// Node is a single vertex in a dependency forest, representing one component
// occurrence. Nodes are shared by reference within one parsed subgraph: the
// same coordinate string always resolves to the same *Node.
type Node struct {
	// ID is the component's coordinate identity.
	ID gav.Identifier
	// Scope is the dependency scope from the dump (e.g. "compile", "test").
	// Empty when the coordinate carried none.
	Scope string
	// Children are the components this node pulls in. Duplicates are
	// tolerated; the parser appends every edge mention it sees.
	Children []*Node
	// Module is true iff this node is itself a build module root.
	Module bool
	// Relation is the node's classification after normalization.
	Relation Relation
}

// Key returns the node's identity key `name@version`.
func (n *Node) Key() string {
	return n.ID.Key()
}
