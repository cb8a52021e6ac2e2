package deptree

import "github.com/vk/depdiffgo/internal/gav"

// packagingDescriptorType is the extension of metadata-only aggregator
// artifacts. Such roots describe a build, not a dependency.
const packagingDescriptorType = "pom"

// Normalize rewrites a parsed forest into the classified forest the differ
// consumes. It mutates the given nodes in place and returns the new root
// slice. Pass order:
//
//  1. Drop packaging-descriptor roots from the root list. The filter never
//     recurses into children.
//  2. More than one root left: every root is a build module. Direct children
//     that reference a sibling module are dropped, remaining immediate
//     children become direct dependencies, everything deeper transitive.
//  3. Exactly one root left: the root is the build itself and is discarded.
//     Its immediate children become the forest's roots, classified direct.
//  4. Zero roots: a valid, empty forest.
func Normalize(roots []*Node) []*Node {
	forest := make([]*Node, 0, len(roots))
	for _, root := range roots {
		if ext, ok := root.ID.Field(gav.FieldExtension); ok && ext == packagingDescriptorType {
			continue
		}
		forest = append(forest, root)
	}

	switch len(forest) {
	case 0:
		return forest
	case 1:
		promoted := forest[0].Children
		markTransitive(promoted)
		for _, child := range promoted {
			child.Relation = RelationDirect
		}
		return promoted
	default:
		moduleKeys := make(map[string]struct{}, len(forest))
		for _, module := range forest {
			moduleKeys[module.Key()] = struct{}{}
		}
		for _, module := range forest {
			module.Children = dropModuleRefs(module.Children, moduleKeys)
		}

		markTransitive(forest)
		for _, module := range forest {
			for _, child := range module.Children {
				child.Relation = RelationDirect
			}
		}
		for _, module := range forest {
			module.Module = true
			module.Relation = RelationModule
		}
		return forest
	}
}

// dropModuleRefs filters out children whose identity key belongs to a module
// root. A module's dependencies are reported by that module's own tree, not
// as dependencies of its siblings.
func dropModuleRefs(children []*Node, moduleKeys map[string]struct{}) []*Node {
	kept := children[:0]
	for _, child := range children {
		if _, isModule := moduleKeys[child.Key()]; isModule {
			continue
		}
		kept = append(kept, child)
	}
	return kept
}

// markTransitive classifies every node reachable from roots as transitive.
// Callers overwrite the classification of roots and first-level children
// afterwards, so precedence falls out of pass order. Recursion is memoized
// by identity key, which also terminates walks over cyclic structures.
func markTransitive(roots []*Node) {
	seen := make(map[string]struct{})
	var walk func(n *Node)
	walk = func(n *Node) {
		n.Relation = RelationTransitive
		if _, ok := seen[n.Key()]; ok {
			return
		}
		seen[n.Key()] = struct{}{}
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
}
