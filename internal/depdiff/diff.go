// Package depdiff compares two normalized dependency forests and reports
// which root-level components were introduced, removed, or changed version.
package depdiff

import "github.com/vk/depdiffgo/internal/deptree"

// Change records a component whose name exists on both sides of the diff
// with a different version.
type Change struct {
	Name string
	From *deptree.Node
	To   *deptree.Node
}

// Result groups the root-level differences between two forests. Each slice
// preserves the order of the forest it was drawn from; presentation ordering
// is the renderer's concern. Reported nodes keep their subtrees, so
// transitive context travels with them.
type Result struct {
	Introduced []*deptree.Node
	Removed    []*deptree.Node
	Upgraded   []Change
}

// Empty reports whether the diff found no differences at all.
func (r Result) Empty() bool {
	return len(r.Introduced) == 0 && len(r.Removed) == 0 && len(r.Upgraded) == 0
}

// Diff compares two normalized forests by root identity key (name@version).
//
// A candidate root whose key is absent from the baseline is introduced; a
// baseline root whose key is absent from the candidate is removed. When a
// name exists on both sides with different versions the pair is reported as
// a version change instead, and both endpoints are excluded from the
// introduced and removed sets. The baseline name index is built in one pass
// with last-write-wins semantics, so a duplicated name (abnormal input)
// hides all but its final version.
func Diff(baseline, candidate []*deptree.Node) Result {
	baselineKeys := keySet(baseline)
	candidateKeys := keySet(candidate)

	byName := make(map[string]*deptree.Node, len(baseline))
	for _, root := range baseline {
		byName[root.ID.Name()] = root
	}

	var result Result
	fromKeys := make(map[string]struct{})
	toKeys := make(map[string]struct{})
	for _, root := range candidate {
		before, ok := byName[root.ID.Name()]
		if !ok || before.ID.Version() == root.ID.Version() {
			continue
		}
		result.Upgraded = append(result.Upgraded, Change{
			Name: root.ID.Name(),
			From: before,
			To:   root,
		})
		fromKeys[before.Key()] = struct{}{}
		toKeys[root.Key()] = struct{}{}
	}

	for _, root := range candidate {
		if _, unchanged := baselineKeys[root.Key()]; unchanged {
			continue
		}
		if _, upgraded := toKeys[root.Key()]; upgraded {
			continue
		}
		result.Introduced = append(result.Introduced, root)
	}
	for _, root := range baseline {
		if _, unchanged := candidateKeys[root.Key()]; unchanged {
			continue
		}
		if _, upgraded := fromKeys[root.Key()]; upgraded {
			continue
		}
		result.Removed = append(result.Removed, root)
	}
	return result
}

func keySet(roots []*deptree.Node) map[string]struct{} {
	keys := make(map[string]struct{}, len(roots))
	for _, root := range roots {
		keys[root.Key()] = struct{}{}
	}
	return keys
}
