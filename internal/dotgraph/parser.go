package dotgraph

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/depdiffgo/internal/deptree"
	"github.com/vk/depdiffgo/internal/gav"
)

const (
	subgraphStart = "digraph"
	subgraphEnd   = "}"
)

// edgePattern matches one dump edge: two quoted coordinate strings joined by
// an arrow. Lines that do not match are not edges and are skipped.
var edgePattern = regexp.MustCompile(`"([^"]+)"\s*->\s*"([^"]+)"`)

// Parse extracts every subgraph from a dump and returns the concatenated
// root lists, in subgraph order then first-seen order, with the full child
// structure reachable from them. Text outside subgraphs is ignored; empty
// input yields an empty forest. A coordinate with an unsupported shape
// aborts the whole parse.
func Parse(text string) ([]*deptree.Node, error) {
	var forest []*deptree.Node
	for i, block := range splitSubgraphs(text) {
		roots, err := parseSubgraph(block)
		if err != nil {
			return nil, fmt.Errorf("failed to parse subgraph %d: %w", i+1, err)
		}
		forest = append(forest, roots...)
	}
	return forest, nil
}

// splitSubgraphs scans the dump line by line, buffering the lines between a
// start marker and its end marker. Only a closed buffer counts; a subgraph
// still open when the text ends is dropped.
func splitSubgraphs(text string) [][]string {
	var (
		subgraphs [][]string
		current   []string
		inside    bool
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case strings.HasPrefix(line, subgraphStart):
			current = nil
			inside = true
		case line == subgraphEnd:
			if inside {
				subgraphs = append(subgraphs, current)
			}
			current = nil
			inside = false
		case inside:
			current = append(current, line)
		}
	}
	return subgraphs
}

// parseSubgraph builds the node structure for one subgraph. Nodes are shared
// through a lookup table keyed by the raw coordinate string, so every
// mention of a coordinate resolves to the same object. A node first created
// on the parent side of an edge is a root of this subgraph.
func parseSubgraph(lines []string) ([]*deptree.Node, error) {
	nodes := make(map[string]*deptree.Node)
	var roots []*deptree.Node

	for _, line := range lines {
		match := edgePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		parent, created, err := resolve(nodes, match[1])
		if err != nil {
			return nil, err
		}
		if created {
			roots = append(roots, parent)
		}

		child, _, err := resolve(nodes, match[2])
		if err != nil {
			return nil, err
		}
		parent.Children = append(parent.Children, child)
	}
	return roots, nil
}

// resolve returns the node for a raw coordinate string, creating and
// registering it on first sight.
func resolve(nodes map[string]*deptree.Node, raw string) (*deptree.Node, bool, error) {
	if node, ok := nodes[raw]; ok {
		return node, false, nil
	}
	id, scope, err := gav.Parse(raw)
	if err != nil {
		return nil, false, err
	}
	node := &deptree.Node{ID: id, Scope: scope}
	nodes[raw] = node
	return node, true, nil
}
