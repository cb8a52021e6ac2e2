// Package deptree defines the dependency tree model shared by the graph
// parser, the normalizer, and the differ, and implements forest
// normalization: packaging-descriptor filtering and the
// module/direct/transitive classification of every node.
package deptree
