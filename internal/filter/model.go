// internal/filter/model.go
package filter

import (
	"sort"
	"strings"

	"github.com/solatis/recordfilter/internal/types"
)

/*
 * Structural helpers over filter trees.
 *
 * Gives the evaluator, the translator and outside collaborators one
 * vocabulary for "is this a group", "which fields does this filter touch",
 * and "does this filter constrain anything at all".
 *
 * Nodes may be held as values or pointers; AsLeaf and AsGroup normalize both
 * so every other function switches on two cases only. A nil node, or a nil
 * pointer, is neither a leaf nor a group and imposes no constraint.
 */

// AsLeaf returns the node as a Leaf value if it is one.
func AsLeaf(node types.FilterNode) (types.Leaf, bool) {
	switch n := node.(type) {
	case types.Leaf:
		return n, true
	case *types.Leaf:
		if n != nil {
			return *n, true
		}
	}
	return types.Leaf{}, false
}

// AsGroup returns the node as a Group value if it is one.
func AsGroup(node types.FilterNode) (types.Group, bool) {
	switch n := node.(type) {
	case types.Group:
		return n, true
	case *types.Group:
		if n != nil {
			return *n, true
		}
	}
	return types.Group{}, false
}

// IsLeaf reports whether node is a leaf predicate.
func IsLeaf(node types.FilterNode) bool {
	_, ok := AsLeaf(node)
	return ok
}

// IsGroup reports whether node is a boolean group.
func IsGroup(node types.FilterNode) bool {
	_, ok := AsGroup(node)
	return ok
}

// IsUsable reports whether a leaf can constrain anything: field and operator
// present, and a value present unless the operator is an existence check.
func IsUsable(leaf types.Leaf) bool {
	if leaf.Field == "" || leaf.Operator == "" {
		return false
	}
	return leaf.Operator.IsExistence() || leaf.Value != ""
}

// CollectFields returns every field referenced by a leaf anywhere in the tree.
// Leaves without a field contribute nothing.
func CollectFields(node types.FilterNode) map[string]struct{} {
	fields := make(map[string]struct{})
	walkLeaves(node, func(l types.Leaf) {
		if l.Field != "" {
			fields[l.Field] = struct{}{}
		}
	})
	return fields
}

// SortedFields returns CollectFields as a sorted slice for deterministic output.
func SortedFields(node types.FilterNode) []string {
	set := CollectFields(node)
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// IsEmpty reports whether the tree contains no usable leaf, i.e. whether it
// matches every record.
func IsEmpty(node types.FilterNode) bool {
	empty := true
	walkLeaves(node, func(l types.Leaf) {
		if IsUsable(l) {
			empty = false
		}
	})
	return empty
}

// Depth returns the group nesting depth of node (a leaf or nil has depth 0).
func Depth(node types.FilterNode) int {
	g, ok := AsGroup(node)
	if !ok {
		return 0
	}
	deepest := 0
	for _, child := range g.Conditions {
		if d := Depth(child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// SplitValues splits a multi-value operand on the value delimiter.
// Tokens are trimmed and empty tokens dropped, so "A| B |" yields [A B].
func SplitValues(value string) []string {
	parts := strings.Split(value, types.ValueDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// walkLeaves visits every leaf in pre-order.
func walkLeaves(node types.FilterNode, visit func(types.Leaf)) {
	if l, ok := AsLeaf(node); ok {
		visit(l)
		return
	}
	if g, ok := AsGroup(node); ok {
		for _, child := range g.Conditions {
			walkLeaves(child, visit)
		}
	}
}
