// internal/filter/evaluate.go
package filter

import (
	"strings"

	"github.com/solatis/recordfilter/internal/types"
)

/*
 * Local evaluation of filter trees against loaded records.
 *
 * Evaluate is pure and total: it never panics on malformed trees and never
 * returns an error. It backs client-side preview and fields the remote
 * service does not store.
 *
 * Fail-open rules (tested contracts, keep in sync with the translator):
 *   - a leaf without field or operator is true, and so is a leaf whose
 *     operator needs a value but has none (the translator drops it too)
 *   - a nil node is true
 *   - an AND group is true when every child is true (empty: true)
 *   - an OR group is true when any child is true, and an EMPTY OR group is
 *     also true; "no conditions" never hides records
 *
 * Any logic other than AND evaluates as OR.
 */

// Evaluate reports whether record satisfies node.
func Evaluate(node types.FilterNode, record types.Record) bool {
	if l, ok := AsLeaf(node); ok {
		return evaluateLeaf(l, record)
	}
	if g, ok := AsGroup(node); ok {
		return evaluateGroup(g, record)
	}
	return true
}

// evaluateGroup applies the group combinator with short-circuiting.
func evaluateGroup(g types.Group, record types.Record) bool {
	if len(g.Conditions) == 0 {
		return true
	}
	if g.Logic == types.LogicAnd {
		for _, child := range g.Conditions {
			if !Evaluate(child, record) {
				return false
			}
		}
		return true
	}
	for _, child := range g.Conditions {
		if Evaluate(child, record) {
			return true
		}
	}
	return false
}

// evaluateLeaf orchestrates: lookup field -> coerce -> compare.
func evaluateLeaf(l types.Leaf, record types.Record) bool {
	if !IsUsable(l) {
		return true
	}
	value := Coerce(record[l.Field])
	return Compare(l.Operator, value, strings.ToLower(l.Value))
}

// Filter returns the records satisfying node, preserving order.
func Filter(node types.FilterNode, records []types.Record) []types.Record {
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if Evaluate(node, r) {
			out = append(out, r)
		}
	}
	return out
}
