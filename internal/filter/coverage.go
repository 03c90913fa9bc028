// internal/filter/coverage.go
package filter

import "github.com/solatis/recordfilter/internal/types"

/*
 * Coverage statistics for a translation.
 *
 * The translator never reports how much of a filter survived; these counters
 * are built on top of it so callers can diff input against output:
 *
 *   Leaves      every leaf in the input tree
 *   Usable      leaves with field, operator and required value
 *   Dropped     nodes removed by translation (DiagnosticKind.Drops)
 *   Primitives  property filters in the remote output
 *   Depth       combinator nesting of the remote output
 *
 * Primitives can exceed Usable because list operands decompose into one
 * primitive per value plus the is_empty alternative of negated forms.
 */

// CoverageReport summarizes how much of a filter the remote query honors.
type CoverageReport struct {
	Leaves     int `json:"leaves"`
	Usable     int `json:"usable"`
	Dropped    int `json:"dropped"`
	Primitives int `json:"primitives"`
	Depth      int `json:"depth"`
}

// Complete reports whether no node was dropped.
func (c CoverageReport) Complete() bool {
	return c.Dropped == 0
}

// Coverage computes the report for node and its translation result.
func Coverage(node types.FilterNode, result Result) CoverageReport {
	report := CoverageReport{
		Dropped:    len(result.Dropped()),
		Primitives: CountPrimitives(result.Filter),
		Depth:      RemoteDepth(result.Filter),
	}
	walkLeaves(node, func(l types.Leaf) {
		report.Leaves++
		if IsUsable(l) {
			report.Usable++
		}
	})
	return report
}

// CountPrimitives returns the number of property filters in f.
func CountPrimitives(f RemoteFilter) int {
	if f == nil {
		return 0
	}
	children := Children(f)
	if children == nil {
		if _, ok := f.(PropertyFilter); ok {
			return 1
		}
		if p, ok := f.(*PropertyFilter); ok && p != nil {
			return 1
		}
		return 0
	}
	total := 0
	for _, c := range children {
		total += CountPrimitives(c)
	}
	return total
}

// RemoteDepth returns the combinator nesting of f (a primitive has depth 0).
// The remote service limits compound filter nesting, so callers can check
// this before dispatching a query.
func RemoteDepth(f RemoteFilter) int {
	children := Children(f)
	if children == nil {
		return 0
	}
	deepest := 0
	for _, c := range children {
		if d := RemoteDepth(c); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
