package filter

import (
	"fmt"
	"strings"

	"github.com/solatis/recordfilter/internal/types"
)

// DiagnosticKind classifies how a node was dropped or degraded during translation.
type DiagnosticKind string

const (
	DiagMissingField     DiagnosticKind = "missing_field"     // leaf dropped
	DiagMissingOperator  DiagnosticKind = "missing_operator"  // leaf dropped
	DiagMissingValue     DiagnosticKind = "missing_value"     // leaf dropped
	DiagEmptyGroup       DiagnosticKind = "empty_group"       // non-empty group lost every child
	DiagOperatorFallback DiagnosticKind = "operator_fallback" // operator unsupported for the type
	DiagNumberDefaulted  DiagnosticKind = "number_defaulted"  // operand did not parse, 0 used
	DiagTypeDefaulted    DiagnosticKind = "type_defaulted"    // field absent from schema, text used
)

// Drops reports whether the kind removes a node from the remote filter.
func (k DiagnosticKind) Drops() bool {
	switch k {
	case DiagMissingField, DiagMissingOperator, DiagMissingValue:
		return true
	default:
		return false
	}
}

// Diagnostic records one dropped or degraded node.
type Diagnostic struct {
	NodeID string         `json:"node_id,omitempty"`
	Field  string         `json:"field,omitempty"`
	Kind   DiagnosticKind `json:"kind"`
	Detail string         `json:"detail,omitempty"`
}

// String renders the diagnostic for logs and CLI output.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(string(d.Kind))
	if d.NodeID != "" {
		fmt.Fprintf(&b, " node=%s", d.NodeID)
	}
	if d.Field != "" {
		fmt.Fprintf(&b, " field=%s", d.Field)
	}
	if d.Detail != "" {
		fmt.Fprintf(&b, " (%s)", d.Detail)
	}
	return b.String()
}

// Result is the outcome of translating a filter tree.
type Result struct {
	// Filter is the remote filter; nil means no filter (match all).
	Filter RemoteFilter

	// Diagnostics lists dropped and degraded nodes in tree order.
	// They never change Filter.
	Diagnostics []Diagnostic
}

// Dropped returns the diagnostics for nodes removed from the filter.
func (r Result) Dropped() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind.Drops() {
			out = append(out, d)
		}
	}
	return out
}

// Strict returns an error wrapping types.ErrFilterDegraded when any node was
// dropped, for callers that must honor the whole filter or nothing.
func (r Result) Strict() error {
	dropped := r.Dropped()
	if len(dropped) == 0 {
		return nil
	}
	parts := make([]string, len(dropped))
	for i, d := range dropped {
		parts[i] = d.String()
	}
	return fmt.Errorf("%w: %s", types.ErrFilterDegraded, strings.Join(parts, "; "))
}
