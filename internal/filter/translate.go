// internal/filter/translate.go
package filter

import (
	"github.com/solatis/recordfilter/internal/types"
)

/*
 * Remote query translation.
 *
 * Translates a filter tree plus a schema map into the remote filter grammar.
 * Pure and total: malformed input is excluded, never reported as an error.
 *
 * Translation workflow:
 *   1. Groups translate every child and discard children that become nil
 *   2. Zero survivors: the group itself becomes nil (no constraint, NOT
 *      "match nothing"), propagating upward
 *   3. One survivor: returned unwrapped
 *   4. Otherwise: survivors wrapped in the group's and/or combinator
 *   5. Leaves without field, operator, or required value become nil
 *   6. Usable leaves are lowered by property type (lower.go)
 *
 * Every exclusion and fallback is recorded as a Diagnostic so callers can
 * opt into strict behavior (Result.Strict) without changing the default.
 *
 * Undeclared fields are lowered as text. This default is load-bearing: a
 * schema fetched before a column was added still produces a usable filter.
 */

// Translate converts node into the remote grammar using schema for field types.
func Translate(node types.FilterNode, schema types.Schema) Result {
	t := &translator{schema: schema}
	filter := t.translateNode(node)
	return Result{Filter: filter, Diagnostics: t.diagnostics}
}

// TranslateFilter returns only the remote filter of Translate (nil = no filter).
func TranslateFilter(node types.FilterNode, schema types.Schema) RemoteFilter {
	return Translate(node, schema).Filter
}

// translator accumulates diagnostics during traversal.
type translator struct {
	schema      types.Schema
	diagnostics []Diagnostic
}

// note appends a diagnostic for a node.
func (t *translator) note(id, field string, kind DiagnosticKind, detail string) {
	t.diagnostics = append(t.diagnostics, Diagnostic{NodeID: id, Field: field, Kind: kind, Detail: detail})
}

// translateNode dispatches on the node shape.
func (t *translator) translateNode(node types.FilterNode) RemoteFilter {
	if l, ok := AsLeaf(node); ok {
		return t.translateLeaf(l)
	}
	if g, ok := AsGroup(node); ok {
		return t.translateGroup(g)
	}
	return nil
}

// translateGroup drops untranslatable children and wraps the survivors.
func (t *translator) translateGroup(g types.Group) RemoteFilter {
	survivors := make([]RemoteFilter, 0, len(g.Conditions))
	for _, child := range g.Conditions {
		if f := t.translateNode(child); f != nil {
			survivors = append(survivors, f)
		}
	}

	switch len(survivors) {
	case 0:
		if len(g.Conditions) > 0 {
			t.note(g.ID, "", DiagEmptyGroup, "no child could be translated")
		}
		return nil
	case 1:
		return survivors[0]
	}

	if g.Logic == types.LogicAnd {
		return AndFilter{Filters: survivors}
	}
	return OrFilter{Filters: survivors}
}

// translateLeaf validates the leaf and lowers it for its declared type.
func (t *translator) translateLeaf(l types.Leaf) RemoteFilter {
	switch {
	case l.Field == "":
		t.note(l.ID, "", DiagMissingField, "")
		return nil
	case l.Operator == "":
		t.note(l.ID, l.Field, DiagMissingOperator, "")
		return nil
	case l.Value == "" && !l.Operator.IsExistence():
		t.note(l.ID, l.Field, DiagMissingValue, string(l.Operator))
		return nil
	}

	ptype, declared := t.schema.TypeOf(l.Field)
	if !declared {
		t.note(l.ID, l.Field, DiagTypeDefaulted, "field not in schema")
	}

	lw := lowering{leaf: l, t: t}
	switch {
	case ptype.IsSingleChoice():
		return lw.singleChoice(remoteKey(ptype))
	case ptype.IsMultiChoice():
		return lw.multiChoice()
	case ptype.IsNumeric():
		return lw.number()
	default:
		return lw.text(remoteKey(ptype))
	}
}

// remoteKey maps a property type to the remote type key of its filters.
// Everything that is not an enumeration, a tag set, a number or a title is
// filtered as rich text.
func remoteKey(p types.PropertyType) string {
	switch p {
	case types.PropertySelect:
		return KeySelect
	case types.PropertyStatus:
		return KeyStatus
	case types.PropertyMultiSelect:
		return KeyMultiSelect
	case types.PropertyNumber:
		return KeyNumber
	case types.PropertyTitle:
		return KeyTitle
	default:
		return KeyRichText
	}
}
