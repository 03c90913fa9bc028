// internal/filter/lower.go
package filter

import (
	"strconv"

	"github.com/solatis/recordfilter/internal/types"
)

/*
 * Per-type operator lowering.
 *
 * The remote grammar only offers primitives native to each property type
 * and has no "is one of" primitive, so list operands are decomposed:
 *
 *   single-choice contains "A|B"      -> or[equals A, equals B]
 *   single-choice does_not_contain    -> or[and[does_not_equal A, ...], is_empty]
 *   multi-choice contains "A|B"       -> or[contains A, contains B]
 *   multi-choice does_not_contain     -> or[and[does_not_contain A, ...], is_empty]
 *
 * The is_empty alternative of the negated forms is mandatory: a record with
 * no value is not equal to any excluded value, but the remote service does
 * not match empty properties against does_not_equal.
 *
 * A single positive value is never wrapped in a one-element or. The negated
 * forms keep their and wrapper even for one value so the request shape does
 * not depend on the operand count.
 *
 * Fallbacks for operators a type does not support, chosen as the most
 * permissive applicable primitive: equals for enumerations and numbers,
 * contains for tag sets and text.
 */

// lowering lowers one usable leaf, reporting fallbacks to its translator.
type lowering struct {
	leaf types.Leaf
	t    *translator
}

// prim builds a primitive on the leaf's property.
func (lw lowering) prim(key, op string, value any) PropertyFilter {
	return primitive(lw.leaf.Field, key, op, value)
}

// existence builds is_empty / is_not_empty for any type.
func (lw lowering) existence(key string) PropertyFilter {
	if lw.leaf.Operator == types.OpIsEmpty {
		return lw.prim(key, RemoteIsEmpty, true)
	}
	return lw.prim(key, RemoteIsNotEmpty, true)
}

// fallback records an unsupported operator.
func (lw lowering) fallback(to string) {
	lw.t.note(lw.leaf.ID, lw.leaf.Field, DiagOperatorFallback, string(lw.leaf.Operator)+" -> "+to)
}

// values splits the operand; an operand made only of delimiters is reported
// as missing and yields nil.
func (lw lowering) values() []string {
	vals := SplitValues(lw.leaf.Value)
	if len(vals) == 0 {
		lw.t.note(lw.leaf.ID, lw.leaf.Field, DiagMissingValue, "operand has no values")
	}
	return vals
}

// anyOf decomposes a positive list into primitives joined by or.
func (lw lowering) anyOf(key, op string) RemoteFilter {
	vals := lw.values()
	switch len(vals) {
	case 0:
		return nil
	case 1:
		return lw.prim(key, op, vals[0])
	}
	filters := make([]RemoteFilter, len(vals))
	for i, v := range vals {
		filters[i] = lw.prim(key, op, v)
	}
	return OrFilter{Filters: filters}
}

// noneOf decomposes a negated list into or[and[op v...], is_empty].
func (lw lowering) noneOf(key, op string) RemoteFilter {
	vals := lw.values()
	if len(vals) == 0 {
		return nil
	}
	excluded := make([]RemoteFilter, len(vals))
	for i, v := range vals {
		excluded[i] = lw.prim(key, op, v)
	}
	return OrFilter{Filters: []RemoteFilter{
		AndFilter{Filters: excluded},
		lw.prim(key, RemoteIsEmpty, true),
	}}
}

// singleChoice lowers select/status leaves, which only support exact matches.
func (lw lowering) singleChoice(key string) RemoteFilter {
	switch lw.leaf.Operator {
	case types.OpEquals:
		return lw.prim(key, RemoteEquals, lw.leaf.Value)
	case types.OpNotEquals, types.OpDoesNotEqual:
		return lw.prim(key, RemoteDoesNotEqual, lw.leaf.Value)
	case types.OpIsEmpty, types.OpIsNotEmpty:
		return lw.existence(key)
	case types.OpContains, types.OpIsIn:
		return lw.anyOf(key, RemoteEquals)
	case types.OpDoesNotContain, types.OpIsNotIn:
		return lw.noneOf(key, RemoteDoesNotEqual)
	default:
		lw.fallback(RemoteEquals)
		return lw.prim(key, RemoteEquals, lw.leaf.Value)
	}
}

// multiChoice lowers multi_select leaves, whose primitives test tag membership.
func (lw lowering) multiChoice() RemoteFilter {
	switch lw.leaf.Operator {
	case types.OpContains, types.OpIsIn, types.OpEquals:
		return lw.anyOf(KeyMultiSelect, RemoteContains)
	case types.OpDoesNotContain, types.OpIsNotIn, types.OpNotEquals, types.OpDoesNotEqual:
		return lw.noneOf(KeyMultiSelect, RemoteDoesNotContain)
	case types.OpIsEmpty, types.OpIsNotEmpty:
		return lw.existence(KeyMultiSelect)
	default:
		lw.fallback(RemoteContains)
		return lw.anyOf(KeyMultiSelect, RemoteContains)
	}
}

// number lowers numeric leaves 1:1. The operand defaults to 0 when it does
// not parse; the default is reported, not rejected.
func (lw lowering) number() RemoteFilter {
	op := lw.leaf.Operator
	if op.IsExistence() {
		return lw.existence(KeyNumber)
	}

	var remoteOp string
	switch op {
	case types.OpNumberEquals, types.OpEquals:
		remoteOp = RemoteEquals
	case types.OpNumberNotEquals, types.OpNotEquals, types.OpDoesNotEqual:
		remoteOp = RemoteDoesNotEqual
	case types.OpGreaterThan:
		remoteOp = RemoteGreaterThan
	case types.OpLessThan:
		remoteOp = RemoteLessThan
	case types.OpGreaterOrEqual:
		remoteOp = RemoteGreaterOrEqual
	case types.OpLessOrEqual:
		remoteOp = RemoteLessOrEqual
	default:
		lw.fallback(RemoteEquals)
		remoteOp = RemoteEquals
	}

	n, ok := parseNumber(lw.leaf.Value)
	if !ok {
		lw.t.note(lw.leaf.ID, lw.leaf.Field, DiagNumberDefaulted, "operand "+strconv.Quote(lw.leaf.Value))
	}
	return lw.prim(KeyNumber, remoteOp, n)
}

// text lowers title/rich_text and every undeclared or unsupported type.
func (lw lowering) text(key string) RemoteFilter {
	var op string
	switch lw.leaf.Operator {
	case types.OpEquals:
		op = RemoteEquals
	case types.OpNotEquals, types.OpDoesNotEqual:
		op = RemoteDoesNotEqual
	case types.OpContains, types.OpIsIn:
		op = RemoteContains
	case types.OpDoesNotContain, types.OpIsNotIn:
		op = RemoteDoesNotContain
	case types.OpStartsWith:
		op = RemoteStartsWith
	case types.OpEndsWith:
		op = RemoteEndsWith
	case types.OpIsEmpty, types.OpIsNotEmpty:
		return lw.existence(key)
	default:
		lw.fallback(RemoteContains)
		op = RemoteContains
	}
	return lw.prim(key, op, lw.leaf.Value)
}
