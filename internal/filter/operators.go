// internal/filter/operators.go
package filter

import (
	"strings"

	"github.com/solatis/recordfilter/internal/types"
)

/*
 * Operator comparison logic for local evaluation.
 *
 * Both sides arrive lower-cased: the record value via Coerce, the operand by
 * the caller. Comparisons are therefore case-insensitive throughout.
 *
 * Operators:
 *   - equals / not_equals / does_not_equal: exact text match
 *   - contains / does_not_contain / starts_with / ends_with: substring tests
 *   - is_empty / is_not_empty: nil, "", empty list, false or numeric zero
 *   - is_in / is_not_in: operand split on "|"; membership by exact match
 *   - numeric comparators: float comparison, operand defaults to 0
 *
 * Unknown operators compare true: an operator the evaluator does not
 * understand imposes no constraint, mirroring the translator's fallbacks.
 */

// Compare applies op to a coerced record value and a lower-cased operand.
func Compare(op types.Operator, value CoercionResult, operand string) bool {
	switch op {
	case types.OpIsEmpty:
		return isEmptyValue(value)
	case types.OpIsNotEmpty:
		return !isEmptyValue(value)
	case types.OpEquals:
		return value.Text == operand
	case types.OpNotEquals, types.OpDoesNotEqual:
		return value.Text != operand
	case types.OpContains:
		return strings.Contains(value.Text, operand)
	case types.OpDoesNotContain:
		return !strings.Contains(value.Text, operand)
	case types.OpStartsWith:
		return strings.HasPrefix(value.Text, operand)
	case types.OpEndsWith:
		return strings.HasSuffix(value.Text, operand)
	case types.OpIsIn:
		return compareIn(value, operand)
	case types.OpIsNotIn:
		return !compareIn(value, operand)
	case types.OpGreaterThan, types.OpLessThan,
		types.OpGreaterOrEqual, types.OpLessOrEqual,
		types.OpNumberEquals, types.OpNumberNotEquals:
		return compareNumeric(op, value, operand)
	default:
		return true
	}
}

// isEmptyValue reports whether a coerced value counts as empty.
func isEmptyValue(value CoercionResult) bool {
	return value.Falsy || value.Text == ""
}

// compareIn checks whether the value equals any delimited alternative.
// List values match when any element equals any alternative.
func compareIn(value CoercionResult, operand string) bool {
	for _, token := range SplitValues(operand) {
		if value.IsList {
			for _, item := range value.Items {
				if item == token {
					return true
				}
			}
			continue
		}
		if value.Text == token {
			return true
		}
	}
	return false
}

// compareNumeric compares the value and operand as floats.
// An unparseable operand counts as 0; an unparseable value only satisfies
// number_does_not_equal.
func compareNumeric(op types.Operator, value CoercionResult, operand string) bool {
	target, _ := parseNumber(operand)
	n, ok := parseNumber(value.Text)
	if !ok {
		return op == types.OpNumberNotEquals
	}
	switch op {
	case types.OpGreaterThan:
		return n > target
	case types.OpLessThan:
		return n < target
	case types.OpGreaterOrEqual:
		return n >= target
	case types.OpLessOrEqual:
		return n <= target
	case types.OpNumberEquals:
		return n == target
	default:
		return n != target
	}
}
