// internal/filter/coercion.go
package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

/*
 * Record value coercion for local evaluation.
 *
 * The local evaluator compares strings case-insensitively, so every record
 * value is rendered to lower-cased text before comparison:
 *
 *   - nil / missing: "" (IsNull)
 *   - string: as is
 *   - numbers: shortest decimal form (strconv 'f', -1)
 *   - bool: "true" / "false"
 *   - slices: elements rendered one by one into Items, Text joined with ","
 *
 * Falsy marks scalars that count as empty for is_empty / is_not_empty even
 * though they render to non-empty text: false, numeric zero and NaN.
 *
 * Items is kept for multi-choice values so membership operators (is_in,
 * is_not_in) test each tag instead of the joined text.
 */

// CoercionResult holds a record value rendered for comparison.
type CoercionResult struct {
	Text   string   // lower-cased rendering of the whole value
	Items  []string // lower-cased elements when the value is a slice
	IsList bool     // value was a slice
	IsNull bool     // value was nil or absent
	Falsy  bool     // false, 0 or NaN
}

// Coerce renders a record value to lower-cased comparison text.
func Coerce(value any) CoercionResult {
	switch v := value.(type) {
	case nil:
		return CoercionResult{IsNull: true}
	case []string:
		items := make([]string, len(v))
		for i, s := range v {
			items[i] = strings.ToLower(s)
		}
		return listResult(items)
	case []any:
		items := make([]string, len(v))
		for i, elem := range v {
			items[i] = strings.ToLower(renderScalar(elem))
		}
		return listResult(items)
	default:
		return CoercionResult{Text: strings.ToLower(renderScalar(v)), Falsy: isFalsy(v)}
	}
}

// isFalsy reports whether a scalar is false, zero or NaN.
func isFalsy(value any) bool {
	switch v := value.(type) {
	case bool:
		return !v
	case float64:
		return v == 0 || math.IsNaN(v)
	case float32:
		return v == 0 || math.IsNaN(float64(v))
	case int:
		return v == 0
	case int64:
		return v == 0
	case int32:
		return v == 0
	default:
		return false
	}
}

// listResult joins slice elements into the Text rendering.
func listResult(items []string) CoercionResult {
	return CoercionResult{
		Text:   strings.Join(items, ","),
		Items:  items,
		IsList: true,
	}
}

// renderScalar converts a scalar to its text form.
func renderScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// parseNumber parses a numeric operand or record value.
// NaN and infinities are rejected because the remote grammar cannot carry them.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
