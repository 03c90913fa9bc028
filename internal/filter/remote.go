// internal/filter/remote.go
package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

/*
 * Remote filter grammar.
 *
 * The record service's query endpoint accepts a recursive filter with
 * exactly three shapes:
 *
 *   {"property":"Status","select":{"equals":"Done"}}   PropertyFilter
 *   {"and":[...]}                                     AndFilter
 *   {"or":[...]}                                      OrFilter
 *
 * A property filter is keyed by the property's remote type and carries one
 * primitive condition native to that type. There is no multi-value "one of"
 * primitive; the translator decomposes lists into and/or combinators.
 *
 * RemoteFilter is sealed with a marker method so the three shapes can be
 * switched on exhaustively. JSON encoding is hand-written for
 * PropertyFilter because the type key is dynamic and key order must be
 * stable (property first) for byte-identical request bodies.
 */

// RemoteFilter is one node of the remote filter grammar.
type RemoteFilter interface {
	remoteFilter()
}

// Remote primitive condition operators.
const (
	RemoteEquals         = "equals"
	RemoteDoesNotEqual   = "does_not_equal"
	RemoteContains       = "contains"
	RemoteDoesNotContain = "does_not_contain"
	RemoteStartsWith     = "starts_with"
	RemoteEndsWith       = "ends_with"
	RemoteIsEmpty        = "is_empty"
	RemoteIsNotEmpty     = "is_not_empty"
	RemoteGreaterThan    = "greater_than"
	RemoteLessThan       = "less_than"
	RemoteGreaterOrEqual = "greater_than_or_equal_to"
	RemoteLessOrEqual    = "less_than_or_equal_to"
)

// Remote property type keys.
const (
	KeyTitle       = "title"
	KeyRichText    = "rich_text"
	KeySelect      = "select"
	KeyStatus      = "status"
	KeyMultiSelect = "multi_select"
	KeyNumber      = "number"
)

// Condition is the inner primitive of a property filter, e.g. {"equals":"Done"}.
// Value is a string, a float64, or true for existence checks.
type Condition struct {
	Operator string
	Value    any
}

// PropertyFilter is a single-property primitive predicate.
type PropertyFilter struct {
	Property  string
	Type      string // remote type key: select, status, multi_select, number, title, rich_text
	Condition Condition
}

func (PropertyFilter) remoteFilter() {}

// MarshalJSON renders {"property":<name>,<type>:{<op>:<value>}}.
func (f PropertyFilter) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"property":`)
	if err := writeJSON(&buf, f.Property); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeJSON(&buf, f.Type); err != nil {
		return nil, err
	}
	buf.WriteString(`:{`)
	if err := writeJSON(&buf, f.Condition.Operator); err != nil {
		return nil, err
	}
	buf.WriteByte(':')
	if err := writeJSON(&buf, f.Condition.Value); err != nil {
		return nil, fmt.Errorf("property %q: %w", f.Property, err)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// AndFilter requires every child filter.
type AndFilter struct {
	Filters []RemoteFilter `json:"and"`
}

func (AndFilter) remoteFilter() {}

// OrFilter requires at least one child filter.
type OrFilter struct {
	Filters []RemoteFilter `json:"or"`
}

func (OrFilter) remoteFilter() {}

// Children returns the operands of a combinator, or nil for a primitive.
func Children(f RemoteFilter) []RemoteFilter {
	switch n := f.(type) {
	case AndFilter:
		return n.Filters
	case *AndFilter:
		return n.Filters
	case OrFilter:
		return n.Filters
	case *OrFilter:
		return n.Filters
	default:
		return nil
	}
}

// writeJSON appends the compact JSON encoding of v without a trailing newline.
func writeJSON(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// primitive builds a property filter.
func primitive(property, key, op string, value any) PropertyFilter {
	return PropertyFilter{
		Property:  property,
		Type:      key,
		Condition: Condition{Operator: op, Value: value},
	}
}
