// internal/types/codec.go
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

/*
 * JSON decoding of filter trees and sort lists.
 *
 * The wire form is the loosely typed object the UI and saved templates use:
 *
 *   leaf:  {"id":"c1","field":"Status","operator":"equals","value":"Done"}
 *   group: {"id":"root","logic":"AND","conditions":[...]}
 *
 * The discriminant is the presence of "logic" or "conditions". An object
 * carrying both group keys and leaf keys is rejected (ErrInvalidNode) rather
 * than guessed. An object carrying neither decodes to a Leaf with no field,
 * which the evaluator and translator treat as no constraint.
 *
 * Decoding is the trust boundary for externally supplied trees, so group
 * depth is checked while descending (ErrGroupTooDeep) and the decoded tree is
 * passed through Validate before it is returned.
 */

// DecodeNode parses a JSON filter tree.
// Empty input or JSON null decodes to a nil node (no filter).
func DecodeNode(data []byte) (FilterNode, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	node, err := decodeNode(trimmed, 0)
	if err != nil {
		return nil, err
	}
	if err := Validate(node); err != nil {
		return nil, err
	}
	return node, nil
}

// decodeNode decodes one object; depth is the number of enclosing groups.
func decodeNode(data json.RawMessage, depth int) (FilterNode, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: expected JSON object", ErrInvalidNode)
	}

	var id string
	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &id); err != nil {
			return nil, fmt.Errorf("%w: id must be a string", ErrInvalidNode)
		}
	}

	_, hasLogic := fields["logic"]
	_, hasConditions := fields["conditions"]
	_, hasField := fields["field"]
	_, hasOperator := fields["operator"]

	if !hasLogic && !hasConditions {
		return decodeLeaf(id, fields)
	}
	if hasField || hasOperator {
		return nil, fmt.Errorf("%w: node %q has both group and leaf keys", ErrInvalidNode, id)
	}

	if depth+1 > MaxGroupDepth {
		return nil, ErrGroupTooDeep
	}

	var logic string
	if hasLogic {
		if err := json.Unmarshal(fields["logic"], &logic); err != nil {
			return nil, fmt.Errorf("%w: node %q", ErrInvalidLogic, id)
		}
	}

	var rawChildren []json.RawMessage
	if hasConditions {
		if err := json.Unmarshal(fields["conditions"], &rawChildren); err != nil {
			return nil, fmt.Errorf("%w: conditions of %q must be an array", ErrInvalidNode, id)
		}
	}

	group := Group{
		ID:         id,
		Logic:      Logic(strings.ToUpper(strings.TrimSpace(logic))),
		Conditions: make([]FilterNode, 0, len(rawChildren)),
	}
	for _, raw := range rawChildren {
		child, err := decodeNode(raw, depth+1)
		if err != nil {
			return nil, err
		}
		group.Conditions = append(group.Conditions, child)
	}
	return group, nil
}

// decodeLeaf builds a Leaf from its wire keys. Value accepts strings, numbers,
// booleans, and arrays of strings (joined with ValueDelimiter).
func decodeLeaf(id string, fields map[string]json.RawMessage) (FilterNode, error) {
	leaf := Leaf{ID: id}

	if raw, ok := fields["field"]; ok {
		if err := json.Unmarshal(raw, &leaf.Field); err != nil {
			return nil, fmt.Errorf("%w: field of %q must be a string", ErrInvalidNode, id)
		}
	}
	if raw, ok := fields["operator"]; ok {
		var op string
		if err := json.Unmarshal(raw, &op); err != nil {
			return nil, fmt.Errorf("%w: operator of %q must be a string", ErrInvalidNode, id)
		}
		leaf.Operator = Operator(op)
	}
	if raw, ok := fields["value"]; ok {
		value, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: value of %q: %v", ErrInvalidNode, id, err)
		}
		leaf.Value = value
	}

	return leaf, nil
}

// decodeValue normalizes a JSON operand to its string form.
func decodeValue(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return "", fmt.Errorf("list values must be strings")
		}
		return strings.Join(list, ValueDelimiter), nil
	case '{':
		return "", fmt.Errorf("object values are not supported")
	default:
		// numbers and booleans keep their literal text
		var v any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return "", err
		}
		return string(trimmed), nil
	}
}

// EncodeNode renders a filter tree in its JSON wire form.
// A nil node encodes as null.
func EncodeNode(node FilterNode) ([]byte, error) {
	if node == nil {
		return []byte("null"), nil
	}
	return json.Marshal(node)
}

// DecodeSorts parses a JSON sort list. An empty direction defaults to
// ascending; any other unknown direction is rejected.
func DecodeSorts(data []byte) ([]SortRule, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []SortRule{}, nil
	}

	var rules []SortRule
	if err := json.Unmarshal(trimmed, &rules); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSorts, err)
	}

	for i := range rules {
		dir := Direction(strings.ToLower(strings.TrimSpace(string(rules[i].Direction))))
		switch dir {
		case "":
			dir = Ascending
		case Ascending, Descending:
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, rules[i].Direction)
		}
		rules[i].Direction = dir
	}
	return rules, nil
}
