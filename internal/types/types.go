// Package types provides domain models shared across recordfilter components.
//
// Zero-dependency design: filter.go, types.go, codec.go and errors.go use only
// the standard library so the core stays importable anywhere. ID utilities in
// ids.go import uuid but are isolated from the tree types.
//
// Filter trees, schemas and records are plain values. Nothing in this package
// holds mutable shared state.
package types

// PropertyType is the declared data kind of a field, named after the remote
// record service's property types.
type PropertyType string

const (
	PropertyTitle       PropertyType = "title"
	PropertyRichText    PropertyType = "rich_text"
	PropertyText        PropertyType = "text" // treated as rich_text
	PropertySelect      PropertyType = "select"
	PropertyStatus      PropertyType = "status"
	PropertyMultiSelect PropertyType = "multi_select"
	PropertyNumber      PropertyType = "number"
	PropertyDate        PropertyType = "date"
	PropertyCheckbox    PropertyType = "checkbox"
)

// IsSingleChoice reports exact-match enumerations (select, status).
func (p PropertyType) IsSingleChoice() bool {
	return p == PropertySelect || p == PropertyStatus
}

// IsMultiChoice reports fields holding a set of tags.
func (p PropertyType) IsMultiChoice() bool {
	return p == PropertyMultiSelect
}

// IsNumeric reports number fields.
func (p PropertyType) IsNumeric() bool {
	return p == PropertyNumber
}

// Schema maps field names to their declared property type.
// Supplied by the field schema registry; the core never infers types.
type Schema map[string]PropertyType

// TypeOf returns the declared type of field and whether it was declared.
// Undeclared fields default to PropertyText.
func (s Schema) TypeOf(field string) (PropertyType, bool) {
	if t, ok := s[field]; ok && t != "" {
		return t, true
	}
	return PropertyText, false
}

// Record is one already-loaded record: field name to value.
// Values are strings, numbers, booleans, nil, or slices for multi-choice fields.
type Record map[string]any

// Resource limits enforced at the decode boundary for externally supplied trees.
const (
	// MaxGroupDepth bounds group nesting so recursive evaluation and
	// translation cannot exhaust the stack. UI-built trees stay single-digit.
	MaxGroupDepth = 16

	// MaxMultiValues bounds the alternatives of one multi-value operand.
	// Each alternative becomes one remote primitive after decomposition.
	MaxMultiValues = 64

	// MaxTemplateNameLength bounds saved template names.
	MaxTemplateNameLength = 200
)
