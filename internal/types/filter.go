// internal/types/filter.go
package types

/*
 * Domain types for filter expressions.
 *
 * Provides FilterNode, Leaf, Group, Operator, Logic, SortRule and Direction
 * used by internal/filter for evaluation and remote translation. These types
 * carry JSON tags for encoding; decoding lives in codec.go because the
 * leaf/group discriminant is structural and is applied at the template store
 * and API boundaries.
 *
 * Key types:
 *   - FilterNode: sealed sum type, implemented only by Leaf and Group
 *   - Leaf: single field/operator/value predicate
 *   - Group: AND/OR combinator over child nodes (including other groups)
 *   - SortRule: one entry of an order-significant sort list
 *
 * Leaf values are plain strings. Multi-value operands use ValueDelimiter to
 * separate alternatives ("Done|Blocked"); an empty string is a missing value.
 */

// ValueDelimiter separates alternatives in a multi-value operand.
const ValueDelimiter = "|"

// FilterNode is a node of a filter expression tree.
// Sealed: only Leaf and Group implement it, so a type switch over the two
// cases is exhaustive.
type FilterNode interface {
	NodeID() string
	filterNode()
}

// Leaf is a single predicate over one record field.
type Leaf struct {
	ID       string   `json:"id,omitempty"`
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value,omitempty"` // empty = missing (required unless Operator is an existence check)
}

// NodeID returns the leaf identifier.
func (l Leaf) NodeID() string { return l.ID }

func (Leaf) filterNode() {}

// Group combines child conditions with a boolean combinator.
// An empty group imposes no constraint.
type Group struct {
	ID         string       `json:"id,omitempty"`
	Logic      Logic        `json:"logic"`
	Conditions []FilterNode `json:"conditions"`
}

// NodeID returns the group identifier.
func (g Group) NodeID() string { return g.ID }

func (Group) filterNode() {}

// Logic is the combinator of a Group.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Operator is the user-facing comparison of a Leaf.
type Operator string

const (
	OpEquals          Operator = "equals"
	OpNotEquals       Operator = "not_equals"
	OpDoesNotEqual    Operator = "does_not_equal" // alias of OpNotEquals
	OpContains        Operator = "contains"
	OpDoesNotContain  Operator = "does_not_contain"
	OpStartsWith      Operator = "starts_with"
	OpEndsWith        Operator = "ends_with"
	OpIsEmpty         Operator = "is_empty"
	OpIsNotEmpty      Operator = "is_not_empty"
	OpIsIn            Operator = "is_in"     // alias of OpContains for lists
	OpIsNotIn         Operator = "is_not_in" // alias of OpDoesNotContain for lists
	OpGreaterThan     Operator = "greater_than"
	OpLessThan        Operator = "less_than"
	OpGreaterOrEqual  Operator = "greater_than_or_equal_to"
	OpLessOrEqual     Operator = "less_than_or_equal_to"
	OpNumberEquals    Operator = "number_equals"
	OpNumberNotEquals Operator = "number_does_not_equal"
)

// IsExistence reports whether the operator is an existence check, the only
// operators that need no value.
func (op Operator) IsExistence() bool {
	return op == OpIsEmpty || op == OpIsNotEmpty
}

// TakesList reports whether the operator accepts a delimited multi-value
// operand: the membership operators and their contains aliases.
func (op Operator) TakesList() bool {
	switch op {
	case OpContains, OpDoesNotContain, OpIsIn, OpIsNotIn:
		return true
	default:
		return false
	}
}

// Direction is the order of a SortRule.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// SortRule is one entry of an ordered sort list (primary first).
type SortRule struct {
	ID        string    `json:"id,omitempty"`
	Property  string    `json:"property"`
	Direction Direction `json:"direction"`
}
