package types

import (
	"fmt"
	"strings"
)

// Validate checks structural limits of a filter tree built outside this
// process: group depth, group logic, and multi-value operand size.
// Unusable leaves (missing field, operator or value) are not errors; they are
// excluded by the translator and ignored by the evaluator.
func Validate(node FilterNode) error {
	return validateNode(node, 0)
}

// validateNode walks node; depth is the number of enclosing groups.
func validateNode(node FilterNode, depth int) error {
	switch n := node.(type) {
	case nil:
		return nil
	case Leaf:
		return validateLeaf(n)
	case *Leaf:
		if n == nil {
			return nil
		}
		return validateLeaf(*n)
	case Group:
		return validateGroup(n, depth)
	case *Group:
		if n == nil {
			return nil
		}
		return validateGroup(*n, depth)
	default:
		return fmt.Errorf("%w: unknown node type %T", ErrInvalidNode, node)
	}
}

// validateGroup enforces MaxGroupDepth and a known logic, then recurses.
func validateGroup(g Group, depth int) error {
	if depth+1 > MaxGroupDepth {
		return ErrGroupTooDeep
	}
	if g.Logic != LogicAnd && g.Logic != LogicOr {
		return fmt.Errorf("%w: node %q has logic %q", ErrInvalidLogic, g.ID, g.Logic)
	}
	for _, child := range g.Conditions {
		if err := validateNode(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// validateLeaf enforces MaxMultiValues on list operands. Other operators
// take the value as literal text, so a "|" there is not a delimiter.
func validateLeaf(l Leaf) error {
	if l.Value == "" || !l.Operator.TakesList() {
		return nil
	}
	if n := strings.Count(l.Value, ValueDelimiter) + 1; n > MaxMultiValues {
		return fmt.Errorf("%w: node %q has %d values (max %d)", ErrTooManyValues, l.ID, n, MaxMultiValues)
	}
	return nil
}
