package types

import (
	"github.com/google/uuid"
)

// NewNodeID generates a UUIDv7 filter node identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewNodeID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// TemplateID represents a UUIDv7 saved template identifier.
type TemplateID string

// NewTemplateID generates a UUIDv7 template identifier.
// Time-ordered IDs keep newly saved templates clustered in the primary key index.
func NewTemplateID() TemplateID {
	return TemplateID(uuid.Must(uuid.NewV7()).String())
}

// ParseTemplateID validates and converts a string to TemplateID.
// Rejects malformed UUIDs to prevent invalid IDs from reaching the store.
func ParseTemplateID(s string) (TemplateID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return TemplateID(s), nil
}

// AssignNodeIDs returns a copy of node in which every leaf and group without
// an ID has a fresh NewNodeID. Existing IDs are kept. Pointer nodes are
// copied as values; nil stays nil.
func AssignNodeIDs(node FilterNode) FilterNode {
	switch n := node.(type) {
	case Leaf:
		if n.ID == "" {
			n.ID = NewNodeID()
		}
		return n
	case *Leaf:
		if n == nil {
			return nil
		}
		return AssignNodeIDs(*n)
	case Group:
		if n.ID == "" {
			n.ID = NewNodeID()
		}
		children := make([]FilterNode, len(n.Conditions))
		for i, child := range n.Conditions {
			children[i] = AssignNodeIDs(child)
		}
		n.Conditions = children
		return n
	case *Group:
		if n == nil {
			return nil
		}
		return AssignNodeIDs(*n)
	default:
		return node
	}
}
