package types

import "errors"

// Sentinel errors for recordfilter operations.
// The filter core itself never returns errors; these belong to the decode,
// validation, persistence and API boundaries.
var (
	// ErrInvalidNode indicates a JSON node that is both a leaf and a group, or not an object.
	ErrInvalidNode = errors.New("invalid filter node")

	// ErrInvalidLogic indicates a group logic other than AND or OR.
	ErrInvalidLogic = errors.New("group logic must be AND or OR")

	// ErrGroupTooDeep indicates a filter tree nested beyond MaxGroupDepth.
	ErrGroupTooDeep = errors.New("filter groups exceed maximum depth")

	// ErrTooManyValues indicates a multi-value operand beyond MaxMultiValues.
	ErrTooManyValues = errors.New("multi-value operand has too many values")

	// ErrInvalidSorts indicates a sort list that is not a JSON array of sort rules.
	ErrInvalidSorts = errors.New("invalid sort list")

	// ErrInvalidDirection indicates a sort direction other than ascending or descending.
	ErrInvalidDirection = errors.New("sort direction must be ascending or descending")

	// ErrFilterDegraded indicates strict translation found dropped or defaulted nodes.
	ErrFilterDegraded = errors.New("filter was not fully honored")

	// ErrTemplateNotFound indicates no saved template has the requested ID.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidTemplate indicates a template with an empty or oversized name.
	ErrInvalidTemplate = errors.New("invalid template")
)
