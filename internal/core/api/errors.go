package api

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/solatis/recordfilter/internal/types"
)

// Error mapping:
// Decode and validation errors map to INVALID_ARGUMENT.
// Missing templates map to NOT_FOUND.
// Strict translation with dropped nodes maps to FAILED_PRECONDITION.
// Context timeouts map to DEADLINE_EXCEEDED.
// Database and schema registry errors map to UNAVAILABLE.

var errStoreDisabled = status.Error(codes.FailedPrecondition, "template store not configured (set database.url)")

// toStatus converts a domain error into a gRPC status error.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, types.ErrTemplateNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, types.ErrInvalidNode),
		errors.Is(err, types.ErrInvalidLogic),
		errors.Is(err, types.ErrGroupTooDeep),
		errors.Is(err, types.ErrTooManyValues),
		errors.Is(err, types.ErrInvalidSorts),
		errors.Is(err, types.ErrInvalidDirection),
		errors.Is(err, types.ErrInvalidTemplate):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, types.ErrFilterDegraded):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Unavailable, err.Error())
	}
}
