package errors

import (
	"context"
	stderrors "errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MapToGRPCError translates service errors into gRPC status errors.
// Errors that already carry a status are returned unchanged.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(Code(err), err.Error())
}

// Code returns the gRPC code matching err.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case stderrors.Is(err, ErrInvalidToken),
		stderrors.Is(err, ErrInvalidRefreshToken),
		stderrors.Is(err, ErrInvalidCredentials):
		return codes.Unauthenticated
	case stderrors.Is(err, ErrNotParticipant):
		return codes.PermissionDenied
	case stderrors.Is(err, ErrUserNotFound),
		stderrors.Is(err, ErrChatNotFound):
		return codes.NotFound
	case stderrors.Is(err, ErrSelfChat),
		stderrors.Is(err, ErrInvalidArgument),
		stderrors.Is(err, ErrInvalidPassword):
		return codes.InvalidArgument
	case stderrors.Is(err, ErrUserAlreadyExists):
		return codes.AlreadyExists
	case stderrors.Is(err, ErrUnavailable):
		return codes.Unavailable
	case stderrors.Is(err, ErrSuperseded):
		return codes.Aborted
	case stderrors.Is(err, ErrClosed),
		stderrors.Is(err, context.Canceled):
		return codes.Canceled
	case stderrors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	return codes.Internal
}
