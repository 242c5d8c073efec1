package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapToGRPCError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"invalid token", ErrInvalidToken, codes.Unauthenticated},
		{"wrapped not participant", fmt.Errorf("send: %w", ErrNotParticipant), codes.PermissionDenied},
		{"unknown chat", ErrChatNotFound, codes.NotFound},
		{"unknown user", ErrUserNotFound, codes.NotFound},
		{"self chat", ErrSelfChat, codes.InvalidArgument},
		{"duplicate user", ErrUserAlreadyExists, codes.AlreadyExists},
		{"storage", fmt.Errorf("append: %w", ErrUnavailable), codes.Unavailable},
		{"superseded", ErrSuperseded, codes.Aborted},
		{"canceled", context.Canceled, codes.Canceled},
		{"unknown", fmt.Errorf("boom"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			st, ok := status.FromError(MapToGRPCError(tt.err))
			req.True(ok)
			req.Equal(tt.code, st.Code())
		})
	}
}

func TestMapToGRPCError_KeepsExistingStatus(t *testing.T) {
	req := require.New(t)
	in := status.Error(codes.ResourceExhausted, "slow down")
	req.Equal(in, MapToGRPCError(in))
	req.NoError(MapToGRPCError(nil))
}
