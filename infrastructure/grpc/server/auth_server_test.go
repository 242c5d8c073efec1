package server

import (
	"context"
	"testing"

	"github.com/konarjg/chat-server/errors"
	"github.com/konarjg/chat-server/mocks"
	pb "github.com/konarjg/chat-server/proto/chat"
	"github.com/konarjg/chat-server/services"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestAuthServer(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the token pair on register", func(t *testing.T) {
		req := require.New(t)
		authService := mocks.NewMockIAuthService(gomock.NewController(t))
		authService.EXPECT().Register("alice", "ComplexPass123!", "pk").
			Return(services.Tokens{AccessToken: "access", RefreshToken: "refresh"}, nil)

		res, err := NewAuthServer(authService).Register(ctx, &pb.RegisterRequest{Name: "alice", Password: "ComplexPass123!", PublicKey: "pk"})

		req.NoError(err)
		req.Equal("access", res.AccessToken)
		req.Equal("refresh", res.RefreshToken)
	})

	t.Run("should map a duplicate name to AlreadyExists", func(t *testing.T) {
		req := require.New(t)
		authService := mocks.NewMockIAuthService(gomock.NewController(t))
		authService.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(services.Tokens{}, errors.ErrUserAlreadyExists)

		_, err := NewAuthServer(authService).Register(ctx, &pb.RegisterRequest{Name: "alice"})

		req.Equal(codes.AlreadyExists, status.Code(err))
	})

	t.Run("should map a wrong password to Unauthenticated", func(t *testing.T) {
		req := require.New(t)
		authService := mocks.NewMockIAuthService(gomock.NewController(t))
		authService.EXPECT().Login("alice", "nope").Return(services.Tokens{}, errors.ErrInvalidCredentials)

		_, err := NewAuthServer(authService).Login(ctx, &pb.LoginRequest{Name: "alice", Password: "nope"})

		req.Equal(codes.Unauthenticated, status.Code(err))
	})

	t.Run("should map an unknown user to NotFound", func(t *testing.T) {
		req := require.New(t)
		authService := mocks.NewMockIAuthService(gomock.NewController(t))
		authService.EXPECT().Login("ghost", gomock.Any()).Return(services.Tokens{}, errors.ErrUserNotFound)

		_, err := NewAuthServer(authService).Login(ctx, &pb.LoginRequest{Name: "ghost", Password: "x"})

		req.Equal(codes.NotFound, status.Code(err))
	})

	t.Run("should refuse a revoked refresh token", func(t *testing.T) {
		req := require.New(t)
		authService := mocks.NewMockIAuthService(gomock.NewController(t))
		authService.EXPECT().Refresh("old").Return(services.Tokens{}, errors.ErrInvalidRefreshToken)

		_, err := NewAuthServer(authService).Refresh(ctx, &pb.RefreshRequest{RefreshToken: "old"})

		req.Equal(codes.Unauthenticated, status.Code(err))
	})

	t.Run("should log out", func(t *testing.T) {
		req := require.New(t)
		authService := mocks.NewMockIAuthService(gomock.NewController(t))
		authService.EXPECT().Logout("current").Return(nil)

		res, err := NewAuthServer(authService).Logout(ctx, &pb.LogoutRequest{RefreshToken: "current"})

		req.NoError(err)
		req.NotEmpty(res.Message)
	})
}
