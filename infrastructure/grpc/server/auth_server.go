package server

import (
	"context"

	"github.com/konarjg/chat-server/errors"
	pb "github.com/konarjg/chat-server/proto/chat"
	"github.com/konarjg/chat-server/services"
)

type AuthServer struct {
	pb.UnimplementedAuthServiceServer
	authService services.IAuthService
}

// NewAuthServer creates a new gRPC server for authentication.
func NewAuthServer(authService services.IAuthService) *AuthServer {
	return &AuthServer{authService: authService}
}

// Register validates the input, stores the user and issues a token pair.
func (s *AuthServer) Register(_ context.Context, in *pb.RegisterRequest) (*pb.AuthResponse, error) {
	tokens, err := s.authService.Register(in.Name, in.Password, in.PublicKey)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toAuthResponse(tokens), nil
}

// Login verifies credentials and returns a token pair.
func (s *AuthServer) Login(_ context.Context, in *pb.LoginRequest) (*pb.AuthResponse, error) {
	tokens, err := s.authService.Login(in.Name, in.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toAuthResponse(tokens), nil
}

func (s *AuthServer) Refresh(_ context.Context, in *pb.RefreshRequest) (*pb.AuthResponse, error) {
	tokens, err := s.authService.Refresh(in.RefreshToken)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toAuthResponse(tokens), nil
}

func (s *AuthServer) Logout(_ context.Context, in *pb.LogoutRequest) (*pb.LogoutResponse, error) {
	if err := s.authService.Logout(in.RefreshToken); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.LogoutResponse{Message: "logged out"}, nil
}

func toAuthResponse(tokens services.Tokens) *pb.AuthResponse {
	return &pb.AuthResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}
}
