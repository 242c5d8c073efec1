package server

import (
	"context"

	"github.com/konarjg/chat-server/errors"
	"github.com/konarjg/chat-server/mapper"
	pb "github.com/konarjg/chat-server/proto/chat"
	"github.com/konarjg/chat-server/services"
)

type UserServer struct {
	pb.UnimplementedUserServiceServer
	userService services.IUserService
}

func NewUserServer(userService services.IUserService) *UserServer {
	return &UserServer{userService: userService}
}

// GetUsers lists users newest first. Public keys are included so callers can
// wrap chat keys for them.
func (s *UserServer) GetUsers(ctx context.Context, in *pb.GetUsersRequest) (*pb.GetUsersResponse, error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}
	users, err := s.userService.GetUsers(mapper.ToPage(in.PageSize, in.LastId))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.GetUsersResponse{Users: mapper.ToPbUsers(users)}, nil
}
