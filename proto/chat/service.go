package chat

import (
	"context"

	"github.com/konarjg/chat-server/proto/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	AuthService_Register_FullMethodName = "/chat.AuthService/Register"
	AuthService_Login_FullMethodName    = "/chat.AuthService/Login"
	AuthService_Refresh_FullMethodName  = "/chat.AuthService/Refresh"
	AuthService_Logout_FullMethodName   = "/chat.AuthService/Logout"

	UserService_GetUsers_FullMethodName = "/chat.UserService/GetUsers"

	ChatService_CreateChat_FullMethodName        = "/chat.ChatService/CreateChat"
	ChatService_GetChats_FullMethodName          = "/chat.ChatService/GetChats"
	ChatService_GetMessageHistory_FullMethodName = "/chat.ChatService/GetMessageHistory"
	ChatService_ChatStream_FullMethodName        = "/chat.ChatService/ChatStream"
)

type (
	ChatStreamServer = grpc.BidiStreamingServer[ClientToServerMessage, ServerToClientMessage]
	ChatStreamClient = grpc.BidiStreamingClient[ClientToServerMessage, ServerToClientMessage]
)

// unary adapts a typed method into a grpc.MethodHandler.
func unary[S any, Req any, Res any, PReq interface {
	*Req
	wire.Message
}](fullMethod string, call func(S, context.Context, *Req) (*Res, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	Refresh(context.Context, *RefreshRequest) (*AuthResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
}

type UnimplementedAuthServiceServer struct{}

func (UnimplementedAuthServiceServer) Register(context.Context, *RegisterRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedAuthServiceServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedAuthServiceServer) Refresh(context.Context, *RefreshRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Refresh not implemented")
}
func (UnimplementedAuthServiceServer) Logout(context.Context, *LogoutRequest) (*LogoutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}

var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "chat.AuthService",
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(AuthService_Register_FullMethodName, AuthServiceServer.Register)},
		{MethodName: "Login", Handler: unary(AuthService_Login_FullMethodName, AuthServiceServer.Login)},
		{MethodName: "Refresh", Handler: unary(AuthService_Refresh_FullMethodName, AuthServiceServer.Refresh)},
		{MethodName: "Logout", Handler: unary(AuthService_Logout_FullMethodName, AuthServiceServer.Logout)},
	},
	Metadata: "chat.proto",
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

type UserServiceServer interface {
	GetUsers(context.Context, *GetUsersRequest) (*GetUsersResponse, error)
}

type UnimplementedUserServiceServer struct{}

func (UnimplementedUserServiceServer) GetUsers(context.Context, *GetUsersRequest) (*GetUsersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUsers not implemented")
}

var UserService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "chat.UserService",
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetUsers", Handler: unary(UserService_GetUsers_FullMethodName, UserServiceServer.GetUsers)},
	},
	Metadata: "chat.proto",
}

func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&UserService_ServiceDesc, srv)
}

type ChatServiceServer interface {
	CreateChat(context.Context, *CreateChatRequest) (*Chat, error)
	GetChats(context.Context, *GetChatsRequest) (*GetChatsResponse, error)
	GetMessageHistory(context.Context, *GetMessageHistoryRequest) (*GetMessageHistoryResponse, error)
	ChatStream(ChatStreamServer) error
}

type UnimplementedChatServiceServer struct{}

func (UnimplementedChatServiceServer) CreateChat(context.Context, *CreateChatRequest) (*Chat, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateChat not implemented")
}
func (UnimplementedChatServiceServer) GetChats(context.Context, *GetChatsRequest) (*GetChatsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetChats not implemented")
}
func (UnimplementedChatServiceServer) GetMessageHistory(context.Context, *GetMessageHistoryRequest) (*GetMessageHistoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMessageHistory not implemented")
}
func (UnimplementedChatServiceServer) ChatStream(ChatStreamServer) error {
	return status.Error(codes.Unimplemented, "method ChatStream not implemented")
}

func chatStreamHandler(srv any, stream grpc.ServerStream) error {
	return srv.(ChatServiceServer).ChatStream(&grpc.GenericServerStream[ClientToServerMessage, ServerToClientMessage]{ServerStream: stream})
}

var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "chat.ChatService",
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateChat", Handler: unary(ChatService_CreateChat_FullMethodName, ChatServiceServer.CreateChat)},
		{MethodName: "GetChats", Handler: unary(ChatService_GetChats_FullMethodName, ChatServiceServer.GetChats)},
		{MethodName: "GetMessageHistory", Handler: unary(ChatService_GetMessageHistory_FullMethodName, ChatServiceServer.GetMessageHistory)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "ChatStream",
			Handler:       chatStreamHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "chat.proto",
}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}
