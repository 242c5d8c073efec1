package auth

import (
	"context"
	"strings"

	"github.com/konarjg/chat-server/contract"
	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
	pb "github.com/konarjg/chat-server/proto/chat"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Map of methods that do not require JWT authentication.
var publicMethods = map[string]struct{}{
	pb.AuthService_Register_FullMethodName: {},
	pb.AuthService_Login_FullMethodName:    {},
	pb.AuthService_Refresh_FullMethodName:  {},
	pb.AuthService_Logout_FullMethodName:   {},
	"/grpc.health.v1.Health/Check":         {},
	"/grpc.health.v1.Health/List":          {},
}

type contextKey string

const UserIDKey contextKey = "user_id"

// AuthInterceptor validates the bearer token of protected unary calls and
// injects the caller's id into the context.
func AuthInterceptor(sessions contract.ISessionStore) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any,
		info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if isPublicMethod(info.FullMethod) {
			return handler(ctx, req)
		}

		token, err := BearerToken(ctx)
		if err != nil {
			return nil, err
		}
		userID, err := sessions.Validate(token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, errors.ErrInvalidToken.Error())
		}
		return handler(WithUserID(ctx, userID), req)
	}
}

// BearerToken extracts the token of the "authorization: Bearer <token>" metadata.
func BearerToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "metadata is missing")
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", status.Error(codes.Unauthenticated, "authorization token is missing")
	}
	token, found := strings.CutPrefix(values[0], "Bearer ")
	if !found || token == "" {
		return "", status.Error(codes.Unauthenticated, "authorization header must use the Bearer scheme")
	}
	return token, nil
}

func WithUserID(ctx context.Context, id domain.UserID) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// UserIDFromContext returns the id injected by AuthInterceptor.
func UserIDFromContext(ctx context.Context) (domain.UserID, bool) {
	id, ok := ctx.Value(UserIDKey).(domain.UserID)
	return id, ok
}

func isPublicMethod(method string) bool {
	_, ok := publicMethods[method]
	return ok
}
