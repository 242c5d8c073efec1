package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")

	ErrInvalidToken        = fmt.Errorf("invalid or expired token")
	ErrInvalidRefreshToken = fmt.Errorf("invalid or expired refresh token")

	ErrChatNotFound    = fmt.Errorf("chat not found")
	ErrNotParticipant  = fmt.Errorf("user is not a participant of the chat")
	ErrSelfChat        = fmt.Errorf("cannot create a chat with yourself")
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	ErrUnavailable = fmt.Errorf("storage temporarily unavailable")
	ErrSuperseded  = fmt.Errorf("connection superseded by a newer one")
	ErrClosed      = fmt.Errorf("connection closed")
)
