//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/konarjg/chat-server/auth"
	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
	"github.com/konarjg/chat-server/repositories"
)

type IAuthService interface {
	Register(name, password, publicKey string) (Tokens, error)
	Login(name, password string) (Tokens, error)
	Refresh(refreshToken string) (Tokens, error)
	Logout(refreshToken string) error
}

// ITokenIssuer signs access tokens.
type ITokenIssuer interface {
	GenerateToken(user domain.User) (string, error)
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	users           repositories.IUserRepository
	refreshTokens   repositories.IRefreshTokenRepository
	issuer          ITokenIssuer
	params          auth.Params
	refreshDuration time.Duration
	log             *slog.Logger
}

func NewAuthService(
	users repositories.IUserRepository,
	refreshTokens repositories.IRefreshTokenRepository,
	issuer ITokenIssuer,
	params auth.Params,
	refreshDuration time.Duration,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		users:           users,
		refreshTokens:   refreshTokens,
		issuer:          issuer,
		params:          params,
		refreshDuration: refreshDuration,
		log:             log,
	}
}

func (s *AuthService) Register(name, password, publicKey string) (Tokens, error) {
	// Validation runs before any expensive cryptographic operation.
	if err := auth.ValidateRegister(auth.RegisterRequest{Name: name, Password: password, PublicKey: publicKey}); err != nil {
		return Tokens{}, err
	}

	hashedPassword, err := auth.HashPassword(password, s.params)
	if err != nil {
		return Tokens{}, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.users.CreateUser(name, hashedPassword, publicKey)
	if err != nil {
		return Tokens{}, err
	}
	s.log.Info("User registered", "user_id", user.ID, "name", user.Name)
	return s.authenticate(user)
}

func (s *AuthService) Login(name, password string) (Tokens, error) {
	user, err := s.users.GetUserByName(name)
	if err != nil {
		return Tokens{}, err
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return Tokens{}, errors.ErrInvalidCredentials
	}
	return s.authenticate(user)
}

// Refresh revokes the presented token and issues a new pair. A token can be used once.
func (s *AuthService) Refresh(refreshToken string) (Tokens, error) {
	previous, err := s.refreshTokens.RevokeRefreshToken(refreshToken, time.Now())
	if err != nil {
		return Tokens{}, err
	}
	user, err := s.users.GetUserByID(previous.UserID)
	if stderrors.Is(err, errors.ErrUserNotFound) {
		return Tokens{}, errors.ErrInvalidRefreshToken
	}
	if err != nil {
		return Tokens{}, err
	}
	return s.authenticate(user)
}

func (s *AuthService) Logout(refreshToken string) error {
	previous, err := s.refreshTokens.RevokeRefreshToken(refreshToken, time.Now())
	if err != nil {
		return err
	}
	s.log.Info("User logged out", "user_id", previous.UserID)
	return nil
}

func (s *AuthService) authenticate(user domain.User) (Tokens, error) {
	accessToken, err := s.issuer.GenerateToken(user)
	if err != nil {
		return Tokens{}, errors.ErrTokenGeneration
	}
	refresh, err := auth.NewRefreshToken(user.ID, s.refreshDuration)
	if err != nil {
		return Tokens{}, fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	if err := s.refreshTokens.StoreRefreshToken(refresh); err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: accessToken, RefreshToken: refresh.Token}, nil
}
