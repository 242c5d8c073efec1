package services

import (
	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/repositories"
)

type IUserService interface {
	GetUsers(page domain.Page) ([]domain.User, error)
}

type UserService struct {
	users       repositories.IUserRepository
	maxPageSize int
}

func NewUserService(users repositories.IUserRepository, maxPageSize int) *UserService {
	return &UserService{users: users, maxPageSize: maxPageSize}
}

func (s *UserService) GetUsers(page domain.Page) ([]domain.User, error) {
	return s.users.ListUsers(clampPage(page, s.maxPageSize))
}

// clampPage bounds the page size to (0, max]. A non-positive size means max.
func clampPage(page domain.Page, max int) domain.Page {
	if page.Size <= 0 || page.Size > max {
		page.Size = max
	}
	return page
}
