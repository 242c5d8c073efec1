package services_test

import (
	"testing"

	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/mocks"
	"github.com/konarjg/chat-server/services"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestUserService_GetUsers(t *testing.T) {
	lastID := int64(9)

	tests := []struct {
		name string
		page domain.Page
		want domain.Page
	}{
		{name: "should default an empty page to the maximum", page: domain.Page{}, want: domain.Page{Size: 20}},
		{name: "should clamp an oversized page", page: domain.Page{Size: 500}, want: domain.Page{Size: 20}},
		{name: "should keep a valid page and its cursor", page: domain.Page{Size: 5, LastID: &lastID}, want: domain.Page{Size: 5, LastID: &lastID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			users := mocks.NewMockIUserRepository(gomock.NewController(t))
			users.EXPECT().ListUsers(tt.want).Return([]domain.User{{ID: 1, Name: "alice"}}, nil)

			got, err := services.NewUserService(users, 20).GetUsers(tt.page)

			req.NoError(err)
			req.Len(got, 1)
		})
	}
}
