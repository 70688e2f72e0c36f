package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"library-api/internal/model"
	"library-api/internal/service"
)

type AuthService struct{ mock.Mock }

func (m *AuthService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *AuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *AuthService) Logout(ctx context.Context, access *service.CustomClaims, refreshToken string) error {
	return m.Called(ctx, access, refreshToken).Error(0)
}

func (m *AuthService) ChangePassword(ctx context.Context, u *model.User, current, next string) error {
	return m.Called(ctx, u, current, next).Error(0)
}

func (m *AuthService) Authenticate(ctx context.Context, accessToken string) (*model.User, *service.CustomClaims, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.User), args.Get(1).(*service.CustomClaims), args.Error(2)
}
