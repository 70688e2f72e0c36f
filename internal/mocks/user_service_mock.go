package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"library-api/internal/model"
	"library-api/internal/service"
)

type UserService struct{ mock.Mock }

func (m *UserService) GetUser(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserService) UpdateProfile(ctx context.Context, id int, p service.ProfilePatch) (*model.User, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserService) ListUsers(ctx context.Context, term string, page model.PageRequest) (model.Page[model.User], error) {
	args := m.Called(ctx, term, page)
	return args.Get(0).(model.Page[model.User]), args.Error(1)
}

func (m *UserService) SetRole(ctx context.Context, actorID, targetID int, isAdmin bool) (*model.User, error) {
	args := m.Called(ctx, actorID, targetID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserService) SetStatus(ctx context.Context, actorID, targetID int, isActive bool) (*model.User, error) {
	args := m.Called(ctx, actorID, targetID, isActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserService) DeleteUser(ctx context.Context, actorID, targetID int) error {
	return m.Called(ctx, actorID, targetID).Error(0)
}
