// File: internal/handler/users/users.go
package users

import (
	"context"

	"library-api/internal/model"
	"library-api/internal/service"
)

// Service 由 service.UserService 實作
type Service interface {
	GetUser(ctx context.Context, id int) (*model.User, error)
	UpdateProfile(ctx context.Context, id int, p service.ProfilePatch) (*model.User, error)
	ListUsers(ctx context.Context, term string, page model.PageRequest) (model.Page[model.User], error)
	SetRole(ctx context.Context, actorID, targetID int, isAdmin bool) (*model.User, error)
	SetStatus(ctx context.Context, actorID, targetID int, isActive bool) (*model.User, error)
	DeleteUser(ctx context.Context, actorID, targetID int) error
}
