// File: internal/handler/auth/auth.go
package auth

import (
	"context"

	"library-api/internal/model"
	"library-api/internal/service"
)

// Service 由 service.AuthService 實作
type Service interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, access *service.CustomClaims, refreshToken string) error
	ChangePassword(ctx context.Context, u *model.User, current, next string) error
}

const tokenType = "Bearer"
