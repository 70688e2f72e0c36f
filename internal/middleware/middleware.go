package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"library-api/internal/apperr"
	"library-api/internal/model"
	"library-api/internal/service"
)

// TokenAuthenticator 由 service.AuthService 實作
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*model.User, *service.CustomClaims, error)
}

type Auth struct {
	tokens TokenAuthenticator
}

func NewAuth(tokens TokenAuthenticator) *Auth {
	return &Auth{tokens: tokens}
}

func extractBearer(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", apperr.Unauthorized("missing token")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperr.Unauthorized("invalid authorization header format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// Identity 已驗證的呼叫者；User 為資料庫中的最新狀態
type Identity struct {
	User   *model.User
	Claims *service.CustomClaims
}

func (id Identity) UserID() int   { return id.User.ID }
func (id Identity) IsAdmin() bool { return id.User.IsAdmin }

// IdentityHandlerFunc 需要登入的 handler，身分由 middleware 明確傳入
type IdentityHandlerFunc func(c echo.Context, id Identity) error

func (a *Auth) resolve(c echo.Context) (Identity, error) {
	token, err := extractBearer(c)
	if err != nil {
		return Identity{}, err
	}
	u, claims, err := a.tokens.Authenticate(c.Request().Context(), token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{User: u, Claims: claims}, nil
}

// Authenticated 驗證 access token 與帳號狀態後呼叫 h
func (a *Auth) Authenticated(h IdentityHandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := a.resolve(c)
		if err != nil {
			return err
		}
		return h(c, id)
	}
}

// Admin 以資料庫中目前的角色判斷，不看 token 內的 is_admin
func (a *Auth) Admin(h IdentityHandlerFunc) echo.HandlerFunc {
	return a.Authenticated(func(c echo.Context, id Identity) error {
		if !id.IsAdmin() {
			return apperr.Forbidden("admin privileges required")
		}
		return h(c, id)
	})
}
