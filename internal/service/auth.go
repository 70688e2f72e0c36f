// File: internal/service/auth.go
package service

import (
	"context"
	"strings"

	"library-api/internal/apperr"
	"library-api/internal/database"
	"library-api/internal/model"
)

// RegisterInput 註冊資料，Email 會轉小寫
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginResult 登入成功回傳的使用者與 token
type LoginResult struct {
	User   *model.User
	Tokens TokenPair
}

type AuthService struct {
	db      database.DB
	tokens  *TokenIssuer
	revoked RevocationStore
}

func NewAuthService(db database.DB, tokens *TokenIssuer, revoked RevocationStore) *AuthService {
	return &AuthService{db: db, tokens: tokens, revoked: revoked}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 建立一般使用者帳號，Email 重複回傳 Conflict
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	return registerUser(ctx, s.db, in, false)
}

func registerUser(ctx context.Context, db database.Querier, in RegisterInput, isAdmin bool) (*model.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := getUserByEmail(ctx, db, email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !isNotFound(err) {
		return nil, apperr.Internal(err)
	}

	hash, err := hashFor("password", in.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		IsAdmin:      isAdmin,
	}
	if err := createUser(ctx, db, u); err != nil {
		return nil, fromStore(err, "", "email already registered")
	}
	return u, nil
}

// Login 驗證帳密；帳號不存在與密碼錯誤回傳相同訊息
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := getUserByEmail(ctx, s.db, normalizeEmail(email))
	if err != nil {
		if !isNotFound(err) {
			return nil, apperr.Internal(err)
		}
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if err := ComparePassword(u.PasswordHash, password); err != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if !u.IsActive {
		return nil, apperr.Unauthorized("account is disabled")
	}

	at := now()
	if err := updateUserLastLogin(ctx, s.db, u.ID, at); err != nil {
		return nil, fromStore(err, "", "")
	}
	u.LastLogin = &at

	pair, err := s.tokens.IssuePair(*u)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &LoginResult{User: u, Tokens: pair}, nil
}

// Authenticate 解析 access token 並載入使用者；撤銷或停用一律回 Unauthorized
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*model.User, *CustomClaims, error) {
	claims, err := s.tokens.Parse(accessToken, AccessToken)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, nil, err
	}
	u, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	return u, claims, nil
}

// Refresh 以 refresh token 換新的 access token，不檢查密碼但會確認帳號仍啟用
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Parse(refreshToken, RefreshToken)
	if err != nil {
		return "", err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return "", err
	}
	u, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	access, err := s.tokens.IssueAccess(*u)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return access, nil
}

// Logout 撤銷目前的 access token；refreshToken 非空時一併撤銷
func (s *AuthService) Logout(ctx context.Context, access *CustomClaims, refreshToken string) error {
	var refresh *CustomClaims
	if refreshToken != "" {
		c, err := s.tokens.Parse(refreshToken, RefreshToken)
		if err != nil {
			return err
		}
		if c.UserID != access.UserID {
			return apperr.Forbidden("refresh token belongs to another user")
		}
		refresh = c
	}

	for _, c := range []*CustomClaims{access, refresh} {
		if c == nil {
			continue
		}
		if err := s.revoked.Revoke(ctx, c.ID, c.ExpiresAt.Time); err != nil {
			return apperr.Internal(err)
		}
	}
	return nil
}

// ChangePassword 驗證目前密碼後更新
func (s *AuthService) ChangePassword(ctx context.Context, u *model.User, current, next string) error {
	if err := ComparePassword(u.PasswordHash, current); err != nil {
		return apperr.Unauthorized("current password is incorrect")
	}
	hash, err := hashFor("new_password", next)
	if err != nil {
		return err
	}
	if err := updateUserPassword(ctx, s.db, u.ID, hash); err != nil {
		return fromStore(err, "user not found", "")
	}
	u.PasswordHash = hash
	return nil
}

func (s *AuthService) checkRevoked(ctx context.Context, c *CustomClaims) error {
	revoked, err := s.revoked.IsRevoked(ctx, c.ID)
	if err != nil {
		return apperr.Internal(err)
	}
	if revoked {
		return errInvalidToken
	}
	return nil
}

func (s *AuthService) activeUser(ctx context.Context, userID int) (*model.User, error) {
	u, err := getUserByID(ctx, s.db, userID)
	if err != nil {
		if !isNotFound(err) {
			return nil, apperr.Internal(err)
		}
		return nil, errInvalidToken
	}
	if !u.IsActive {
		return nil, apperr.Unauthorized("account is disabled")
	}
	return u, nil
}
