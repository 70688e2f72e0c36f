// File: internal/service/tokens.go
package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"library-api/internal/apperr"
	"library-api/internal/config"
	"library-api/internal/model"
)

// TokenType 區分 access 與 refresh token
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// CustomClaims 定義 JWT 負載內容，ID (jti) 用於撤銷
type CustomClaims struct {
	UserID  int       `json:"uid"`
	IsAdmin bool      `json:"is_admin"`
	Type    TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// RevocationStore 記錄被提前撤銷的 token id，需可跨 process 共用
type RevocationStore interface {
	Revoke(ctx context.Context, id string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// TokenPair 登入時發出的一組 token
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn access token 有效秒數
	ExpiresIn int64
}

var (
	newTokenID      = uuid.NewString
	parseWithClaims = jwt.ParseWithClaims
)

// errInvalidToken 過期、撤銷、格式錯誤都回同一個訊息
var errInvalidToken = apperr.Unauthorized("invalid or expired token")

type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(cfg config.JWT) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

func (s *TokenIssuer) issue(u model.User, typ TokenType, ttl time.Duration) (string, error) {
	issuedAt := timeNow()
	claims := CustomClaims{
		UserID:  u.ID,
		IsAdmin: u.IsAdmin,
		Type:    typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        newTokenID(),
			Issuer:    s.issuer,
			Subject:   strconv.Itoa(u.ID),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// IssueAccess 產生 access token
func (s *TokenIssuer) IssueAccess(u model.User) (string, error) {
	return s.issue(u, AccessToken, s.accessTTL)
}

// IssuePair 產生 access + refresh token
func (s *TokenIssuer) IssuePair(u model.User) (TokenPair, error) {
	access, err := s.issue(u, AccessToken, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.issue(u, RefreshToken, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL / time.Second),
	}, nil
}

// Parse 驗證簽章、issuer、有效期限與 token 種類
func (s *TokenIssuer) Parse(tokenString string, want TokenType) (*CustomClaims, error) {
	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(timeNow),
	)
	if err != nil {
		return nil, errInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.Type != want || claims.ID == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}
