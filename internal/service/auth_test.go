package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"library-api/internal/apperr"
	"library-api/internal/model"
)

// memRevocations 測試用撤銷清單
type memRevocations struct {
	mu      sync.Mutex
	ids     map[string]time.Time
	failErr error
}

func newMemRevocations() *memRevocations {
	return &memRevocations{ids: map[string]time.Time{}}
}

func (m *memRevocations) Revoke(_ context.Context, id string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.ids[id] = exp
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return false, m.failErr
	}
	_, ok := m.ids[id]
	return ok, nil
}

func newAuth(t *testing.T) (*AuthService, *memStore, *memRevocations) {
	s := install(t)
	rev := newMemRevocations()
	return NewAuthService(s, testIssuer(), rev), s, rev
}

func TestRegister(t *testing.T) {
	svc, s, _ := newAuth(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{FirstName: " Ada ", LastName: "Lovelace", Email: " Ada@Example.com", Password: "password1"})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", u.Email)
	require.Equal(t, "Ada", u.FirstName)
	require.True(t, u.IsActive)
	require.False(t, u.IsAdmin)
	require.NotEqual(t, "password1", u.PasswordHash)
	require.NoError(t, ComparePassword(u.PasswordHash, "password1"))

	_, err = svc.Register(ctx, RegisterInput{Email: "ADA@example.com", Password: "password1"})
	require.True(t, apperr.Is(err, apperr.KindConflict))

	s.failures["GetUserByEmail"] = errors.New("db down")
	_, err = svc.Register(ctx, RegisterInput{Email: "x@example.com", Password: "password1"})
	require.True(t, apperr.Is(err, apperr.KindServerError))
}

func TestLogin(t *testing.T) {
	svc, s, _ := newAuth(t)
	ctx := context.Background()
	u := s.addUser("Ada", "ada@example.com", "password1", false)

	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }

	res, err := svc.Login(ctx, "ADA@example.com", "password1")
	require.NoError(t, err)
	require.Equal(t, u.ID, res.User.ID)
	require.NotEmpty(t, res.Tokens.AccessToken)
	require.NotEmpty(t, res.Tokens.RefreshToken)
	require.Equal(t, fixed, *res.User.LastLogin)
	require.Equal(t, fixed, *s.users[u.ID].LastLogin)

	// 帳號不存在與密碼錯誤回傳相同訊息
	_, errWrongPw := svc.Login(ctx, "ada@example.com", "nope")
	_, errNoUser := svc.Login(ctx, "nobody@example.com", "password1")
	require.True(t, apperr.Is(errWrongPw, apperr.KindUnauthorized))
	require.Equal(t, errWrongPw.Error(), errNoUser.Error())

	s.users[u.ID].IsActive = false
	_, err = svc.Login(ctx, "ada@example.com", "password1")
	require.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestAuthenticateAndLogout(t *testing.T) {
	svc, s, rev := newAuth(t)
	ctx := context.Background()
	s.addUser("Ada", "ada@example.com", "password1", false)

	res, err := svc.Login(ctx, "ada@example.com", "password1")
	require.NoError(t, err)

	u, claims, err := svc.Authenticate(ctx, res.Tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, u.ID)

	// refresh token 不能當 access token
	_, _, err = svc.Authenticate(ctx, res.Tokens.RefreshToken)
	require.True(t, apperr.Is(err, apperr.KindUnauthorized))

	require.NoError(t, svc.Logout(ctx, claims, res.Tokens.RefreshToken))
	require.Len(t, rev.ids, 2)
	require.Equal(t, claims.ExpiresAt.Time, rev.ids[claims.ID])

	_, _, err = svc.Authenticate(ctx, res.Tokens.AccessToken)
	require.Equal(t, errInvalidToken, err)
	_, err = svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.Equal(t, errInvalidToken, err)
}

func TestLogoutRejectsForeignRefresh(t *testing.T) {
	svc, s, rev := newAuth(t)
	ctx := context.Background()
	s.addUser("Ada", "ada@example.com", "password1", false)
	s.addUser("Bob", "bob@example.com", "password1", false)

	ada, err := svc.Login(ctx, "ada@example.com", "password1")
	require.NoError(t, err)
	bob, err := svc.Login(ctx, "bob@example.com", "password1")
	require.NoError(t, err)

	_, claims, err := svc.Authenticate(ctx, ada.Tokens.AccessToken)
	require.NoError(t, err)
	err = svc.Logout(ctx, claims, bob.Tokens.RefreshToken)
	require.True(t, apperr.Is(err, apperr.KindForbidden))
	require.Empty(t, rev.ids)

	rev.failErr = errors.New("redis down")
	err = svc.Logout(ctx, claims, "")
	require.True(t, apperr.Is(err, apperr.KindServerError))
	_, _, err = svc.Authenticate(ctx, ada.Tokens.AccessToken)
	require.True(t, apperr.Is(err, apperr.KindServerError))
}

func TestRefresh(t *testing.T) {
	svc, s, _ := newAuth(t)
	ctx := context.Background()
	u := s.addUser("Ada", "ada@example.com", "password1", false)

	res, err := svc.Login(ctx, "ada@example.com", "password1")
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	got, _, err := svc.Authenticate(ctx, access)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = svc.Refresh(ctx, res.Tokens.AccessToken)
	require.True(t, apperr.Is(err, apperr.KindUnauthorized))

	// 停用後 refresh 失敗
	s.users[u.ID].IsActive = false
	_, err = svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.True(t, apperr.Is(err, apperr.KindUnauthorized))

	// 帳號被刪除
	delete(s.users, u.ID)
	_, err = svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.Equal(t, errInvalidToken, err)
}

func TestChangePassword(t *testing.T) {
	svc, s, _ := newAuth(t)
	ctx := context.Background()
	u := s.addUser("Ada", "ada@example.com", "password1", false)

	err := svc.ChangePassword(ctx, u, "wrong", "password2")
	require.True(t, apperr.Is(err, apperr.KindUnauthorized))

	require.NoError(t, svc.ChangePassword(ctx, u, "password1", "password2"))
	require.NoError(t, ComparePassword(s.users[u.ID].PasswordHash, "password2"))

	_, err = svc.Login(ctx, "ada@example.com", "password1")
	require.Error(t, err)
	_, err = svc.Login(ctx, "ada@example.com", "password2")
	require.NoError(t, err)

	missing := &model.User{ID: 999, PasswordHash: s.users[u.ID].PasswordHash}
	err = svc.ChangePassword(ctx, missing, "password2", "password3")
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}
