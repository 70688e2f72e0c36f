// Package handlertest 提供 handler 測試用的 echo 實例與身分注入
package handlertest

import (
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"library-api/internal/middleware"
	"library-api/internal/model"
	"library-api/internal/server"
	"library-api/internal/service"
)

var (
	User  = &model.User{ID: 2, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", IsActive: true}
	Admin = &model.User{ID: 1, FirstName: "Root", LastName: "Admin", Email: "root@example.com", IsActive: true, IsAdmin: true}
)

// As 以固定身分呼叫 IdentityHandlerFunc，略過 token 驗證
func As(u *model.User, h middleware.IdentityHandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h(c, middleware.Identity{
			User:   u,
			Claims: &service.CustomClaims{UserID: u.ID, IsAdmin: u.IsAdmin, Type: service.AccessToken},
		})
	}
}

// Serve 在設定完整的 echo 上註冊 route 並送出請求
func Serve(method, route, target, body string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	e := server.New(zerolog.Nop())
	e.Add(method, route, h)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
