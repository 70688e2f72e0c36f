// File: internal/handler/auth/login.go
package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-api/internal/api"
	"library-api/internal/dto"
	"library-api/internal/handler"
)

// LoginHandler 使用 Email/Password 驗證並回傳 access 與 refresh token
// @Summary     登入使用者
// @Description 帳號不存在與密碼錯誤回傳相同訊息
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} dto.LoginResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     422  {object} dto.HTTPError
// @Failure     500  {object} dto.HTTPError
// @Router      /auth/login [post]
func LoginHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		res, err := svc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.LoginResponse{
			Status:       dto.StatusSuccess,
			Message:      "login successful",
			User:         res.User,
			AccessToken:  res.Tokens.AccessToken,
			RefreshToken: res.Tokens.RefreshToken,
			TokenType:    tokenType,
			ExpiresIn:    res.Tokens.ExpiresIn,
		})
	}
}
