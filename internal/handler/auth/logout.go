// File: internal/handler/auth/logout.go
package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-api/internal/api"
	"library-api/internal/dto"
	"library-api/internal/middleware"
)

// LogoutHandler 撤銷目前的 access token，body 帶 refresh_token 時一併撤銷
// @Summary     Logout
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LogoutRequest false "refresh token"
// @Success     200  {object} dto.MessageResponse
// @Failure     401  {object} dto.HTTPError
// @Failure     403  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /auth/logout [post]
func LogoutHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, id middleware.Identity) error {
		var req api.LogoutRequest
		// body 可省略，解析失敗視為沒有 refresh token
		_ = c.Bind(&req)
		if err := svc.Logout(c.Request().Context(), id.Claims, req.RefreshToken); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.Message("logged out"))
	}
}
