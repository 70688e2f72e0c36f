// File: internal/handler/auth/change_password.go
package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-api/internal/api"
	"library-api/internal/dto"
	"library-api/internal/handler"
	"library-api/internal/middleware"
)

// ChangePasswordHandler 驗證目前密碼後更新
// @Summary     Change password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.ChangePasswordRequest true "密碼"
// @Success     200  {object} dto.MessageResponse
// @Failure     401  {object} dto.HTTPError
// @Failure     422  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /auth/change-password [post]
func ChangePasswordHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, id middleware.Identity) error {
		var req api.ChangePasswordRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		if err := svc.ChangePassword(c.Request().Context(), id.User, req.CurrentPassword, req.NewPassword); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.Message("password updated"))
	}
}
