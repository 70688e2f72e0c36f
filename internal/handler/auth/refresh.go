// File: internal/handler/auth/refresh.go
package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"library-api/internal/api"
	"library-api/internal/dto"
	"library-api/internal/handler"
)

// RefreshHandler 以 refresh token 換新的 access token
// @Summary     Refresh access token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RefreshRequest true "refresh token"
// @Success     200  {object} dto.RefreshResponse
// @Failure     401  {object} dto.HTTPError
// @Failure     422  {object} dto.HTTPError
// @Router      /auth/refresh [post]
func RefreshHandler(svc Service, accessTTL time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RefreshRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		access, err := svc.Refresh(c.Request().Context(), req.RefreshToken)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.RefreshResponse{
			Status:      dto.StatusSuccess,
			AccessToken: access,
			TokenType:   tokenType,
			ExpiresIn:   int64(accessTTL / time.Second),
		})
	}
}
