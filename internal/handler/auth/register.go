// File: internal/handler/auth/register.go
package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-api/internal/api"
	"library-api/internal/dto"
	"library-api/internal/handler"
	"library-api/internal/service"
)

// RegisterHandler 註冊一般使用者
// @Summary     Register
// @Description 建立一般使用者帳號 (Email 會自動轉小寫)
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     201  {object} dto.UserResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     409  {object} dto.HTTPError
// @Failure     422  {object} dto.HTTPError
// @Failure     500  {object} dto.HTTPError
// @Router      /auth/register [post]
func RegisterHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		u, err := svc.Register(c.Request().Context(), service.RegisterInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, dto.UserResponse{Status: dto.StatusSuccess, Message: "user registered", User: u})
	}
}
