package users

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-api/internal/api"
	"library-api/internal/dto"
	"library-api/internal/handler"
	"library-api/internal/middleware"
	"library-api/internal/service"
)

// @Summary     Get my profile
// @Tags        users
// @Produce     json
// @Success     200 {object} dto.UserResponse
// @Failure     401 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users/profile [get]
func GetProfileHandler() middleware.IdentityHandlerFunc {
	return func(c echo.Context, id middleware.Identity) error {
		return c.JSON(http.StatusOK, dto.UserResponse{Status: dto.StatusSuccess, User: id.User})
	}
}

// @Summary     Update my profile
// @Description 只更新有帶的欄位；email 轉小寫後不可與他人重複
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.UpdateProfileRequest true "要更新的欄位"
// @Success     200  {object} dto.UserResponse
// @Failure     409  {object} dto.HTTPError
// @Failure     422  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users/profile [put]
func UpdateProfileHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, id middleware.Identity) error {
		var req api.UpdateProfileRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		u, err := svc.UpdateProfile(c.Request().Context(), id.UserID(), service.ProfilePatch{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.UserResponse{Status: dto.StatusSuccess, Message: "profile updated", User: u})
	}
}
