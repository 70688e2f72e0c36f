package users

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-api/internal/api"
	"library-api/internal/dto"
	"library-api/internal/handler"
	"library-api/internal/middleware"
)

// @Summary     List users
// @Description q 會比對姓名與 email
// @Tags        users
// @Produce     json
// @Param       q        query    string false "搜尋字串"
// @Param       page     query    int    false "頁碼"
// @Param       par_page query    int    false "每頁筆數"
// @Success     200      {object} dto.UserListResponse
// @Failure     403      {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users [get]
func ListUsersHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, _ middleware.Identity) error {
		p, err := svc.ListUsers(c.Request().Context(), c.QueryParam("q"), handler.Page(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.UserList(p))
	}
}

// @Summary     Get user
// @Tags        users
// @Produce     json
// @Param       id  path     int true "User ID"
// @Success     200 {object} dto.UserResponse
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users/{id} [get]
func GetUserHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, _ middleware.Identity) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		u, err := svc.GetUser(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.UserResponse{Status: dto.StatusSuccess, User: u})
	}
}

// @Summary     Grant or revoke admin
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id   path     int                   true "User ID"
// @Param       body body     api.UpdateRoleRequest true "角色"
// @Success     200  {object} dto.UserResponse
// @Failure     400  {object} dto.HTTPError "cannot change your own role"
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users/{id}/role [put]
func UpdateRoleHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, actor middleware.Identity) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		var req api.UpdateRoleRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		u, err := svc.SetRole(c.Request().Context(), actor.UserID(), id, *req.IsAdmin)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.UserResponse{Status: dto.StatusSuccess, Message: "role updated", User: u})
	}
}

// @Summary     Activate or deactivate user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id   path     int                     true "User ID"
// @Param       body body     api.UpdateStatusRequest true "狀態"
// @Success     200  {object} dto.UserResponse
// @Failure     400  {object} dto.HTTPError "cannot change your own status"
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users/{id}/status [put]
func UpdateStatusHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, actor middleware.Identity) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		var req api.UpdateStatusRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		u, err := svc.SetStatus(c.Request().Context(), actor.UserID(), id, *req.IsActive)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.UserResponse{Status: dto.StatusSuccess, Message: "status updated", User: u})
	}
}

// @Summary     Delete user
// @Description 未歸還的書會先歸還庫存再刪除
// @Tags        users
// @Produce     json
// @Param       id  path     int true "User ID"
// @Success     200 {object} dto.MessageResponse
// @Failure     400 {object} dto.HTTPError "cannot delete yourself"
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users/{id} [delete]
func DeleteUserHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, actor middleware.Identity) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeleteUser(c.Request().Context(), actor.UserID(), id); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.Message("user deleted"))
	}
}
