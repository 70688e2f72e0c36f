// File: internal/handler/categories/categories.go
package categories

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"library-api/internal/api"
	"library-api/internal/dto"
	"library-api/internal/handler"
	"library-api/internal/middleware"
	"library-api/internal/model"
	"library-api/internal/service"
)

// Service 由 service.CatalogService 實作
type Service interface {
	CreateCategory(ctx context.Context, in service.CategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id int) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int, p service.CategoryPatch) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int) error
	ListCategories(ctx context.Context, page model.PageRequest) (model.Page[model.Category], error)
	ListCategoryBooks(ctx context.Context, id int, page model.PageRequest) (model.Page[model.Book], error)
}

// CreateCategoryHandler 新增分類，名稱不可重複
// @Summary     Create category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateCategoryRequest true "分類資料"
// @Success     201  {object} dto.CategoryResponse
// @Failure     403  {object} dto.HTTPError
// @Failure     409  {object} dto.HTTPError
// @Failure     422  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /categories [post]
func CreateCategoryHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, _ middleware.Identity) error {
		var req api.CreateCategoryRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		cat, err := svc.CreateCategory(c.Request().Context(), service.CategoryInput{Name: req.Name, Description: req.Description})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, dto.CategoryResponse{Status: dto.StatusSuccess, Message: "category created", Category: cat})
	}
}

// GetCategoryHandler 取得單一分類與書籍數
// @Summary     Get category
// @Tags        categories
// @Produce     json
// @Param       id  path     int true "Category ID"
// @Success     200 {object} dto.CategoryResponse
// @Failure     404 {object} dto.HTTPError
// @Router      /categories/{id} [get]
func GetCategoryHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		cat, err := svc.GetCategory(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.CategoryResponse{Status: dto.StatusSuccess, Category: cat})
	}
}

// UpdateCategoryHandler 更新分類
// @Summary     Update category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id   path     int                       true "Category ID"
// @Param       body body     api.UpdateCategoryRequest true "要更新的欄位"
// @Success     200  {object} dto.CategoryResponse
// @Failure     404  {object} dto.HTTPError
// @Failure     409  {object} dto.HTTPError
// @Failure     422  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /categories/{id} [put]
func UpdateCategoryHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, _ middleware.Identity) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		var req api.UpdateCategoryRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		cat, err := svc.UpdateCategory(c.Request().Context(), id, service.CategoryPatch{Name: req.Name, Description: req.Description})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.CategoryResponse{Status: dto.StatusSuccess, Message: "category updated", Category: cat})
	}
}

// DeleteCategoryHandler 刪除分類；仍有書籍時拒絕
// @Summary     Delete category
// @Tags        categories
// @Produce     json
// @Param       id  path     int true "Category ID"
// @Success     200 {object} dto.MessageResponse
// @Failure     400 {object} dto.HTTPError "category still has books"
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /categories/{id} [delete]
func DeleteCategoryHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, _ middleware.Identity) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeleteCategory(c.Request().Context(), id); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.Message("category deleted"))
	}
}

// ListCategoriesHandler 分頁列出分類
// @Summary     List categories
// @Tags        categories
// @Produce     json
// @Param       page     query    int false "頁碼"
// @Param       par_page query    int false "每頁筆數"
// @Success     200      {object} dto.CategoryListResponse
// @Router      /categories [get]
func ListCategoriesHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := svc.ListCategories(c.Request().Context(), handler.Page(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.CategoryList(p))
	}
}

// ListCategoryBooksHandler 分頁列出分類下的書籍
// @Summary     List books of a category
// @Tags        categories
// @Produce     json
// @Param       id       path     int true  "Category ID"
// @Param       page     query    int false "頁碼"
// @Param       par_page query    int false "每頁筆數"
// @Success     200      {object} dto.BookListResponse
// @Failure     404      {object} dto.HTTPError
// @Router      /categories/{id}/books [get]
func ListCategoryBooksHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		p, err := svc.ListCategoryBooks(c.Request().Context(), id, handler.Page(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.BookList(p))
	}
}
