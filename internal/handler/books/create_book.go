// File: internal/handler/books/create_book.go
package books

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-api/internal/api"
	"library-api/internal/dto"
	"library-api/internal/handler"
	"library-api/internal/middleware"
	"library-api/internal/service"
)

// CreateBookHandler 新增書籍，available 等於 quantity
// @Summary     Create book
// @Tags        books
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateBookRequest true "書籍資料"
// @Success     201  {object} dto.BookResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     403  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError "category not found"
// @Failure     409  {object} dto.HTTPError
// @Failure     422  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /books [post]
func CreateBookHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, _ middleware.Identity) error {
		var req api.CreateBookRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		published, err := parseDate(req.PublicationDate)
		if err != nil {
			return err
		}
		b, err := svc.CreateBook(c.Request().Context(), service.BookInput{
			Title:           req.Title,
			Author:          req.Author,
			ISBN:            req.ISBN,
			PublicationDate: published,
			Quantity:        req.Quantity,
			CategoryID:      req.CategoryID,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, dto.BookResponse{Status: dto.StatusSuccess, Message: "book created", Book: b})
	}
}
