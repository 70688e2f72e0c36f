// File: internal/handler/books/update_book.go
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

// UpdateBookHandler 更新書籍；quantity 變動時 available 同步調整
// @Summary     Update book
// @Tags        books
// @Accept      json
// @Produce     json
// @Param       id   path     int                   true "Book ID"
// @Param       body body     api.UpdateBookRequest true "要更新的欄位"
// @Success     200  {object} dto.BookResponse
// @Failure     400  {object} dto.HTTPError "quantity below outstanding loans"
// @Failure     403  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Failure     409  {object} dto.HTTPError
// @Failure     422  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /books/{id} [put]
func UpdateBookHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, _ middleware.Identity) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		var req api.UpdateBookRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		p := service.BookPatch{
			Title:      req.Title,
			Author:     req.Author,
			ISBN:       req.ISBN,
			Quantity:   req.Quantity,
			CategoryID: req.CategoryID,
		}
		if req.PublicationDate != nil {
			if p.PublicationDate, err = parseDate(*req.PublicationDate); err != nil {
				return err
			}
		}
		b, err := svc.UpdateBook(c.Request().Context(), id, p)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.BookResponse{Status: dto.StatusSuccess, Message: "book updated", Book: b})
	}
}
