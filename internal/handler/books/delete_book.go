// File: internal/handler/books/delete_book.go
package books

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-api/internal/dto"
	"library-api/internal/handler"
	"library-api/internal/middleware"
)

// DeleteBookHandler 刪除書籍；仍有未歸還借閱時拒絕
// @Summary     Delete book
// @Tags        books
// @Produce     json
// @Param       id  path     int true "Book ID"
// @Success     200 {object} dto.MessageResponse
// @Failure     400 {object} dto.HTTPError "book has outstanding loans"
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /books/{id} [delete]
func DeleteBookHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, _ middleware.Identity) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeleteBook(c.Request().Context(), id); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.Message("book deleted"))
	}
}
