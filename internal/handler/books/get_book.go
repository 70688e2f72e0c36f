// File: internal/handler/books/get_book.go
package books

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-api/internal/dto"
	"library-api/internal/handler"
)

// GetBookHandler 取得單本書籍
// @Summary     Get book
// @Tags        books
// @Produce     json
// @Param       id  path     int true "Book ID"
// @Success     200 {object} dto.BookResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Router      /books/{id} [get]
func GetBookHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		b, err := svc.GetBook(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.BookResponse{Status: dto.StatusSuccess, Book: b})
	}
}
