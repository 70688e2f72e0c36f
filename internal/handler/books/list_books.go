// File: internal/handler/books/list_books.go
package books

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-api/internal/dto"
	"library-api/internal/handler"
)

// ListBooksHandler 分頁列出書籍
// @Summary     List books
// @Tags        books
// @Produce     json
// @Param       page     query    int false "頁碼 (預設 1)"
// @Param       par_page query    int false "每頁筆數 (預設 10，最多 100)"
// @Success     200      {object} dto.BookListResponse
// @Router      /books [get]
func ListBooksHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := svc.ListBooks(c.Request().Context(), handler.Page(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.BookList(p))
	}
}

// SearchBooksHandler 依書名、作者或 ISBN 搜尋 (不分大小寫)
// @Summary     Search books
// @Tags        books
// @Produce     json
// @Param       terme    query    string true  "搜尋字串"
// @Param       page     query    int    false "頁碼"
// @Param       par_page query    int    false "每頁筆數"
// @Success     200      {object} dto.BookListResponse
// @Failure     400      {object} dto.HTTPError
// @Router      /books/search [get]
func SearchBooksHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := svc.SearchBooks(c.Request().Context(), c.QueryParam("terme"), handler.Page(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.BookList(p))
	}
}
