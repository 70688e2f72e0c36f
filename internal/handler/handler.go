// Package handler 放各資源 handler 共用的請求解析
package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"library-api/internal/apperr"
	"library-api/internal/model"
)

// Bind 綁定 body 後以 echo 的 Validator 驗證
func Bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperr.InvalidRequest("invalid request body")
	}
	return c.Validate(req)
}

// ParseID 讀取路徑參數中的正整數 id
func ParseID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		return 0, apperr.InvalidRequest("invalid %s", name)
	}
	return id, nil
}

// Page 讀取 page 與 par_page，不合法時使用預設值
func Page(c echo.Context) model.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("par_page"))
	return model.PageRequest{Page: page, PageSize: size}.Normalize()
}
