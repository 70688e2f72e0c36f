// Package server 建立設定好 validator、序列化與錯誤處理的 echo 實例
package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"library-api/internal/middleware"
)

// New 回傳的 echo 尚未註冊路由，見 router.Setup
func New(log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.JSONSerializer = JSONSerializer{}
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	return e
}
