package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-api/internal/cache"
	"library-api/internal/database"
	"library-api/internal/dto"
)

// PingHandler 健康檢查
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫與 Redis 連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} dto.PingResponse
// @Failure     503 {object} dto.HTTPError
// @Router      /ping [get]
func PingHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unhealthy").SetInternal(err)
		}
		if err := cch.Ping(ctx).Err(); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "cache unhealthy").SetInternal(err)
		}
		return c.JSON(http.StatusOK, dto.PingResponse{Status: dto.StatusSuccess, Message: "pong"})
	}
}
