package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"library-api/internal/apperr"
	"library-api/internal/dto"
)

// NewHTTPErrorHandler 所有 handler 回傳的錯誤都在這裡轉成 HTTP 回應
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := translate(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}

func translate(err error) (int, dto.HTTPError) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, dto.HTTPError{Status: dto.StatusError, Message: msg}
	}
	ae := apperr.As(err)
	return ae.Kind.Status(), dto.HTTPError{Status: dto.StatusError, Message: ae.Message, Errors: ae.Fields}
}
