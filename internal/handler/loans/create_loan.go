package loans

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-api/internal/api"
	"library-api/internal/dto"
	"library-api/internal/handler"
	"library-api/internal/middleware"
)

// CreateLoanHandler 以目前使用者身分借書
// @Summary     Borrow a book
// @Tags        loans
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateLoanRequest true "借閱資料"
// @Success     201  {object} dto.LoanResponse
// @Failure     404  {object} dto.HTTPError "book not found"
// @Failure     409  {object} dto.HTTPError "no copies available"
// @Failure     422  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /loans [post]
func CreateLoanHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, id middleware.Identity) error {
		var req api.CreateLoanRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		days := 0
		if req.DurationDays != nil {
			days = *req.DurationDays
		}
		l, err := svc.CreateLoan(c.Request().Context(), id.UserID(), req.BookID, days)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, dto.Loan("loan created", l, timeNow()))
	}
}
