package loans

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-api/internal/dto"
	"library-api/internal/handler"
	"library-api/internal/middleware"
)

// ReturnLoanHandler 歸還借閱；只有借閱者本人或管理員可操作
// @Summary     Return a loan
// @Tags        loans
// @Produce     json
// @Param       id  path     int true "Loan ID"
// @Success     200 {object} dto.LoanResponse
// @Failure     400 {object} dto.HTTPError "loan already returned"
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /loans/{id}/return [patch]
func ReturnLoanHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, id middleware.Identity) error {
		loanID, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		l, err := svc.ReturnLoan(c.Request().Context(), loanID, id.UserID(), id.IsAdmin())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.Loan("loan returned", l, timeNow()))
	}
}

// GetLoanHandler 取得單筆借閱
// @Summary     Get loan
// @Tags        loans
// @Produce     json
// @Param       id  path     int true "Loan ID"
// @Success     200 {object} dto.LoanResponse
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /loans/{id} [get]
func GetLoanHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, id middleware.Identity) error {
		loanID, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		l, err := svc.GetLoan(c.Request().Context(), loanID, id.UserID(), id.IsAdmin())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.Loan("", l, timeNow()))
	}
}
