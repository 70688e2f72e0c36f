package loans

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"library-api/internal/apperr"
	"library-api/internal/dto"
	"library-api/internal/handler"
	"library-api/internal/middleware"
	"library-api/internal/service"
)

func list(c echo.Context, svc Service, q service.LoanQuery) error {
	p, err := svc.ListLoans(c.Request().Context(), q, handler.Page(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.LoanList(p, timeNow()))
}

// ListActiveLoansHandler 目前使用者尚未歸還的借閱
// @Summary     My active loans
// @Tags        loans
// @Produce     json
// @Param       page     query    int false "頁碼"
// @Param       par_page query    int false "每頁筆數"
// @Success     200      {object} dto.LoanListResponse
// @Security    ApiKeyAuth
// @Router      /loans/active [get]
func ListActiveLoansHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, id middleware.Identity) error {
		uid := id.UserID()
		return list(c, svc, service.LoanQuery{UserID: &uid, ActiveOnly: true})
	}
}

// ListLoanHistoryHandler 目前使用者的所有借閱
// @Summary     My loan history
// @Tags        loans
// @Produce     json
// @Param       page     query    int false "頁碼"
// @Param       par_page query    int false "每頁筆數"
// @Success     200      {object} dto.LoanListResponse
// @Security    ApiKeyAuth
// @Router      /loans/history [get]
func ListLoanHistoryHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, id middleware.Identity) error {
		uid := id.UserID()
		return list(c, svc, service.LoanQuery{UserID: &uid})
	}
}

// ListLoansHandler 管理員查詢全部借閱，可依 user_id 與 active 篩選
// @Summary     List all loans
// @Tags        loans
// @Produce     json
// @Param       user_id  query    int  false "借閱者"
// @Param       active   query    bool false "只列未歸還"
// @Param       page     query    int  false "頁碼"
// @Param       par_page query    int  false "每頁筆數"
// @Success     200      {object} dto.LoanListResponse
// @Failure     400      {object} dto.HTTPError
// @Failure     403      {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /loans [get]
func ListLoansHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, _ middleware.Identity) error {
		q := service.LoanQuery{AdminView: true}
		if v := c.QueryParam("user_id"); v != "" {
			uid, err := strconv.Atoi(v)
			if err != nil || uid < 1 {
				return apperr.InvalidRequest("invalid user_id")
			}
			q.UserID = &uid
		}
		if v := c.QueryParam("active"); v != "" {
			active, err := strconv.ParseBool(v)
			if err != nil {
				return apperr.InvalidRequest("invalid active")
			}
			q.ActiveOnly = active
		}
		return list(c, svc, q)
	}
}

// ListOverdueLoansHandler 管理員查詢所有逾期借閱
// @Summary     List overdue loans
// @Tags        loans
// @Produce     json
// @Param       page     query    int false "頁碼"
// @Param       par_page query    int false "每頁筆數"
// @Success     200      {object} dto.LoanListResponse
// @Failure     403      {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /loans/overdue [get]
func ListOverdueLoansHandler(svc Service) middleware.IdentityHandlerFunc {
	return func(c echo.Context, _ middleware.Identity) error {
		p, err := svc.ListOverdue(c.Request().Context(), handler.Page(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.LoanList(p, timeNow()))
	}
}
