package dto

import (
	"time"

	"library-api/internal/model"
)

// swagger:model dto.LoanResponse
type LoanResponse struct {
	Status  string         `json:"status" example:"success"`
	Message string         `json:"message,omitempty" example:"loan created"`
	Loan    model.LoanView `json:"loan"`
}

func Loan(msg string, l *model.Loan, now time.Time) LoanResponse {
	return LoanResponse{Status: StatusSuccess, Message: msg, Loan: l.View(now)}
}

// swagger:model dto.LoanListResponse
type LoanListResponse struct {
	Status     string           `json:"status" example:"success"`
	Loans      []model.LoanView `json:"loans"`
	Pagination Pagination       `json:"pagination"`
}

// LoanList 衍生欄位 (is_overdue, days_overdue) 以 now 計算
func LoanList(p model.Page[model.Loan], now time.Time) LoanListResponse {
	views := model.MapPage(p, func(l model.Loan) model.LoanView { return l.View(now) })
	return LoanListResponse{Status: StatusSuccess, Loans: views.Items, Pagination: NewPagination(views)}
}
