// File: internal/handler/loans/loans.go
package loans

import (
	"context"
	"time"

	"library-api/internal/model"
	"library-api/internal/service"
)

// Service 由 service.LoanService 實作
type Service interface {
	CreateLoan(ctx context.Context, userID, bookID, days int) (*model.Loan, error)
	ReturnLoan(ctx context.Context, loanID, actorID int, actorIsAdmin bool) (*model.Loan, error)
	GetLoan(ctx context.Context, loanID, actorID int, actorIsAdmin bool) (*model.Loan, error)
	ListLoans(ctx context.Context, q service.LoanQuery, page model.PageRequest) (model.Page[model.Loan], error)
	ListOverdue(ctx context.Context, page model.PageRequest) (model.Page[model.Loan], error)
}

// 計算 is_overdue 用，測試可替換
var timeNow = time.Now
