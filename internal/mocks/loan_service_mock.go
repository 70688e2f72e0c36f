package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"library-api/internal/model"
	"library-api/internal/service"
)

type LoanService struct{ mock.Mock }

func (m *LoanService) CreateLoan(ctx context.Context, userID, bookID, days int) (*model.Loan, error) {
	args := m.Called(ctx, userID, bookID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Loan), args.Error(1)
}

func (m *LoanService) ReturnLoan(ctx context.Context, loanID, actorID int, actorIsAdmin bool) (*model.Loan, error) {
	args := m.Called(ctx, loanID, actorID, actorIsAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Loan), args.Error(1)
}

func (m *LoanService) GetLoan(ctx context.Context, loanID, actorID int, actorIsAdmin bool) (*model.Loan, error) {
	args := m.Called(ctx, loanID, actorID, actorIsAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Loan), args.Error(1)
}

func (m *LoanService) ListLoans(ctx context.Context, q service.LoanQuery, page model.PageRequest) (model.Page[model.Loan], error) {
	args := m.Called(ctx, q, page)
	return args.Get(0).(model.Page[model.Loan]), args.Error(1)
}

func (m *LoanService) ListOverdue(ctx context.Context, page model.PageRequest) (model.Page[model.Loan], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(model.Page[model.Loan]), args.Error(1)
}
