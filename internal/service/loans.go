// File: internal/service/loans.go
package service

import (
	"context"
	"time"

	"library-api/internal/apperr"
	"library-api/internal/database"
	"library-api/internal/model"
	"library-api/internal/store"
)

const msgLoanNotFound = "loan not found"

// Notifier 借閱狀態改變時的通知；實作需立即回傳，失敗不影響借閱
type Notifier interface {
	LoanCreated(n model.LoanNotice)
	LoanReturned(n model.LoanNotice)
}

// LoanQuery 借閱清單條件
// AdminView 為 false 時必須指定 UserID
type LoanQuery struct {
	UserID     *int
	ActiveOnly bool
	AdminView  bool
}

// LoanService 借閱與歸還，所有 available 的讀後寫都在鎖住書籍的交易內完成
type LoanService struct {
	db       database.DB
	notifier Notifier
}

func NewLoanService(db database.DB, notifier Notifier) *LoanService {
	return &LoanService{db: db, notifier: notifier}
}

// CreateLoan 為 userID 借出 bookID；days 為 0 時使用預設借期
func (s *LoanService) CreateLoan(ctx context.Context, userID, bookID, days int) (*model.Loan, error) {
	if days == 0 {
		days = model.DefaultLoanDays
	}
	if days < model.MinLoanDays || days > model.MaxLoanDays {
		return nil, apperr.InvalidRequest("loan duration must be between %d and %d days", model.MinLoanDays, model.MaxLoanDays)
	}

	u, err := getUserByID(ctx, s.db, userID)
	if err != nil {
		return nil, fromStore(err, "user not found", "")
	}

	var (
		loan *model.Loan
		book *model.Book
	)
	err = database.RunInTx(ctx, s.db, func(tx database.Tx) error {
		b, err := lockBookByID(ctx, tx, bookID)
		if err != nil {
			return fromStore(err, msgBookNotFound, "")
		}
		if !b.IsBorrowable() {
			return apperr.Conflict("book is not available for loan")
		}

		loanedAt := now()
		l := &model.Loan{
			UserID:   u.ID,
			BookID:   b.ID,
			LoanedAt: loanedAt,
			DueAt:    loanedAt.AddDate(0, 0, days),
		}
		if err := createLoan(ctx, tx, l); err != nil {
			return apperr.Internal(err)
		}
		if b.Available, err = adjustBookAvailable(ctx, tx, b.ID, -1); err != nil {
			return apperr.Internal(err)
		}
		loan, book = l, b
		return nil
	})
	if err != nil {
		return nil, fromStore(err, "", "")
	}

	if s.notifier != nil {
		s.notifier.LoanCreated(notice(loan, u, book))
	}
	return loan, nil
}

// ReturnLoan 歸還借閱；只有借閱者本人或管理員可以操作
func (s *LoanService) ReturnLoan(ctx context.Context, loanID, actorID int, actorIsAdmin bool) (*model.Loan, error) {
	var (
		loan *model.Loan
		book *model.Book
	)
	err := database.RunInTx(ctx, s.db, func(tx database.Tx) error {
		l, err := lockLoanByID(ctx, tx, loanID)
		if err != nil {
			return fromStore(err, msgLoanNotFound, "")
		}
		if l.UserID != actorID && !actorIsAdmin {
			return apperr.Forbidden("you are not allowed to return this loan")
		}
		if l.IsReturned() {
			return apperr.InvalidRequest("loan already returned")
		}

		b, err := lockBookByID(ctx, tx, l.BookID)
		if err != nil {
			// 借閱存在但書籍不存在代表資料不一致
			return apperr.Internal(err)
		}
		returnedAt := now()
		if err := markLoanReturned(ctx, tx, l.ID, returnedAt); err != nil {
			return apperr.Internal(err)
		}
		if b.Available, err = adjustBookAvailable(ctx, tx, b.ID, 1); err != nil {
			return apperr.Internal(err)
		}
		l.ReturnedAt = &returnedAt
		loan, book = l, b
		return nil
	})
	if err != nil {
		return nil, fromStore(err, "", "")
	}

	if s.notifier != nil {
		if u, err := getUserByID(ctx, s.db, loan.UserID); err == nil {
			s.notifier.LoanReturned(notice(loan, u, book))
		}
	}
	return loan, nil
}

// GetLoan 取得單筆借閱；非本人且非管理員回 Forbidden
func (s *LoanService) GetLoan(ctx context.Context, loanID, actorID int, actorIsAdmin bool) (*model.Loan, error) {
	l, err := getLoanByID(ctx, s.db, loanID)
	if err != nil {
		return nil, fromStore(err, msgLoanNotFound, "")
	}
	if l.UserID != actorID && !actorIsAdmin {
		return nil, apperr.Forbidden("you are not allowed to view this loan")
	}
	return l, nil
}

func (s *LoanService) ListLoans(ctx context.Context, q LoanQuery, page model.PageRequest) (model.Page[model.Loan], error) {
	if !q.AdminView && q.UserID == nil {
		return model.Page[model.Loan]{}, apperr.Forbidden("loan listing must be scoped to a user")
	}
	p, err := listLoans(ctx, s.db, store.LoanFilter{UserID: q.UserID, ActiveOnly: q.ActiveOnly}, page)
	if err != nil {
		return p, apperr.Internal(err)
	}
	return p, nil
}

// ListOverdue 到期時間已過且未歸還的借閱
func (s *LoanService) ListOverdue(ctx context.Context, page model.PageRequest) (model.Page[model.Loan], error) {
	at := now()
	p, err := listLoans(ctx, s.db, store.LoanFilter{OverdueAt: &at}, page)
	if err != nil {
		return p, apperr.Internal(err)
	}
	return p, nil
}

// DueSoonNotices 恰好在 days 天後那一個 UTC 日曆日到期且未歸還的借閱
// 每天掃一次時每筆借閱只會被提醒一次
func (s *LoanService) DueSoonNotices(ctx context.Context, days int) ([]model.LoanNotice, error) {
	if days <= 0 {
		return nil, nil
	}
	at := now()
	from := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	to := from.AddDate(0, 0, 1)
	notices, err := listLoanNotices(ctx, s.db, store.LoanFilter{ActiveOnly: true, DueFrom: &from, DueBefore: &to})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return notices, nil
}

// OverdueNotices 所有已逾期的借閱
func (s *LoanService) OverdueNotices(ctx context.Context) ([]model.LoanNotice, error) {
	at := now()
	notices, err := listLoanNotices(ctx, s.db, store.LoanFilter{OverdueAt: &at})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return notices, nil
}

func notice(l *model.Loan, u *model.User, b *model.Book) model.LoanNotice {
	return model.LoanNotice{
		Loan:      *l,
		Email:     u.Email,
		FirstName: u.FirstName,
		BookTitle: b.Title,
	}
}
