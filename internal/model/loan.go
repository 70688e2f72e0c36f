// File: internal/model/loan.go
package model

import "time"

const (
	DefaultLoanDays = 14
	MinLoanDays     = 1
	MaxLoanDays     = 30
)

// Loan 一筆借閱紀錄；ReturnedAt 為 nil 代表尚未歸還
type Loan struct {
	ID         int        `db:"id"`
	UserID     int        `db:"user_id"`
	BookID     int        `db:"book_id"`
	LoanedAt   time.Time  `db:"loaned_at"`
	DueAt      time.Time  `db:"due_at"`
	ReturnedAt *time.Time `db:"returned_at"`
}

func (l *Loan) IsReturned() bool {
	return l.ReturnedAt != nil
}

func (l *Loan) IsOverdue(now time.Time) bool {
	return !l.IsReturned() && now.After(l.DueAt)
}

// DaysOverdue 逾期整天數（無條件捨去），未逾期為 0
func (l *Loan) DaysOverdue(now time.Time) int {
	if !l.IsOverdue(now) {
		return 0
	}
	return int(now.Sub(l.DueAt) / (24 * time.Hour))
}

// LoanView 對外輸出的借閱資料，含衍生欄位
type LoanView struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	BookID      int        `json:"book_id"`
	LoanedAt    time.Time  `json:"loaned_at"`
	DueAt       time.Time  `json:"due_at"`
	ReturnedAt  *time.Time `json:"returned_at"`
	IsReturned  bool       `json:"is_returned"`
	IsOverdue   bool       `json:"is_overdue"`
	DaysOverdue int        `json:"days_overdue"`
}

func (l *Loan) View(now time.Time) LoanView {
	return LoanView{
		ID:          l.ID,
		UserID:      l.UserID,
		BookID:      l.BookID,
		LoanedAt:    l.LoanedAt,
		DueAt:       l.DueAt,
		ReturnedAt:  l.ReturnedAt,
		IsReturned:  l.IsReturned(),
		IsOverdue:   l.IsOverdue(now),
		DaysOverdue: l.DaysOverdue(now),
	}
}

// LoanNotice 通知信所需的借閱資料與借閱者、書籍資訊
type LoanNotice struct {
	Loan
	Email     string `db:"email"`
	FirstName string `db:"first_name"`
	BookTitle string `db:"title"`
}
