package store

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"

	"library-api/internal/database"
	"library-api/internal/model"
)

const loanColumns = `id, user_id, book_id, loaned_at, due_at, returned_at`

var loanListColumns = []any{"id", "user_id", "book_id", "loaned_at", "due_at", "returned_at"}

// LoanFilter 借閱清單條件；UserID 為 nil 時不限使用者
type LoanFilter struct {
	UserID     *int
	ActiveOnly bool
	// OverdueAt 非 nil 時只取在該時間點已逾期且未歸還的借閱
	OverdueAt *time.Time
	// DueFrom / DueBefore 到期時間範圍 [DueFrom, DueBefore)
	DueFrom   *time.Time
	DueBefore *time.Time
}

func (f LoanFilter) apply(ds *goqu.SelectDataset, prefix string) *goqu.SelectDataset {
	if f.UserID != nil {
		ds = ds.Where(goqu.I(prefix + "user_id").Eq(*f.UserID))
	}
	if f.ActiveOnly || f.OverdueAt != nil {
		ds = ds.Where(goqu.I(prefix + "returned_at").IsNull())
	}
	if f.OverdueAt != nil {
		ds = ds.Where(goqu.I(prefix + "due_at").Lt(*f.OverdueAt))
	}
	if f.DueFrom != nil {
		ds = ds.Where(goqu.I(prefix + "due_at").Gte(*f.DueFrom))
	}
	if f.DueBefore != nil {
		ds = ds.Where(goqu.I(prefix + "due_at").Lt(*f.DueBefore))
	}
	return ds
}

func scanLoan(row pgx.Row) (model.Loan, error) {
	var l model.Loan
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.BookID,
		&l.LoanedAt,
		&l.DueAt,
		&l.ReturnedAt,
	)
	return l, err
}

// CreateLoan 寫入借閱並回填 id
func CreateLoan(ctx context.Context, q database.Querier, l *model.Loan) error {
	row := q.QueryRow(ctx,
		`INSERT INTO loans (user_id, book_id, loaned_at, due_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		l.UserID,
		l.BookID,
		l.LoanedAt,
		l.DueAt,
	)
	if err := row.Scan(&l.ID); err != nil {
		return wrap("CreateLoan", err)
	}
	return nil
}

func GetLoanByID(ctx context.Context, q database.Querier, loanID int) (*model.Loan, error) {
	l, err := scanLoan(q.QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1`,
		loanID,
	))
	if err != nil {
		return nil, wrap("GetLoanByID", err)
	}
	return &l, nil
}

// LockLoanByID 讀取借閱並持有 row lock 直到交易結束
func LockLoanByID(ctx context.Context, tx database.Tx, loanID int) (*model.Loan, error) {
	l, err := scanLoan(tx.QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`,
		loanID,
	))
	if err != nil {
		return nil, wrap("LockLoanByID", err)
	}
	return &l, nil
}

// MarkLoanReturned 只會更新尚未歸還的借閱；已歸還回傳 ErrNotFound
func MarkLoanReturned(ctx context.Context, q database.Querier, loanID int, at time.Time) error {
	return execOne(ctx, q, "MarkLoanReturned",
		`UPDATE loans SET returned_at = $1 WHERE id = $2 AND returned_at IS NULL`,
		at,
		loanID,
	)
}

func CountOutstandingLoansByBook(ctx context.Context, q database.Querier, bookID int) (int, error) {
	var n int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM loans WHERE book_id = $1 AND returned_at IS NULL`,
		bookID,
	).Scan(&n); err != nil {
		return 0, wrap("CountOutstandingLoansByBook", err)
	}
	return n, nil
}

// DeleteReturnedLoansByBook 刪除書籍前清掉已歸還的借閱紀錄
func DeleteReturnedLoansByBook(ctx context.Context, q database.Querier, bookID int) (int64, error) {
	tag, err := q.Exec(ctx,
		`DELETE FROM loans WHERE book_id = $1 AND returned_at IS NOT NULL`,
		bookID,
	)
	if err != nil {
		return 0, wrap("DeleteReturnedLoansByBook", err)
	}
	return tag.RowsAffected(), nil
}

// LockOutstandingLoansByUser 鎖住使用者所有未歸還借閱，依 book_id 排序避免 deadlock
func LockOutstandingLoansByUser(ctx context.Context, tx database.Tx, userID int) ([]model.Loan, error) {
	return queryAll(ctx, tx, "LockOutstandingLoansByUser",
		`SELECT `+loanColumns+` FROM loans
		 WHERE user_id = $1 AND returned_at IS NULL
		 ORDER BY book_id, id
		 FOR UPDATE`,
		[]any{userID},
		scanLoan,
	)
}

func DeleteLoansByUser(ctx context.Context, q database.Querier, userID int) (int64, error) {
	tag, err := q.Exec(ctx,
		`DELETE FROM loans WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return 0, wrap("DeleteLoansByUser", err)
	}
	return tag.RowsAffected(), nil
}

func ListLoans(ctx context.Context, q database.Querier, f LoanFilter, page model.PageRequest) (model.Page[model.Loan], error) {
	return listPage(ctx, q, "ListLoans",
		f.apply(dialect.From("loans"), ""),
		loanListColumns,
		goqu.I("id").Asc(),
		page,
		scanLoan,
	)
}

// ListLoanNotices 取出符合條件的借閱，連同借閱者 email 與書名，供通知使用
func ListLoanNotices(ctx context.Context, q database.Querier, f LoanFilter) ([]model.LoanNotice, error) {
	ds := dialect.From(goqu.T("loans").As("l")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("l.user_id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("l.book_id")))).
		Select(
			"l.id", "l.user_id", "l.book_id", "l.loaned_at", "l.due_at", "l.returned_at",
			"u.email", "u.first_name", "b.title",
		).
		Where(goqu.I("u.is_active").IsTrue()).
		Order(goqu.I("l.id").Asc())
	ds = f.apply(ds, "l.")

	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, wrap("ListLoanNotices", err)
	}
	return queryAll(ctx, q, "ListLoanNotices", sql, args, func(row pgx.Row) (model.LoanNotice, error) {
		var n model.LoanNotice
		err := row.Scan(
			&n.ID,
			&n.UserID,
			&n.BookID,
			&n.LoanedAt,
			&n.DueAt,
			&n.ReturnedAt,
			&n.Email,
			&n.FirstName,
			&n.BookTitle,
		)
		return n, err
	})
}
