package store

import (
	"context"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"

	"library-api/internal/database"
	"library-api/internal/model"
)

const bookColumns = `id, title, author, isbn, publication_date, quantity, available, category_id, created_at`

var bookListColumns = []any{"id", "title", "author", "isbn", "publication_date", "quantity", "available", "category_id", "created_at"}

// BookFilter 書籍清單條件；零值代表全部
type BookFilter struct {
	CategoryID *int
	// Term 不分大小寫比對 title、author、isbn 子字串
	Term string
}

func scanBook(row pgx.Row) (model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.ISBN,
		&b.PublicationDate,
		&b.Quantity,
		&b.Available,
		&b.CategoryID,
		&b.CreatedAt,
	)
	return b, err
}

func GetBookByID(ctx context.Context, q database.Querier, bookID int) (*model.Book, error) {
	b, err := scanBook(q.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = $1`,
		bookID,
	))
	if err != nil {
		return nil, wrap("GetBookByID", err)
	}
	return &b, nil
}

// LockBookByID 讀取書籍並持有 row lock 直到交易結束
// 所有讀後寫 available 的流程都必須先呼叫它
func LockBookByID(ctx context.Context, tx database.Tx, bookID int) (*model.Book, error) {
	b, err := scanBook(tx.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`,
		bookID,
	))
	if err != nil {
		return nil, wrap("LockBookByID", err)
	}
	return &b, nil
}

// CreateBook 新書 available 等於 quantity
func CreateBook(ctx context.Context, q database.Querier, b *model.Book) error {
	row := q.QueryRow(ctx,
		`INSERT INTO books (title, author, isbn, publication_date, quantity, available, category_id)
		 VALUES ($1, $2, $3, $4, $5, $5, $6)
		 RETURNING id, available, created_at`,
		b.Title,
		b.Author,
		b.ISBN,
		b.PublicationDate,
		b.Quantity,
		b.CategoryID,
	)
	if err := row.Scan(&b.ID, &b.Available, &b.CreatedAt); err != nil {
		return wrap("CreateBook", err)
	}
	return nil
}

// UpdateBook 覆寫所有可變欄位，包含 available
func UpdateBook(ctx context.Context, q database.Querier, b *model.Book) error {
	return execOne(ctx, q, "UpdateBook",
		`UPDATE books
		 SET title = $1, author = $2, isbn = $3, publication_date = $4,
		     quantity = $5, available = $6, category_id = $7
		 WHERE id = $8`,
		b.Title,
		b.Author,
		b.ISBN,
		b.PublicationDate,
		b.Quantity,
		b.Available,
		b.CategoryID,
		b.ID,
	)
}

// AdjustBookAvailable 將 available 加上 delta，結果不超過 quantity
// 低於 0 會違反 books_available_range constraint
func AdjustBookAvailable(ctx context.Context, q database.Querier, bookID, delta int) (int, error) {
	var available int
	err := q.QueryRow(ctx,
		`UPDATE books SET available = LEAST(available + $1, quantity)
		 WHERE id = $2
		 RETURNING available`,
		delta,
		bookID,
	).Scan(&available)
	if err != nil {
		return 0, wrap("AdjustBookAvailable", err)
	}
	return available, nil
}

func DeleteBook(ctx context.Context, q database.Querier, bookID int) error {
	return execOne(ctx, q, "DeleteBook",
		`DELETE FROM books WHERE id = $1`,
		bookID,
	)
}

func ListBooks(ctx context.Context, q database.Querier, f BookFilter, page model.PageRequest) (model.Page[model.Book], error) {
	ds := dialect.From("books")
	if f.CategoryID != nil {
		ds = ds.Where(goqu.C("category_id").Eq(*f.CategoryID))
	}
	if term := strings.TrimSpace(f.Term); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("title").ILike(pattern),
			goqu.C("author").ILike(pattern),
			goqu.C("isbn").ILike(pattern),
		))
	}
	return listPage(ctx, q, "ListBooks", ds, bookListColumns, goqu.I("id").Asc(), page, scanBook)
}

// escapeLike 跳脫 LIKE 的萬用字元，使用者輸入只做字面比對
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
