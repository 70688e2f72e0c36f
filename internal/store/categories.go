package store

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"

	"library-api/internal/database"
	"library-api/internal/model"
)

const bookCountExpr = `(SELECT COUNT(*) FROM books b WHERE b.category_id = c.id)`

var categoryListColumns = []any{
	goqu.I("c.id"),
	goqu.I("c.name"),
	goqu.I("c.description"),
	goqu.I("c.created_at"),
	goqu.L(bookCountExpr).As("book_count"),
}

func scanCategory(row pgx.Row) (model.Category, error) {
	var c model.Category
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.CreatedAt,
		&c.BookCount,
	)
	return c, err
}

func GetCategoryByID(ctx context.Context, q database.Querier, categoryID int) (*model.Category, error) {
	c, err := scanCategory(q.QueryRow(ctx,
		`SELECT c.id, c.name, c.description, c.created_at, `+bookCountExpr+`
		 FROM categories c WHERE c.id = $1`,
		categoryID,
	))
	if err != nil {
		return nil, wrap("GetCategoryByID", err)
	}
	return &c, nil
}

func CreateCategory(ctx context.Context, q database.Querier, c *model.Category) error {
	row := q.QueryRow(ctx,
		`INSERT INTO categories (name, description)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		c.Name,
		c.Description,
	)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return wrap("CreateCategory", err)
	}
	return nil
}

func UpdateCategory(ctx context.Context, q database.Querier, c *model.Category) error {
	return execOne(ctx, q, "UpdateCategory",
		`UPDATE categories SET name = $1, description = $2 WHERE id = $3`,
		c.Name,
		c.Description,
		c.ID,
	)
}

func DeleteCategory(ctx context.Context, q database.Querier, categoryID int) error {
	return execOne(ctx, q, "DeleteCategory",
		`DELETE FROM categories WHERE id = $1`,
		categoryID,
	)
}

// LockCategoryByID 刪除分類前鎖住該列，避免同時有書籍被指派進來
func LockCategoryByID(ctx context.Context, tx database.Tx, categoryID int) error {
	var id int
	if err := tx.QueryRow(ctx,
		`SELECT id FROM categories WHERE id = $1 FOR UPDATE`,
		categoryID,
	).Scan(&id); err != nil {
		return wrap("LockCategoryByID", err)
	}
	return nil
}

func CountBooksInCategory(ctx context.Context, q database.Querier, categoryID int) (int, error) {
	var n int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM books WHERE category_id = $1`,
		categoryID,
	).Scan(&n); err != nil {
		return 0, wrap("CountBooksInCategory", err)
	}
	return n, nil
}

func ListCategories(ctx context.Context, q database.Querier, page model.PageRequest) (model.Page[model.Category], error) {
	return listPage(ctx, q, "ListCategories",
		dialect.From(goqu.T("categories").As("c")),
		categoryListColumns,
		goqu.I("c.id").Asc(),
		page,
		scanCategory,
	)
}
